package animals

import "time"

// Animal representa un animal del refugio.
// AdoptedAt en nil significa "disponible"; pasa a non-nil una sola vez
// (la escritura es condicional, ver Repository.MarkAdopted).
type Animal struct {
	ID string

	Name    string
	Species Species
	Breed   string
	Color   string
	Sex     Sex

	// BirthDate es la edad con semántica de fecha de nacimiento
	// (el filtro de franjas etarias compara contra esta fecha).
	BirthDate time.Time

	Description string
	ImageURL    string

	ArrivedAt time.Time
	AdoptedAt *time.Time

	// Staff asignado al ingreso del animal.
	StaffID string
}

// Available indica si el animal sigue disponible para adopción.
func (a Animal) Available() bool {
	return a.AdoptedAt == nil
}
