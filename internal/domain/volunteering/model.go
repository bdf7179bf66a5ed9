package volunteering

import "time"

// ActivityType etiqueta la actividad y decide su thumbnail en el sitio.
type ActivityType string

const (
	TypeCats    ActivityType = "cats"
	TypeDogs    ActivityType = "dogs"
	TypeOther   ActivityType = "other"
	TypeMulti   ActivityType = "multi"
	TypeGeneral ActivityType = "general"
)

// Activity es una jornada de voluntariado creada por staff.
// Cancelled es una bandera de una sola dirección (false -> true); cancelar
// no borra los signups existentes, solo bloquea el detalle y nuevos signups.
type Activity struct {
	ID string

	Title       string
	Description string

	// Día de la actividad; la hora va aparte en StartTime/EndTime ("HH:MM").
	Date      time.Time
	StartTime string
	EndTime   string

	MaxAttendance int
	Type          ActivityType

	Cancelled bool
	StaffID   string
}

// Signup es la entidad join voluntario<->actividad: su existencia ES el
// estado "anotado"; no tiene atributos propios.
type Signup struct {
	ActivityID  string
	VolunteerID string
}

// Thumbnail mapea el tipo de actividad a su ícono estático.
func (a Activity) Thumbnail() string {
	switch a.Type {
	case TypeCats:
		return "thumbnails/cat.png"
	case TypeDogs:
		return "thumbnails/dog.png"
	case TypeOther:
		return "thumbnails/other.png"
	case TypeMulti:
		return "thumbnails/multi.png"
	default:
		return "thumbnails/general.png"
	}
}
