package animals

import "time"

// Species es un código abierto (el refugio recibe de todo); solo cat y dog
// tienen significado especial para el filtro de especies.
type Species string

const (
	SpeciesCat Species = "cat"
	SpeciesDog Species = "dog"
)

// Sex define el sexo del animal.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// SpeciesFilter define el filtro de especie de la búsqueda pública.
// "other" excluye exactamente cat y dog (sin enumerar el resto de especies).
type SpeciesFilter string

const (
	FilterSpeciesNone  SpeciesFilter = ""
	FilterSpeciesCat   SpeciesFilter = "cat"
	FilterSpeciesDog   SpeciesFilter = "dog"
	FilterSpeciesOther SpeciesFilter = "other"
)

// AgeBand define la franja etaria de la búsqueda pública.
// young: nacido dentro de los últimos 2 años (inclusive).
// adult: estrictamente entre la marca de 8 años y la de 2 años.
// senior: nacido en o antes de la marca de 8 años.
type AgeBand string

const (
	AgeBandNone   AgeBand = ""
	AgeBandYoung  AgeBand = "young"
	AgeBandAdult  AgeBand = "adult"
	AgeBandSenior AgeBand = "senior"
)

// SearchFilter son los tres filtros opcionales de la búsqueda pública.
// Valor vacío = sin restricción en esa dimensión.
type SearchFilter struct {
	Species SpeciesFilter
	Age     AgeBand
	Name    string
}

// ListQuery es la consulta que reciben los repos: el service ya resolvió
// la franja etaria a cotas concretas de BirthDate (reloj inyectado, los
// repos no consultan "now").
type ListQuery struct {
	Species SpeciesFilter

	BornSince  *time.Time // cota inferior inclusiva (young)
	BornAfter  *time.Time // cota inferior exclusiva (adult)
	BornBefore *time.Time // cota superior exclusiva (adult)
	BornUntil  *time.Time // cota superior inclusiva (senior)

	// Substring case-sensitive sobre el nombre (mismo comportamiento que
	// un contains estricto; decisión documentada en DESIGN.md).
	NameContains string
}
