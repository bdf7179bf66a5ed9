package adoptions

import "time"

// Status es el estado explícito de la solicitud. La app original usaba un
// boolean nullable (null/true/false); acá es un enum etiquetado para no
// arrastrar la ambigüedad del null.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Application es una solicitud de adopción de un usuario para un animal.
// Invariante: a lo sumo una solicitud por par (animal, usuario), chequeada
// antes de crear (no hay constraint en la base).
type Application struct {
	ID string

	AnimalID string
	UserID   string

	// Staff que tomó la última decisión; vacío mientras está pending.
	StaffID string

	// Texto libre del solicitante.
	Text string

	// Motivo de rechazo; solo tiene valor en estado rejected.
	Reason string

	Status      Status
	SubmittedAt time.Time
}
