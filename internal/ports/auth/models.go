package auth

// Claims representa la identidad extraída de la sesión.
// IsStaff habilita las acciones administrativas del refugio.
type Claims struct {
	UserID  string
	Email   string
	IsStaff bool
}
