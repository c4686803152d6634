package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User es un operador del almacén; su identidad queda registrada en los movimientos.
type User struct {
	ID           int64
	Username     string
	Nickname     string
	PasswordHash string // bcrypt
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName devuelve el nombre a mostrar del usuario.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// Identity es el operador autenticado de la petición actual.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}
