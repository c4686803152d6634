package dto

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest entrada para renovar el token de acceso.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// UserInfo datos públicos del usuario autenticado.
type UserInfo struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Nickname string   `json:"nickname"`
	Roles    []string `json:"roles"`
}

// LoginResponse tokens + usuario.
type LoginResponse struct {
	Token    string   `json:"token"`
	Refresh  string   `json:"refresh"`
	UserInfo UserInfo `json:"userInfo"`
}

// TokenResponse salida de refresh.
type TokenResponse struct {
	Token string `json:"token"`
}

// ToUserInfo mapea el usuario a su salida pública.
func ToUserInfo(u *entity.User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Nickname: u.DisplayName(),
		Roles:    []string{u.Role},
	}
}
