package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	ExpMinutes        int
	RefreshExpMinutes int
	Issuer            string
}

// AuthUseCase casos de uso de autenticación: login, renovación de token y datos del usuario.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario con la contraseña hasheada (bcrypt). Lo usa el seed.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, username, password, nickname, role string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = entity.RoleOperator
	}
	user := &entity.User{
		Username:     username,
		Nickname:     nickname,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifica usuario/contraseña y emite token de acceso y de refresco.
// Usuario inexistente y contraseña incorrecta devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	sub := jwt.Subject{UserID: user.ID, Username: user.Username, Role: user.Role}
	access, err := jwt.Generate(uc.jwtCfg.Secret, sub, jwt.TypeAccess, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.Generate(uc.jwtCfg.Secret, sub, jwt.TypeRefresh, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    access,
		Refresh:  refresh,
		UserInfo: dto.ToUserInfo(user),
	}, nil
}

// Refresh emite un nuevo token de acceso a partir de un token de refresco válido.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidInput
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, refreshToken, jwt.TypeRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	sub := jwt.Subject{UserID: user.ID, Username: user.Username, Role: user.Role}
	access, err := jwt.Generate(uc.jwtCfg.Secret, sub, jwt.TypeAccess, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: access}, nil
}

// UserInfo datos públicos del usuario autenticado.
func (uc *AuthUseCase) UserInfo(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	info := dto.ToUserInfo(user)
	return &info, nil
}

// ParseAccess valida un token de acceso y devuelve la identidad que transporta.
func (uc *AuthUseCase) ParseAccess(token string) (*entity.Identity, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token, jwt.TypeAccess)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &entity.Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}
