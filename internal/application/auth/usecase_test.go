package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*entity.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = int64(len(r.users) + 1)
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func newAuth(t *testing.T) (*auth.AuthUseCase, *fakeUserRepo) {
	t.Helper()
	repo := &fakeUserRepo{}
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: "s3cr3t", ExpMinutes: 5, RefreshExpMinutes: 60, Issuer: "almacen"})
	_, err := uc.RegisterUser(context.Background(), "ana", "clave123", "Ana P.", entity.RoleAdmin)
	require.NoError(t, err)
	return uc, repo
}

func TestLogin_YRefresh(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "clave123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.NotEmpty(t, out.Refresh)
	assert.Equal(t, "Ana P.", out.UserInfo.Nickname)
	assert.Equal(t, []string{entity.RoleAdmin}, out.UserInfo.Roles)

	id, err := uc.ParseAccess(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana", id.Username)

	// el refresh no sirve como token de acceso
	_, err = uc.ParseAccess(out.Refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	tok, err := uc.Refresh(ctx, out.Refresh)
	require.NoError(t, err)
	_, err = uc.ParseAccess(tok.Token)
	assert.NoError(t, err)

	_, err = uc.Refresh(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Refresh(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, repo := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.users[0].IsActive = false
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterUser_Duplicado(t *testing.T) {
	uc, _ := newAuth(t)
	_, err := uc.RegisterUser(context.Background(), "ana", "otra", "", "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserInfo(t *testing.T) {
	uc, _ := newAuth(t)
	info, err := uc.UserInfo(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ana", info.Username)

	_, err = uc.UserInfo(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
