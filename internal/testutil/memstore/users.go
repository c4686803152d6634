package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.UserRepository = (*Users)(nil)

// Users guarda usuarios en memoria.
type Users struct {
	mu    sync.Mutex
	users []*entity.User
}

// NewUsers crea un repositorio de usuarios vacío.
func NewUsers() *Users {
	return &Users{}
}

func (r *Users) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	now := time.Now()
	u.ID = int64(len(r.users) + 1)
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *Users) GetByID(_ context.Context, id int64) (*entity.User, error) {
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

func (r *Users) GetByUsername(_ context.Context, username string) (*entity.User, error) {
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
