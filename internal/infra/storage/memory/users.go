package memory

import (
	"context"
	"strings"
	"sync"

	domainuser "stayfinder/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[domainuser.ID]*domainuser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[domainuser.ID]*domainuser.User)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = domainuser.NormalizeEmail(email)
	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) ByEmailOrUsername(ctx context.Context, email, username string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = domainuser.NormalizeEmail(email)
	for _, u := range r.items {
		if u.Email == email || strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[u.ID] = u
	return nil
}
