package memory

import (
	"context"
	"sync"

	"github.com/solotrip/solotrip-go/internal/model"
	"github.com/solotrip/solotrip-go/internal/repository"
)

// UserRepository is an in-memory user store. It is safe for concurrent use.
type UserRepository struct {
	mu sync.RWMutex

	byID       map[int64]model.User
	byUsername map[string]int64
	lastID     int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[int64]model.User),
		byUsername: make(map[string]int64),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return repository.ErrDuplicateUsername
	}

	r.lastID++
	user.ID = r.lastID
	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}
