package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pulsechat/internal/model"
)

// UserRegistry holds registered usernames. The database engine backs it with
// the users table; the in-memory engine keeps it in the process.
type UserRegistry interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type MemoryUserRegistry struct {
	mu     sync.Mutex
	nextID uint
	users  []model.User
	byName map[string]int
}

func NewMemoryUserRegistry() *MemoryUserRegistry {
	return &MemoryUserRegistry{byName: make(map[string]int)}
}

func (r *MemoryUserRegistry) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return fmt.Errorf("username %q already registered", user.Username)
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.byName[user.Username] = len(r.users)
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryUserRegistry) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, exists := r.byName[username]
	if !exists {
		return nil, nil
	}
	user := r.users[idx]
	return &user, nil
}

func (r *MemoryUserRegistry) GetByID(ctx context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == 0 || id > uint(len(r.users)) {
		return nil, nil
	}
	user := r.users[id-1]
	return &user, nil
}

func (r *MemoryUserRegistry) List(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]model.User, len(r.users))
	copy(users, r.users)
	return users, nil
}
