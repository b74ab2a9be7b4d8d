package users

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	txMu   sync.Mutex
	mu     sync.RWMutex
	users  map[int64]User
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[int64]User)}
}

// WithTx stages writes on a copy and swaps it in only when fn succeeds.
func (r *MemoryRepo) WithTx(ctx context.Context, fn func(repo Repo) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	staged := &MemoryRepo{users: make(map[int64]User, len(r.users)), nextID: r.nextID}
	for id, u := range r.users {
		staged.users[id] = u
	}
	r.mu.RUnlock()

	if err := fn(staged); err != nil {
		return err
	}

	r.mu.Lock()
	r.users = staged.users
	r.nextID = staged.nextID
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) Create(ctx context.Context, user User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return User{}, ErrEmailTaken
		}
	}
	r.nextID++
	now := time.Now().UTC()
	user.ID = r.nextID
	user.PasswordHash = ""
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return user, nil
}

func (r *MemoryRepo) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = hash
	r.users[userID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID int64) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}
