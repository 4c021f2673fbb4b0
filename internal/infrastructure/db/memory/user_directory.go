// Package memory provides an in-process UserDirectory for development and
// tests. Data is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

type UserDirectory struct {
	mu      sync.RWMutex
	byID    map[int64]*domain.User
	byEmail map[string]int64
	nextID  int64
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{
		byID:    make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
	}
}

func clone(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.DeletedAt != nil {
		t := *u.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func (d *UserDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := d.byID[id]
	if u.DeletedAt != nil {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (d *UserDirectory) FindByID(_ context.Context, id int64) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok || u.DeletedAt != nil {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

// Create assigns the next id. The email index plays the role of a unique
// constraint.
func (d *UserDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byEmail[user.Email]; exists {
		return nil, domain.ErrAlreadyRegistered
	}

	d.nextID++
	stored := clone(user)
	stored.ID = d.nextID
	d.byID[stored.ID] = stored
	d.byEmail[stored.Email] = stored.ID
	return clone(stored), nil
}

func (d *UserDirectory) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.byID[user.ID]
	if !ok || current.DeletedAt != nil {
		return nil, domain.ErrUserNotFound
	}
	if current.Email != user.Email {
		if _, taken := d.byEmail[user.Email]; taken {
			return nil, domain.ErrAlreadyRegistered
		}
		delete(d.byEmail, current.Email)
		d.byEmail[user.Email] = user.ID
	}

	stored := clone(user)
	stored.CreatedAt = current.CreatedAt
	d.byID[user.ID] = stored
	return clone(stored), nil
}

func (d *UserDirectory) List(_ context.Context, page, pageSize int) ([]*domain.User, int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	live := make([]*domain.User, 0, len(d.byID))
	for _, u := range d.byID {
		if u.DeletedAt == nil {
			live = append(live, u)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })

	total := int64(len(live))
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * pageSize
	if pageSize <= 0 || skip >= len(live) {
		return []*domain.User{}, total, nil
	}
	end := skip + pageSize
	if end > len(live) {
		end = len(live)
	}

	out := make([]*domain.User, 0, end-skip)
	for _, u := range live[skip:end] {
		out = append(out, clone(u))
	}
	return out, total, nil
}

// Count returns the number of stored users, including soft-deleted ones.
func (d *UserDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
