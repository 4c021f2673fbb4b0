package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

type stubDirectory struct {
	users   map[int64]*domain.User
	nextID  int64
	creates int
	saves   int
	findErr error
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubDirectory) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrAlreadyRegistered
		}
	}
	r.creates++
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubDirectory) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.saves++
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubDirectory) List(_ context.Context, page, pageSize int) ([]*domain.User, int64, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []*domain.User{}
	start := (page - 1) * pageSize
	for i := start; i < len(ids) && i < start+pageSize; i++ {
		out = append(out, cloneUser(r.users[ids[i]]))
	}
	return out, int64(len(ids)), nil
}

// prefixHasher stands in for bcrypt in unit tests.
type prefixHasher struct {
	err error
}

func (h prefixHasher) Hash(_ context.Context, password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h prefixHasher) Compare(_ context.Context, hash, password string) (bool, error) {
	if !strings.HasPrefix(hash, "hashed:") {
		return false, errors.New("malformed hash")
	}
	return hash == "hashed:"+password, nil
}
