package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

func TestUserDirectory_CreateAssignsIncrementingIDs(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	a, err := d.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleGuest})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, _ := d.Create(ctx, &domain.User{Email: "b@x.com", Role: domain.RoleGuest})

	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", a.ID, b.ID)
	}
}

func TestUserDirectory_CreateDuplicateEmail(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	_, _ = d.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleCustomer})
	if _, err := d.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleAgent}); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	u, _ := d.FindByEmail(ctx, "a@x.com")
	if u.Role != domain.RoleCustomer {
		t.Fatalf("first row modified: %+v", u)
	}
}

func TestUserDirectory_ConcurrentCreateSameEmail(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Create(ctx, &domain.User{Email: "race@x.com"}); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 || d.Count() != 1 {
		t.Fatalf("expected exactly one row, created=%d count=%d", created, d.Count())
	}
}

func TestUserDirectory_ReturnsCopies(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	u, _ := d.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleGuest})
	u.Role = domain.RoleAdmin

	stored, _ := d.FindByID(ctx, u.ID)
	if stored.Role != domain.RoleGuest {
		t.Fatalf("caller mutation leaked into store")
	}
}

func TestUserDirectory_SaveAndNotFound(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	u, _ := d.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleGuest})
	u.Role = domain.RoleAgent
	saved, err := d.Save(ctx, u)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Role != domain.RoleAgent {
		t.Fatalf("role not saved")
	}

	if _, err := d.Save(ctx, &domain.User{ID: 99}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := d.FindByID(ctx, 99); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserDirectory_SoftDeletedInvisible(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	now := time.Now()
	u, _ := d.Create(ctx, &domain.User{Email: "gone@x.com", DeletedAt: &now})

	if _, err := d.FindByID(ctx, u.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected soft-deleted user to be hidden, got %v", err)
	}
	if _, err := d.FindByEmail(ctx, "gone@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected soft-deleted user to be hidden, got %v", err)
	}
	items, total, _ := d.List(ctx, 1, 10)
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected empty list, got %d/%d", len(items), total)
	}
}

func TestUserDirectory_List(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	for _, e := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"} {
		_, _ = d.Create(ctx, &domain.User{Email: e})
	}

	items, total, err := d.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(items) != 2 || items[0].ID != 3 || items[1].ID != 4 {
		t.Fatalf("unexpected page: %+v", items)
	}

	items, _, _ = d.List(ctx, 3, 2)
	if len(items) != 1 || items[0].ID != 5 {
		t.Fatalf("unexpected last page: %+v", items)
	}

	items, _, _ = d.List(ctx, 9, 2)
	if len(items) != 0 {
		t.Fatalf("expected empty page past the end")
	}
}
