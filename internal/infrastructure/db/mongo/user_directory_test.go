package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

func TestUserDocument_RoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	u := &domain.User{
		ID:           7,
		FirstName:    "Ada",
		Email:        "ada@x.com",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleAgent,
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	got := toDocument(u).toDomain()
	if got.ID != 7 || got.Email != u.Email || got.Role != domain.RoleAgent || got.PasswordHash != u.PasswordHash {
		t.Fatalf("unexpected user after conversion: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at lost: %v", got.CreatedAt)
	}
}

func TestLiveFilter(t *testing.T) {
	f := live(bson.M{"email": "a@x.com"})
	if _, ok := f["deleted_at"]; !ok {
		t.Fatalf("expected deleted_at condition in %v", f)
	}
}

// Runs against a real server when TEST_MONGO_URI is set.
func TestUserDirectory_Integration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: "user_access_test"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	}()
	_ = db.Drop(ctx)

	dir := NewUserDirectory(db)
	if err := dir.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	a, err := dir.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleGuest, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID != 1 {
		t.Fatalf("expected id 1, got %d", a.ID)
	}
	if _, err := dir.Create(ctx, &domain.User{Email: "a@x.com", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	a.Role = domain.RoleCustomer
	saved, err := dir.Save(ctx, a)
	if err != nil || saved.Role != domain.RoleCustomer {
		t.Fatalf("save: %+v %v", saved, err)
	}

	found, err := dir.FindByEmail(ctx, "a@x.com")
	if err != nil || found.ID != a.ID {
		t.Fatalf("find by email: %+v %v", found, err)
	}
	if _, err := dir.FindByID(ctx, 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	items, total, err := dir.List(ctx, 1, 10)
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("list: %d %d %v", len(items), total, err)
	}
}
