package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

func TestEnsureAdmin_Creates(t *testing.T) {
	dir := newStubDirectory()

	created, err := EnsureAdmin(context.Background(), dir, prefixHasher{}, " Root@X.com", "pw", zerolog.Nop())
	if err != nil || !created {
		t.Fatalf("expected admin to be created, got %v %v", created, err)
	}
	u := dir.users[1]
	if u.Email != "root@x.com" || u.Role != domain.RoleAdmin || u.PasswordHash != "hashed:pw" {
		t.Fatalf("unexpected admin %+v", u)
	}
}

func TestEnsureAdmin_SkipsExisting(t *testing.T) {
	dir := newStubDirectory()
	seedUsers(dir, domain.RoleCustomer)

	created, err := EnsureAdmin(context.Background(), dir, prefixHasher{}, "customer@x.com", "pw", zerolog.Nop())
	if err != nil || created {
		t.Fatalf("expected skip, got %v %v", created, err)
	}
	if dir.users[1].Role != domain.RoleCustomer || dir.creates != 0 {
		t.Fatalf("existing user must not be touched")
	}
}

func TestEnsureAdmin_NoCredentials(t *testing.T) {
	dir := newStubDirectory()

	for _, creds := range [][2]string{{"", "pw"}, {"root@x.com", ""}} {
		created, err := EnsureAdmin(context.Background(), dir, prefixHasher{}, creds[0], creds[1], zerolog.Nop())
		if err != nil || created {
			t.Fatalf("expected no-op for %v, got %v %v", creds, created, err)
		}
	}
	if len(dir.users) != 0 {
		t.Fatalf("nothing should be created")
	}
}
