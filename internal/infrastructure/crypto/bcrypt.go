package crypto

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sundevs/user-access-api/internal/core/domain"
	"github.com/sundevs/user-access-api/internal/pkg/metrics"
)

// Cost is the fixed bcrypt work factor.
const Cost = 10

// Runner executes a job, possibly on another goroutine, and waits for it.
type Runner interface {
	Do(ctx context.Context, fn func() error) error
}

type inlineRunner struct{}

func (inlineRunner) Do(_ context.Context, fn func() error) error { return fn() }

// BcryptHasher implements ports.PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost   int
	runner Runner
}

// NewBcryptHasher returns a hasher that runs on runner, or on the calling
// goroutine when runner is nil.
func NewBcryptHasher(runner Runner) *BcryptHasher {
	if runner == nil {
		runner = inlineRunner{}
	}
	return &BcryptHasher{cost: Cost, runner: runner}
}

// Hash generates a salted bcrypt hash of password.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	var hash []byte
	err := h.runner.Do(ctx, func() error {
		start := time.Now()
		defer func() { metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds()) }()

		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
		return err
	})
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash.
func (h *BcryptHasher) Compare(ctx context.Context, hash, password string) (bool, error) {
	var match bool
	err := h.runner.Do(ctx, func() error {
		start := time.Now()
		defer func() { metrics.PasswordHashDuration.WithLabelValues("compare").Observe(time.Since(start).Seconds()) }()

		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if err == nil {
			match = true
			return nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil
		}
		return err
	})
	if err != nil {
		return false, err
	}
	return match, nil
}
