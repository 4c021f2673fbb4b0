package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sundevs/user-access-api/internal/core/domain"
	"github.com/sundevs/user-access-api/internal/core/ports"
	"github.com/sundevs/user-access-api/internal/pkg/metrics"
)

const defaultCacheTTL = 5 * time.Minute

// CachedDirectory is a read-through cache in front of another UserDirectory.
// Entries are keyed by id and by email and dropped whenever the user is
// saved. Every save also bumps a generation counter; a fill is only written
// if the generation it read before loading is still current, so a lookup
// racing a save cannot put the old row back. Redis failures are logged and
// the call falls through to the backing directory.
type CachedDirectory struct {
	next   ports.UserDirectory
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCachedDirectory(next ports.UserDirectory, client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *CachedDirectory {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedDirectory{next: next, client: client, ttl: ttl, log: log}
}

// cachedUser mirrors domain.User including the password hash, which the
// domain type hides from JSON.
type cachedUser struct {
	ID           int64       `json:"id"`
	FirstName    string      `json:"first_name,omitempty"`
	LastName     string      `json:"last_name,omitempty"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	Role         domain.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func fromDomain(u *domain.User) cachedUser {
	return cachedUser{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (c cachedUser) toDomain() *domain.User {
	return &domain.User{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

const generationKey = "user:generation"

func idKey(id int64) string        { return fmt.Sprintf("user:id:%d", id) }
func emailKey(email string) string { return "user:email:" + email }

var errStaleFill = errors.New("user cache generation changed")

func (d *CachedDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return d.readThrough(ctx, emailKey(email), func() (*domain.User, error) {
		return d.next.FindByEmail(ctx, email)
	})
}

func (d *CachedDirectory) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return d.readThrough(ctx, idKey(id), func() (*domain.User, error) {
		return d.next.FindByID(ctx, id)
	})
}

func (d *CachedDirectory) readThrough(ctx context.Context, key string, load func() (*domain.User, error)) (*domain.User, error) {
	raw, err := d.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jsonErr := json.Unmarshal(raw, &cu); jsonErr == nil {
			metrics.DirectoryCacheTotal.WithLabelValues("hit").Inc()
			return cu.toDomain(), nil
		}
		metrics.DirectoryCacheTotal.WithLabelValues("error").Inc()
		d.log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		metrics.DirectoryCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.DirectoryCacheTotal.WithLabelValues("error").Inc()
		d.log.Warn().Err(err).Str("key", key).Msg("user cache read failed")
	}

	gen, genErr := d.generation(ctx)
	u, err := load()
	if err != nil {
		return nil, err
	}
	if genErr == nil {
		d.store(ctx, gen, u)
	}
	return u, nil
}

func (d *CachedDirectory) generation(ctx context.Context) (int64, error) {
	gen, err := d.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// store caches u under both keys unless a save has bumped the generation
// since gen was read.
func (d *CachedDirectory) store(ctx context.Context, gen int64, u *domain.User) {
	raw, err := json.Marshal(fromDomain(u))
	if err != nil {
		return
	}

	err = d.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, idKey(u.ID), raw, d.ttl)
			pipe.Set(ctx, emailKey(u.Email), raw, d.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		d.log.Debug().Int64("user_id", u.ID).Msg("skipping stale user cache fill")
	default:
		d.log.Warn().Err(err).Int64("user_id", u.ID).Msg("user cache write failed")
	}
}

func (d *CachedDirectory) invalidate(ctx context.Context, keys ...string) {
	pipe := d.client.TxPipeline()
	pipe.Incr(ctx, generationKey)
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil {
		d.log.Warn().Err(err).Strs("keys", keys).Msg("user cache invalidation failed")
	}
}

// Create writes through to the backing directory. A negative lookup is never
// cached, so nothing needs invalidating.
func (d *CachedDirectory) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return d.next.Create(ctx, user)
}

func (d *CachedDirectory) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	keys := []string{idKey(user.ID), emailKey(user.Email)}
	if prev, err := d.next.FindByID(ctx, user.ID); err == nil && prev.Email != user.Email {
		keys = append(keys, emailKey(prev.Email))
	}

	saved, err := d.next.Save(ctx, user)
	d.invalidate(ctx, keys...)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// List is not cached.
func (d *CachedDirectory) List(ctx context.Context, page, pageSize int) ([]*domain.User, int64, error) {
	return d.next.List(ctx, page, pageSize)
}
