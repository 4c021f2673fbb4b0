package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sundevs/user-access-api/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionCounters = "counters"
	usersCounterID     = "users"
)

// UserDirectory stores users in MongoDB. Numeric ids come from a counters
// document incremented atomically on every insert.
type UserDirectory struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserDirectory(db *mongo.Database) *UserDirectory {
	return &UserDirectory{
		users:    db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
	}
}

type userDocument struct {
	ID           int64      `bson:"_id"`
	FirstName    string     `bson:"first_name,omitempty"`
	LastName     string     `bson:"last_name,omitempty"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password"`
	Role         string     `bson:"role"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
	DeletedAt    *time.Time `bson:"deleted_at,omitempty"`
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
		DeletedAt:    u.DeletedAt,
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		DeletedAt:    d.DeletedAt,
	}
}

// live matches documents that have not been soft-deleted.
func live(filter bson.M) bson.M {
	filter["deleted_at"] = bson.M{"$exists": false}
	return filter
}

func (r *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, live(bson.M{"email": email}))
}

func (r *UserDirectory) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, live(bson.M{"_id": id}))
}

func (r *UserDirectory) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// Create inserts user under the next sequence value. The unique email index
// rejects a concurrent duplicate.
func (r *UserDirectory) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := toDocument(user)
	doc.ID = id
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserDirectory) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func (r *UserDirectory) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDocument(user)
	update := bson.M{"$set": bson.M{
		"first_name": doc.FirstName,
		"last_name":  doc.LastName,
		"email":      doc.Email,
		"password":   doc.PasswordHash,
		"role":       doc.Role,
		"updated_at": doc.UpdatedAt,
	}}

	var saved userDocument
	err := r.users.FindOneAndUpdate(ctx,
		live(bson.M{"_id": user.ID}),
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return saved.toDomain(), nil
}

func (r *UserDirectory) List(ctx context.Context, page, pageSize int) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if page < 1 {
		page = 1
	}
	filter := live(bson.M{})

	total, err := r.users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cur, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]*domain.User, 0, pageSize)
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

// EnsureIndexes creates the unique email index on the users collection.
func (r *UserDirectory) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}
