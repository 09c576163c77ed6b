package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
)

// userDocument: документ коллекции пользователей.
type userDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	HashedPassword string             `bson:"hashed_password"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d userDocument) toModel() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.HashedPassword,
		CreatedAt:    d.CreatedAt,
	}
}

type UsersMongoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewUsersMongoRepository ожидает, что уникальный индекс по email уже создан
// (config.EnsureUserIndexes).
func NewUsersMongoRepository(coll *mongo.Collection, timeout time.Duration) *UsersMongoRepository {
	return &UsersMongoRepository{coll: coll, timeout: timeout}
}

func (r *UsersMongoRepository) Create(ctx context.Context, email, passwordHash string) (models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := userDocument{
		ID:             primitive.NewObjectID(),
		Email:          email,
		HashedPassword: passwordHash,
		CreatedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, serr.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	return doc.toModel(), nil
}

func (r *UsersMongoRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UsersMongoRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, serr.ErrNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"_id": oid})
}

// Ping: для health-check.
func (r *UsersMongoRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

func (r *UsersMongoRepository) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	return doc.toModel(), nil
}
