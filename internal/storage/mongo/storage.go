// Package mongo stores accounts in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	domainErrors "github.com/polkiloo/celestial/internal/domain/errors"
	"github.com/polkiloo/celestial/internal/domain/model"
	"github.com/polkiloo/celestial/internal/domain/repository"
	"github.com/polkiloo/celestial/internal/pkg/lazy"
)

const (
	usersCollection   = "users"
	disconnectTimeout = 5 * time.Second
)

type collection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
}

type client interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

type handle struct {
	client client
	users  collection
}

var connectClient = func(ctx context.Context, uri, database string, timeout time.Duration) (*handle, error) {
	c, err := mongo.Connect(options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping: %w", err)
	}

	users := c.Database(database).Collection(usersCollection)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_1"),
	}
	if _, err := users.Indexes().CreateOne(ctx, index); err != nil {
		_ = c.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ensure email index: %w", err)
	}
	return &handle{client: c, users: users}, nil
}

type userDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
	LastLogin *time.Time    `bson:"lastLogin,omitempty"`
}

func (d *userDocument) toModel() *model.User {
	u := &model.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if d.LastLogin != nil {
		at := d.LastLogin.UTC()
		u.LastLogin = &at
	}
	return u
}

// Storage is the MongoDB credential store. The client is connected on first
// use and cached for the lifetime of the process.
type Storage struct {
	uri            string
	database       string
	connectTimeout time.Duration
	conn           *lazy.Value[*handle]
	logger         *slog.Logger
}

type userRepository struct {
	storage *Storage
}

// New prepares a storage for the given connection string and database.
func New(uri, database string, connectTimeout time.Duration, logger *slog.Logger) *Storage {
	s := &Storage{uri: uri, database: database, connectTimeout: connectTimeout, logger: logger}
	s.conn = lazy.NewWithRelease(s.connect, s.release)
	return s
}

func (s *Storage) connect(ctx context.Context) (*handle, error) {
	if s.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.connectTimeout)
		defer cancel()
	}
	h, err := connectClient(ctx, s.uri, s.database, s.connectTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrStoreUnavailable, err)
	}
	s.logger.Info("mongodb connected", slog.String("database", s.database))
	return h, nil
}

func (s *Storage) release(h *handle) {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := h.client.Disconnect(ctx); err != nil {
		s.logger.Warn("disconnect stale mongodb client", slog.Any("error", err))
	}
}

// Initialize connects, pings and ensures the unique email index. Repeated calls reuse the connection.
func (s *Storage) Initialize(ctx context.Context) error {
	_, err := s.conn.Get(ctx)
	return err
}

// Close disconnects the cached client, if any.
func (s *Storage) Close(ctx context.Context) error {
	h, ok := s.conn.Reset()
	if !ok {
		return nil
	}
	return h.client.Disconnect(ctx)
}

// HealthCheck pings the primary with a short deadline.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	h, err := s.conn.Get(ctx)
	if err != nil {
		return err
	}
	return h.client.Ping(ctx, readpref.Primary())
}

// Users returns the account repository.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	h, err := r.storage.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	doc := userDocument{
		ID:        bson.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if _, err := h.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toModel(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domainErrors.ErrInvalidIdentifier
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return domainErrors.ErrInvalidIdentifier
	}
	h, err := r.storage.conn.Get(ctx)
	if err != nil {
		return err
	}

	res, err := h.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "lastLogin", Value: at}}}},
	)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	h, err := r.storage.conn.Get(ctx)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := h.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toModel(), nil
}
