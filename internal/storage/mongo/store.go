package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"
	"github.com/polkiloo/detta3d-orders/internal/domain/model"
	"github.com/polkiloo/detta3d-orders/internal/domain/repository"
)

// Store implements repository.OrderStore on a MongoDB collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
	timeout    time.Duration
}

// Connect opens a client, verifies it and ensures the collection indexes exist.
func Connect(ctx context.Context, uri, database string, timeout time.Duration, logger *slog.Logger) (*Store, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	store := &Store{
		client:     client,
		collection: client.Database(database).Collection(repository.OrdersTable),
		logger:     logger,
		timeout:    timeout,
	}
	if err := store.createIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Insert stores the order under a new ObjectID rendered as hex.
func (s *Store) Insert(ctx context.Context, order model.Order) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	order.ID = primitive.NewObjectID().Hex()
	if _, err := s.collection.InsertOne(ctx, order); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return order.ID, nil
}

// Get returns the order with the given id.
func (s *Store) Get(ctx context.Context, id string) (*model.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var order model.Order
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// Update sets the given fields and returns the document after the change.
func (s *Store) Update(ctx context.Context, id string, fields repository.Fields) (*model.Order, error) {
	if err := fields.Valid(); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M(fields)}

	var order model.Order
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return &order, nil
}

// Query lists orders matching the filter, oldest first.
func (s *Store) Query(ctx context.Context, filter repository.Filter, pageSize int) ([]model.Order, error) {
	if err := filter.Valid(); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	for column, value := range filter {
		query[column] = value
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if pageSize > 0 {
		opts.SetLimit(int64(pageSize))
	}

	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		s.logger.WarnContext(ctx, "mongo ping failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

var _ repository.OrderStore = (*Store)(nil)
