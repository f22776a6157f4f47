// Package mongodb implements the storage contract on MongoDB. Users and
// items live in separate collections; email uniqueness is enforced with a
// unique index, and single-document update/delete atomicity comes from the
// server itself.
package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dkolesni/itemstash/internal/db/storage"
	"github.com/dkolesni/itemstash/internal/item"
	"github.com/dkolesni/itemstash/internal/user"
)

// MongoDB is a MongoDB-backed storage implementation.
type MongoDB struct {
	client            *mongo.Client
	users             *mongo.Collection
	items             *mongo.Collection
	connectionTimeout time.Duration
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
}

type itemDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID string             `bson:"user_id"`
	Name    string             `bson:"name"`
	Price   float64            `bson:"price"`
	Seq     int64              `bson:"seq"`
}

// New connects to the MongoDB deployment at mongoURI, verifies the
// connection, and ensures the unique email index.
func New(
	ctx context.Context,
	mongoURI string,
	databaseName string,
	connectionTimeout time.Duration,
) (*MongoDB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, err
	}

	database := client.Database(databaseName)
	db := &MongoDB{
		client:            client,
		users:             database.Collection("users"),
		items:             database.Collection("items"),
		connectionTimeout: connectionTimeout,
	}

	_, err = db.users.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func (db *MongoDB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.connectionTimeout)
}

// CreateUser inserts a new user document. A duplicate key error on the email
// index is reported as storage.ErrEmailTaken.
func (db *MongoDB) CreateUser(ctx context.Context, usr *user.User) (string, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	result, err := db.users.InsertOne(ctx, userDoc{
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", storage.ErrEmailTaken
		}
		return "", err
	}

	usr.ID = result.InsertedID.(primitive.ObjectID).Hex()

	return usr.ID, nil
}

// FindUserByEmail returns the user with the exact email, or storage.ErrNotFound.
func (db *MongoDB) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var doc userDoc
	err := db.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user.User{ID: doc.ID.Hex(), Email: doc.Email, PasswordHash: doc.PasswordHash}, nil
}

// FindUserByID returns the user with the given id, or storage.ErrNotFound.
// A malformed id cannot match any document and is reported as not found.
func (db *MongoDB) FindUserByID(ctx context.Context, userID string) (*user.User, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var doc userDoc
	err = db.users.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user.User{ID: doc.ID.Hex(), Email: doc.Email, PasswordHash: doc.PasswordHash}, nil
}

// CreateItem inserts a new item document. The seq field records insertion
// order for ListItems.
func (db *MongoDB) CreateItem(ctx context.Context, itm *item.Item) (string, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	result, err := db.items.InsertOne(ctx, itemDoc{
		OwnerID: itm.OwnerID,
		Name:    itm.Name,
		Price:   itm.Price,
		Seq:     time.Now().UnixNano(),
	})
	if err != nil {
		return "", err
	}

	itm.ID = result.InsertedID.(primitive.ObjectID).Hex()

	return itm.ID, nil
}

// FindItem returns the item with the given id, or storage.ErrNotFound.
func (db *MongoDB) FindItem(ctx context.Context, itemID string) (*item.Item, error) {
	objectID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var doc itemDoc
	err = db.items.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item.Item{ID: doc.ID.Hex(), OwnerID: doc.OwnerID, Name: doc.Name, Price: doc.Price}, nil
}

// ListItems returns the owner's items in insertion order.
func (db *MongoDB) ListItems(ctx context.Context, ownerID string) ([]item.Item, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := db.items.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []item.Item{}
	for cursor.Next(ctx) {
		var doc itemDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, item.Item{
			ID:      doc.ID.Hex(),
			OwnerID: doc.OwnerID,
			Name:    doc.Name,
			Price:   doc.Price,
		})
	}

	return result, cursor.Err()
}

// UpdateItem replaces the mutable fields of the stored document in a single
// update operation.
func (db *MongoDB) UpdateItem(ctx context.Context, itm *item.Item) error {
	objectID, err := primitive.ObjectIDFromHex(itm.ID)
	if err != nil {
		return storage.ErrNotFound
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	result, err := db.items.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"name": itm.Name, "price": itm.Price}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteItem removes the item document with the given id.
func (db *MongoDB) DeleteItem(ctx context.Context, itemID string) error {
	objectID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return storage.ErrNotFound
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	result, err := db.items.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// Ping verifies that the deployment is reachable.
func (db *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	return db.client.Ping(ctx, nil)
}

// Close disconnects from the deployment.
func (db *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), db.connectionTimeout)
	defer cancel()

	return db.client.Disconnect(ctx)
}
