// Package repository stores users and listings in MongoDB.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrNotOwner        = errors.New("caller does not own the document")
	ErrAlreadyReviewed = errors.New("property already reviewed by caller")
	ErrDuplicateEmail  = errors.New("email already registered")
)

// objectID parses a hex id. A malformed id can never match a document, so it
// is reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// ownedCollection performs single-document writes conditioned on the caller
// being the document's creator.
type ownedCollection struct {
	col        *mongo.Collection
	ownerField string
}

func (c ownedCollection) findByID(ctx context.Context, id string, out any) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	err = c.col.FindOne(ctx, bson.M{"_id": oid}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find %s %s: %w", c.col.Name(), id, err)
	}
	return nil
}

// missOrForeign explains why an owner-conditioned write matched nothing.
func (c ownedCollection) missOrForeign(ctx context.Context, oid primitive.ObjectID) error {
	n, err := c.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("probe %s %s: %w", c.col.Name(), oid.Hex(), err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrNotOwner
}

func (c ownedCollection) updateOwned(ctx context.Context, id string, owner primitive.ObjectID, set bson.M, out any) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, c.ownerField: owner}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = c.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return c.missOrForeign(ctx, oid)
	}
	if err != nil {
		return fmt.Errorf("update %s %s: %w", c.col.Name(), id, err)
	}
	return nil
}

func (c ownedCollection) deleteOwned(ctx context.Context, id string, owner primitive.ObjectID) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := c.col.DeleteOne(ctx, bson.M{"_id": oid, c.ownerField: owner})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", c.col.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return c.missOrForeign(ctx, oid)
	}
	return nil
}

func (c ownedCollection) count(ctx context.Context, query bson.M) (int64, error) {
	total, err := c.col.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.col.Name(), err)
	}
	return total, nil
}

func (c ownedCollection) findPage(ctx context.Context, query bson.M, page int, out any) error {
	cursor, err := c.col.Find(ctx, query, pageOptions(page))
	if err != nil {
		return fmt.Errorf("find %s: %w", c.col.Name(), err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", c.col.Name(), err)
	}
	return nil
}
