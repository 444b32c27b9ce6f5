package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/hostel_pg_finder/backend/models"
)

type PropertyRepository struct {
	owned ownedCollection
}

func NewPropertyRepository(col *mongo.Collection) *PropertyRepository {
	return &PropertyRepository{owned: ownedCollection{col: col, ownerField: "owner"}}
}

func (r *PropertyRepository) List(ctx context.Context, f models.PropertyFilter, page int) (models.Page[models.Property], error) {
	query := propertyQuery(f)

	total, err := r.owned.count(ctx, query)
	if err != nil {
		return models.Page[models.Property]{}, err
	}

	properties := []models.Property{}
	if err := r.owned.findPage(ctx, query, page, &properties); err != nil {
		return models.Page[models.Property]{}, err
	}

	return models.Page[models.Property]{Items: properties, Total: total, Page: page}, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (models.Property, error) {
	var p models.Property
	if err := r.owned.findByID(ctx, id, &p); err != nil {
		return models.Property{}, err
	}
	return p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p models.Property) error {
	if _, err := r.owned.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, id string, owner primitive.ObjectID, u models.PropertyUpdate) (models.Property, error) {
	var p models.Property
	if err := r.owned.updateOwned(ctx, id, owner, propertySet(u, time.Now().UTC()), &p); err != nil {
		return models.Property{}, err
	}
	return p, nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id string, owner primitive.ObjectID) error {
	return r.owned.deleteOwned(ctx, id, owner)
}

// AddReview appends review to the property unless its author already has one
// there. The duplicate check and the write are one conditional update.
func (r *PropertyRepository) AddReview(ctx context.Context, id string, review models.Review) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.owned.col.UpdateOne(ctx, reviewFilter(oid, review.User), reviewPipeline(review))
	if err != nil {
		return fmt.Errorf("add review to property %s: %w", id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	var existing models.Property
	opts := options.FindOne().SetProjection(bson.M{"reviews.user": 1})
	err = r.owned.col.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("probe property %s: %w", id, err)
	}
	if existing.HasReviewFrom(review.User) {
		return ErrAlreadyReviewed
	}
	return fmt.Errorf("add review to property %s: no document matched", id)
}
