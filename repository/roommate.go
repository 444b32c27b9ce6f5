package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dcode-github/hostel_pg_finder/backend/models"
)

type RoommateRepository struct {
	owned ownedCollection
}

func NewRoommateRepository(col *mongo.Collection) *RoommateRepository {
	return &RoommateRepository{owned: ownedCollection{col: col, ownerField: "user"}}
}

func (r *RoommateRepository) List(ctx context.Context, f models.RoommateFilter, page int) (models.Page[models.Roommate], error) {
	query := roommateQuery(f)

	total, err := r.owned.count(ctx, query)
	if err != nil {
		return models.Page[models.Roommate]{}, err
	}

	roommates := []models.Roommate{}
	if err := r.owned.findPage(ctx, query, page, &roommates); err != nil {
		return models.Page[models.Roommate]{}, err
	}

	return models.Page[models.Roommate]{Items: roommates, Total: total, Page: page}, nil
}

func (r *RoommateRepository) GetByID(ctx context.Context, id string) (models.Roommate, error) {
	var rm models.Roommate
	if err := r.owned.findByID(ctx, id, &rm); err != nil {
		return models.Roommate{}, err
	}
	return rm, nil
}

func (r *RoommateRepository) Create(ctx context.Context, rm models.Roommate) error {
	if _, err := r.owned.col.InsertOne(ctx, rm); err != nil {
		return fmt.Errorf("insert roommate: %w", err)
	}
	return nil
}

func (r *RoommateRepository) Update(ctx context.Context, id string, user primitive.ObjectID, u models.RoommateUpdate) (models.Roommate, error) {
	var rm models.Roommate
	if err := r.owned.updateOwned(ctx, id, user, roommateSet(u, time.Now().UTC()), &rm); err != nil {
		return models.Roommate{}, err
	}
	return rm, nil
}

func (r *RoommateRepository) Delete(ctx context.Context, id string, user primitive.ObjectID) error {
	return r.owned.deleteOwned(ctx, id, user)
}
