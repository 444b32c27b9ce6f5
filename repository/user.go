package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/hostel_pg_finder/backend/models"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(col *mongo.Collection) *UserRepository {
	return &UserRepository{col: col}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	u.Email = NormalizeEmail(u.Email)
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update applies the present profile fields. passwordHash replaces the stored
// hash when non-empty.
func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, u models.ProfileUpdate, passwordHash string) (models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = NormalizeEmail(*u.Email)
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.ProfileImage != nil {
		set["profileImage"] = *u.ProfileImage
	}
	if passwordHash != "" {
		set["password"] = passwordHash
	}

	var updated models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.User{}, ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return models.User{}, ErrDuplicateEmail
	case err != nil:
		return models.User{}, fmt.Errorf("update user %s: %w", id.Hex(), err)
	}
	return updated, nil
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
