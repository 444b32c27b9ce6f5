package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/hostel_pg_finder/backend/apperrors"
	"github.com/dcode-github/hostel_pg_finder/backend/middleware"
	"github.com/dcode-github/hostel_pg_finder/backend/models"
	"github.com/dcode-github/hostel_pg_finder/backend/repository"
	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

const maxBodyBytes = 1 << 20

type PropertyStore interface {
	List(ctx context.Context, f models.PropertyFilter, page int) (models.Page[models.Property], error)
	GetByID(ctx context.Context, id string) (models.Property, error)
	Create(ctx context.Context, p models.Property) error
	Update(ctx context.Context, id string, owner primitive.ObjectID, u models.PropertyUpdate) (models.Property, error)
	Delete(ctx context.Context, id string, owner primitive.ObjectID) error
	AddReview(ctx context.Context, id string, review models.Review) error
}

type RoommateStore interface {
	List(ctx context.Context, f models.RoommateFilter, page int) (models.Page[models.Roommate], error)
	GetByID(ctx context.Context, id string) (models.Roommate, error)
	Create(ctx context.Context, rm models.Roommate) error
	Update(ctx context.Context, id string, user primitive.ObjectID, u models.RoommateUpdate) (models.Roommate, error)
	Delete(ctx context.Context, id string, user primitive.ObjectID) error
}

type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u models.User) error
	Update(ctx context.Context, id primitive.ObjectID, u models.ProfileUpdate, passwordHash string) (models.User, error)
}

// ListCache stores serialized listing pages keyed by query.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
	Invalidate(ctx context.Context, prefix string)
}

const (
	propertyCachePrefix = "property"
	roommateCachePrefix = "roommate"
)

// storeMessages holds the client-facing wording for repository failures of
// one entity and action.
type storeMessages struct {
	notFound  string
	forbidden string
}

func mapStoreError(err error, msgs storeMessages) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(msgs.notFound)
	case errors.Is(err, repository.ErrNotOwner):
		return apperrors.Forbidden(msgs.forbidden)
	case errors.Is(err, repository.ErrAlreadyReviewed):
		return apperrors.Validation("Property already reviewed")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.Validation("User already exists")
	default:
		return apperrors.Internal(err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return nil
}

// decodeAndValidate decodes the JSON body into dst and checks its validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeBody(w, r, dst); err != nil {
		return err
	}
	if err := utils.Validate(dst); err != nil {
		return apperrors.Validation(err.Error())
	}
	return nil
}

func currentUser(r *http.Request) (models.User, error) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return models.User{}, apperrors.Unauthorized("Not authorized, no token")
	}
	return u, nil
}

// resolveUser renders a user reference, falling back to the bare id when the
// user no longer exists.
func resolveUser(ctx context.Context, users UserStore, id primitive.ObjectID) (models.UserRef, error) {
	u, err := users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.UserRef{ID: id}, nil
	}
	if err != nil {
		return models.UserRef{}, apperrors.Internal(err)
	}
	return u.Ref(), nil
}

// writeCachedList serves key from the cache, or builds the page with load,
// caches it and writes it.
func writeCachedList(w http.ResponseWriter, r *http.Request, lc ListCache, key string, load func() (any, error)) {
	if data, ok := lc.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		_, _ = w.Write(data)
		return
	}

	body, err := load()
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	data, err := json.Marshal(body)
	if err != nil {
		utils.WriteError(w, r, apperrors.Internal(err))
		return
	}
	lc.Set(r.Context(), key, data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	_, _ = w.Write(data)
}
