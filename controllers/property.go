package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/dcode-github/hostel_pg_finder/backend/cache"
	"github.com/dcode-github/hostel_pg_finder/backend/models"
	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

type PropertyListResponse struct {
	Properties []models.Property `json:"properties"`
	Page       int               `json:"page"`
	Pages      int               `json:"pages"`
	Total      int64             `json:"total"`
}

var (
	propertyReadMsgs   = storeMessages{notFound: "Property not found"}
	propertyUpdateMsgs = storeMessages{notFound: "Property not found", forbidden: "You can only update your own listings"}
	propertyDeleteMsgs = storeMessages{notFound: "Property not found", forbidden: "You can only delete your own listings"}
)

func GetProperties(props PropertyStore, lc ListCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		writeCachedList(w, r, lc, cache.Key(propertyCachePrefix, query), func() (any, error) {
			page := pageNumber(query)
			result, err := props.List(r.Context(), propertyFilter(query), page)
			if err != nil {
				return nil, mapStoreError(err, propertyReadMsgs)
			}
			return PropertyListResponse{
				Properties: result.Items,
				Page:       page,
				Pages:      result.Pages(),
				Total:      result.Total,
			}, nil
		})
	}
}

func GetPropertyByID(props PropertyStore, users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		property, err := props.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.WriteError(w, r, mapStoreError(err, propertyReadMsgs))
			return
		}

		owner, err := resolveUser(r.Context(), users, property.Owner)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, models.PropertyDetail{Property: property, Owner: owner})
	}
}

func CreateProperty(props PropertyStore, lc ListCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		var in models.PropertyInput
		if err := decodeAndValidate(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		property := models.NewProperty(user.ID, in, time.Now().UTC())
		if err := props.Create(r.Context(), property); err != nil {
			utils.WriteError(w, r, mapStoreError(err, propertyReadMsgs))
			return
		}
		lc.Invalidate(r.Context(), propertyCachePrefix)

		log.Ctx(r.Context()).Info().Str("property_id", property.ID.Hex()).Msg("Property created")
		utils.WriteJSON(w, http.StatusCreated, property)
	}
}

func UpdateProperty(props PropertyStore, lc ListCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		var in models.PropertyUpdate
		if err := decodeAndValidate(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		property, err := props.Update(r.Context(), mux.Vars(r)["id"], user.ID, in)
		if err != nil {
			utils.WriteError(w, r, mapStoreError(err, propertyUpdateMsgs))
			return
		}
		lc.Invalidate(r.Context(), propertyCachePrefix)

		utils.WriteJSON(w, http.StatusOK, property)
	}
}

func DeleteProperty(props PropertyStore, lc ListCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		id := mux.Vars(r)["id"]
		if err := props.Delete(r.Context(), id, user.ID); err != nil {
			utils.WriteError(w, r, mapStoreError(err, propertyDeleteMsgs))
			return
		}
		lc.Invalidate(r.Context(), propertyCachePrefix)

		log.Ctx(r.Context()).Info().Str("property_id", id).Msg("Property deleted")
		utils.WriteMessage(w, http.StatusOK, "Property removed")
	}
}

func CreatePropertyReview(props PropertyStore, lc ListCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		var in models.ReviewInput
		if err := decodeAndValidate(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		review := models.NewReview(user, in, time.Now().UTC())
		if err := props.AddReview(r.Context(), mux.Vars(r)["id"], review); err != nil {
			utils.WriteError(w, r, mapStoreError(err, propertyReadMsgs))
			return
		}
		lc.Invalidate(r.Context(), propertyCachePrefix)

		utils.WriteMessage(w, http.StatusCreated, "Review added")
	}
}
