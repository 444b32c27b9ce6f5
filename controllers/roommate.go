package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/dcode-github/hostel_pg_finder/backend/apperrors"
	"github.com/dcode-github/hostel_pg_finder/backend/cache"
	"github.com/dcode-github/hostel_pg_finder/backend/models"
	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

type RoommateListResponse struct {
	Roommates []models.Roommate `json:"roommates"`
	Page      int               `json:"page"`
	Pages     int               `json:"pages"`
	Total     int64             `json:"total"`
}

var (
	roommateReadMsgs   = storeMessages{notFound: "Roommate listing not found"}
	roommateUpdateMsgs = storeMessages{notFound: "Roommate listing not found", forbidden: "You can only update your own listings"}
	roommateDeleteMsgs = storeMessages{notFound: "Roommate listing not found", forbidden: "You can only delete your own listings"}
)

func GetRoommates(roommates RoommateStore, lc ListCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		writeCachedList(w, r, lc, cache.Key(roommateCachePrefix, query), func() (any, error) {
			page := pageNumber(query)
			result, err := roommates.List(r.Context(), roommateFilter(query), page)
			if err != nil {
				return nil, mapStoreError(err, roommateReadMsgs)
			}
			return RoommateListResponse{
				Roommates: result.Items,
				Page:      page,
				Pages:     result.Pages(),
				Total:     result.Total,
			}, nil
		})
	}
}

func GetRoommateByID(roommates RoommateStore, users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, err := roommates.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.WriteError(w, r, mapStoreError(err, roommateReadMsgs))
			return
		}

		ref, err := resolveUser(r.Context(), users, rm.User)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, models.RoommateDetail{Roommate: rm, User: ref})
	}
}

func CreateRoommate(roommates RoommateStore, lc ListCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		var in models.RoommateInput
		if err := decodeBody(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		in = in.WithCallerDefaults(user)
		if err := utils.Validate(in); err != nil {
			utils.WriteError(w, r, apperrors.Validation(err.Error()))
			return
		}

		rm := models.NewRoommate(user.ID, in, time.Now().UTC())
		if err := roommates.Create(r.Context(), rm); err != nil {
			utils.WriteError(w, r, mapStoreError(err, roommateReadMsgs))
			return
		}
		lc.Invalidate(r.Context(), roommateCachePrefix)

		log.Ctx(r.Context()).Info().Str("roommate_id", rm.ID.Hex()).Msg("Roommate listing created")
		utils.WriteJSON(w, http.StatusCreated, rm)
	}
}

func UpdateRoommate(roommates RoommateStore, lc ListCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		var in models.RoommateUpdate
		if err := decodeAndValidate(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		rm, err := roommates.Update(r.Context(), mux.Vars(r)["id"], user.ID, in)
		if err != nil {
			utils.WriteError(w, r, mapStoreError(err, roommateUpdateMsgs))
			return
		}
		lc.Invalidate(r.Context(), roommateCachePrefix)

		utils.WriteJSON(w, http.StatusOK, rm)
	}
}

func DeleteRoommate(roommates RoommateStore, lc ListCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		id := mux.Vars(r)["id"]
		if err := roommates.Delete(r.Context(), id, user.ID); err != nil {
			utils.WriteError(w, r, mapStoreError(err, roommateDeleteMsgs))
			return
		}
		lc.Invalidate(r.Context(), roommateCachePrefix)

		log.Ctx(r.Context()).Info().Str("roommate_id", id).Msg("Roommate listing deleted")
		utils.WriteMessage(w, http.StatusOK, "Roommate listing removed")
	}
}
