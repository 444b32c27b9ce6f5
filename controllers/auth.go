package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/hostel_pg_finder/backend/apperrors"
	"github.com/dcode-github/hostel_pg_finder/backend/middleware"
	"github.com/dcode-github/hostel_pg_finder/backend/models"
	"github.com/dcode-github/hostel_pg_finder/backend/repository"
	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

// Session issues and clears the jwt cookie.
type Session struct {
	Key    []byte
	Secure bool
}

func (s Session) set(w http.ResponseWriter, userID primitive.ObjectID) error {
	token, err := utils.GenerateJWT(s.Key, userID.Hex())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(utils.TokenTTL.Seconds()),
	})
	return nil
}

func (s Session) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

var userMsgs = storeMessages{notFound: "User not found"}

func RegisterUser(users UserStore, session Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.RegisterInput
		if err := decodeAndValidate(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		hashedPwd, err := utils.HashPassword(in.Password)
		if err != nil {
			utils.WriteError(w, r, apperrors.Internal(err))
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:        primitive.NewObjectID(),
			Name:      in.Name,
			Email:     repository.NormalizeEmail(in.Email),
			Phone:     in.Phone,
			Password:  hashedPwd,
			IsOwner:   in.IsOwner,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := users.Create(r.Context(), user); err != nil {
			utils.WriteError(w, r, mapStoreError(err, userMsgs))
			return
		}

		if err := session.set(w, user.ID); err != nil {
			utils.WriteError(w, r, apperrors.Internal(err))
			return
		}

		log.Ctx(r.Context()).Info().Str("user_id", user.ID.Hex()).Bool("owner", user.IsOwner).Msg("User registered")
		utils.WriteJSON(w, http.StatusCreated, user)
	}
}

func LoginUser(users UserStore, session Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.LoginInput
		if err := decodeAndValidate(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		user, err := users.GetByEmail(r.Context(), in.Email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, r, apperrors.Internal(err))
			return
		}
		if err != nil || !utils.CheckPasswordHash(in.Password, user.Password) {
			utils.WriteError(w, r, apperrors.Unauthorized("Invalid email or password"))
			return
		}

		if err := session.set(w, user.ID); err != nil {
			utils.WriteError(w, r, apperrors.Internal(err))
			return
		}

		utils.WriteJSON(w, http.StatusOK, user)
	}
}

func LogoutUser(session Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session.clear(w)
		utils.WriteMessage(w, http.StatusOK, "Logged out successfully")
	}
}

func GetUserProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, user)
	}
}

func UpdateUserProfile(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		var in models.ProfileUpdate
		if err := decodeAndValidate(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}

		var hash string
		if in.Password != nil {
			if hash, err = utils.HashPassword(*in.Password); err != nil {
				utils.WriteError(w, r, apperrors.Internal(err))
				return
			}
		}

		updated, err := users.Update(r.Context(), user.ID, in, hash)
		if err != nil {
			utils.WriteError(w, r, mapStoreError(err, userMsgs))
			return
		}

		utils.WriteJSON(w, http.StatusOK, updated)
	}
}
