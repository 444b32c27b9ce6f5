package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dcode-github/hostel_pg_finder/backend/controllers"
	"github.com/dcode-github/hostel_pg_finder/backend/middleware"
	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Properties controllers.PropertyStore
	Roommates  controllers.RoommateStore
	Users      controllers.UserStore
	Cache      controllers.ListCache
	Images     utils.ImageStore
	Session    controllers.Session
	DB         Pinger
}

func Routes(router *mux.Router, d Deps) {
	router.Use(middleware.Metrics)
	router.NotFoundHandler = middleware.NotFound()
	router.MethodNotAllowedHandler = middleware.NotFound()

	router.HandleFunc("/healthz", health(d.DB)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	protect := middleware.Protect(d.Session.Key, d.Users)
	owner := func(h http.HandlerFunc) http.Handler { return protect(middleware.IsOwner(h)) }

	api := router.PathPrefix("/api").Subrouter()

	// Users
	api.HandleFunc("/users", controllers.RegisterUser(d.Users, d.Session)).Methods("POST")
	api.HandleFunc("/users/auth", controllers.LoginUser(d.Users, d.Session)).Methods("POST")
	api.HandleFunc("/users/logout", controllers.LogoutUser(d.Session)).Methods("POST")
	api.Handle("/users/profile", protect(controllers.GetUserProfile())).Methods("GET")
	api.Handle("/users/profile", protect(controllers.UpdateUserProfile(d.Users))).Methods("PUT")

	// Properties
	api.HandleFunc("/properties", controllers.GetProperties(d.Properties, d.Cache)).Methods("GET")
	api.Handle("/properties", owner(controllers.CreateProperty(d.Properties, d.Cache))).Methods("POST")
	api.HandleFunc("/properties/{id}", controllers.GetPropertyByID(d.Properties, d.Users)).Methods("GET")
	api.Handle("/properties/{id}", owner(controllers.UpdateProperty(d.Properties, d.Cache))).Methods("PUT")
	api.Handle("/properties/{id}", owner(controllers.DeleteProperty(d.Properties, d.Cache))).Methods("DELETE")
	api.Handle("/properties/{id}/reviews", protect(controllers.CreatePropertyReview(d.Properties, d.Cache))).Methods("POST")

	// Roommates
	api.HandleFunc("/roommates", controllers.GetRoommates(d.Roommates, d.Cache)).Methods("GET")
	api.Handle("/roommates", protect(controllers.CreateRoommate(d.Roommates, d.Cache))).Methods("POST")
	api.HandleFunc("/roommates/{id}", controllers.GetRoommateByID(d.Roommates, d.Users)).Methods("GET")
	api.Handle("/roommates/{id}", protect(controllers.UpdateRoommate(d.Roommates, d.Cache))).Methods("PUT")
	api.Handle("/roommates/{id}", protect(controllers.DeleteRoommate(d.Roommates, d.Cache))).Methods("DELETE")

	// Uploads
	api.Handle("/upload", protect(controllers.UploadImage(d.Images))).Methods("POST")
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			utils.WriteMessage(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		utils.WriteMessage(w, http.StatusOK, "ok")
	}
}
