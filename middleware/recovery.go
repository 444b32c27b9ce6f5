package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

// Recovery turns a panic into a 500 {message}. In development the stack
// trace is included in the body.
func Recovery(development bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := string(debug.Stack())
				log.Ctx(r.Context()).Error().
					Interface("panic", rec).
					Str("stack", stack).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("panic recovered")

				body := utils.MessageResponse{Message: fmt.Sprint(rec)}
				if development {
					body.Stack = stack
				}
				utils.WriteJSON(w, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFound answers requests that matched no route.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteMessage(w, http.StatusNotFound, "Not Found - "+r.URL.Path)
	})
}
