package api

import (
	"net/http"
	"strings"

	"salon-system/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// authenticate accepts an HMAC-signed bearer token whose subject is the
// account id and stores that id in the request context.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.jwtSecret == "" {
			a.Response(w, http.StatusUnauthorized, "auth disabled")
			return
		}
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			a.Response(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			a.Response(w, http.StatusUnauthorized, "invalid token")
			return
		}

		id, err := uuid.Parse(claims.Subject)
		if err != nil || id == uuid.Nil {
			a.Response(w, http.StatusUnauthorized, "invalid token subject")
			return
		}
		next.ServeHTTP(w, r.WithContext(user.WithID(r.Context(), id)))
	})
}

func sessionUser(r *http.Request) (uuid.UUID, bool) {
	return user.IDFromContext(r.Context())
}

// pathID parses the {id} route variable.
func (a *API) pathID(w http.ResponseWriter, r *http.Request, entity string) (uuid.UUID, bool) {
	id := mux.Vars(r)["id"]
	if id == "" {
		a.Response(w, http.StatusBadRequest, entity+" ID is required")
		return uuid.Nil, false
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return parsedID, true
}
