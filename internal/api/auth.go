package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vaheed/filecrypt/internal/lib/httperr"
)

const defaultTokenTTL = 60 * time.Minute

// authMiddleware verifies a bearer token when FILECRYPT_REQUIRE_AUTH is set.
// Auth is off by default; the crypto endpoints are open in that case.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAuth {
			next.ServeHTTP(w, r)
			return
		}
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			httperr.Write(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
			}
			return s.signingKey, nil
		})
		if err != nil || !token.Valid {
			httperr.Write(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// (POST /api/tokens)
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	if !s.requireAuth {
		httperr.Write(w, http.StatusNotFound, "token issuance disabled")
		return
	}
	var req struct {
		Subject    string `json:"subject"`
		TTLMinutes int    `json:"ttlMinutes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Subject == "" {
		httperr.Write(w, http.StatusBadRequest, "subject is required")
		return
	}
	ttl := defaultTokenTTL
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
	}
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"sub":    req.Subject,
		"exp":    exp.Unix(),
		"issued": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signingKey)
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, "could not sign token")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":     signed,
		"expiresAt": exp,
	})
}
