package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vaheed/filecrypt/internal/ratelimit"
)

func TestAuthDisabled(t *testing.T) {
	h := newTestServer().Router()

	// crypto endpoints are open
	w := postMultipart(t, h, "/api/encrypt", "x.txt", []byte("abc"), map[string]string{
		"password": "Valid123Pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("encrypt without token: %d", w.Code)
	}

	// token issuance is off
	req := httptest.NewRequest(http.MethodPost, "/api/tokens", strings.NewReader(`{"subject":"ci"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("tokens with auth off: %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := NewServer(ratelimit.NewMemory())
	s.requireAuth = true
	s.signingKey = []byte("test-signing-key")
	h := s.Router()

	w := postMultipart(t, h, "/api/encrypt", "x.txt", []byte("abc"), map[string]string{
		"password": "Valid123Pass",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/tokens", strings.NewReader(`{"subject":"ci","ttlMinutes":5}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("issue token: %d %s", rec.Code, rec.Body.String())
	}
	var issued struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &issued); err != nil || issued.Token == "" {
		t.Fatalf("token payload: %v %s", err, rec.Body.String())
	}

	body, contentType := multipartBody(t, "x.txt", []byte("abc"), map[string]string{
		"password": "Valid123Pass",
	})
	authed := httptest.NewRequest(http.MethodPost, "/api/encrypt", body)
	authed.Header.Set("Content-Type", contentType)
	authed.Header.Set("Authorization", "Bearer "+issued.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authed)
	if rec.Code != http.StatusOK {
		t.Fatalf("with token: %d %s", rec.Code, rec.Body.String())
	}

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generate-keys", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
