package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vaheed/filecrypt/internal/crypto"
	"github.com/vaheed/filecrypt/internal/lib/httperr"
	"github.com/vaheed/filecrypt/internal/metrics"
	"github.com/vaheed/filecrypt/internal/password"
	"github.com/vaheed/filecrypt/internal/ratelimit"
	"github.com/vaheed/filecrypt/web"
)

const (
	modeSymmetric  = "symmetric"
	modeAsymmetric = "asymmetric"

	// multipartMemory is the in-memory threshold for multipart parsing;
	// larger files spill to disk transparently.
	multipartMemory = 32 << 20
)

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	page, err := web.FS.ReadFile("index.html")
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, "index page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}

// (POST /api/encrypt)
func (s *Server) encrypt(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, s.fileOps) {
		return
	}
	data, filename, ok := readUpload(w, r)
	if !ok {
		return
	}

	mode := r.FormValue("encryption_type")
	if mode == "" {
		mode = modeSymmetric
	}

	var blob []byte
	start := time.Now()
	switch mode {
	case modeSymmetric:
		pw := r.FormValue("password")
		if pw == "" {
			httperr.Write(w, http.StatusBadRequest, "Password required for symmetric encryption")
			return
		}
		if ok, msg := password.Validate(pw); !ok {
			httperr.Write(w, http.StatusBadRequest, msg)
			return
		}
		var err error
		blob, err = crypto.EncryptSymmetric(data, pw)
		if err != nil {
			httperr.Write(w, http.StatusInternalServerError, fmt.Sprintf("Encryption failed: %v", err))
			return
		}
	case modeAsymmetric:
		pubKey := r.FormValue("public_key")
		if pubKey == "" {
			httperr.Write(w, http.StatusBadRequest, "Public key required for asymmetric encryption")
			return
		}
		var err error
		blob, err = crypto.EncryptAsymmetric(data, []byte(pubKey))
		if err != nil {
			httperr.Write(w, http.StatusInternalServerError, fmt.Sprintf("Encryption failed: %v", err))
			return
		}
	default:
		httperr.Write(w, http.StatusBadRequest, "Invalid encryption type")
		return
	}
	metrics.CryptoSeconds.Observe(time.Since(start).Seconds())
	metrics.EncryptTotal.WithLabelValues(mode).Inc()

	sendAttachment(w, blob, sanitizeFilename(filename)+".enc")
}

// (POST /api/decrypt)
func (s *Server) decrypt(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, s.fileOps) {
		return
	}
	data, filename, ok := readUpload(w, r)
	if !ok {
		return
	}

	mode := r.FormValue("decryption_type")
	if mode == "" {
		mode = modeSymmetric
	}
	if mode != modeSymmetric {
		httperr.Write(w, http.StatusBadRequest, "Only symmetric decryption is supported")
		return
	}
	pw := r.FormValue("password")
	if pw == "" {
		httperr.Write(w, http.StatusBadRequest, "Password required for symmetric decryption")
		return
	}

	start := time.Now()
	plaintext, err := crypto.DecryptSymmetric(data, pw)
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, fmt.Sprintf("Decryption failed: %s", decryptMessage(err)))
		return
	}
	metrics.CryptoSeconds.Observe(time.Since(start).Seconds())
	metrics.DecryptTotal.Inc()

	original := strings.TrimSuffix(filename, ".enc")
	sendAttachment(w, plaintext, "decrypted_"+sanitizeFilename(original))
}

// (POST /api/generate-keys)
func (s *Server) generateKeys(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, s.keygen) {
		return
	}
	privPEM, pubPEM, err := crypto.GenerateKeyPair()
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, fmt.Sprintf("Key generation failed: %v", err))
		return
	}
	metrics.KeygenTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]string{
		"key_id":      uuid.NewString(),
		"private_key": string(privPEM),
		"public_key":  string(pubPEM),
	})
}

// (POST /api/validate-password)
func (s *Server) validatePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		httperr.Write(w, http.StatusBadRequest, "invalid payload")
		return
	}
	ok, msg := password.Validate(body.Password)
	writeJSON(w, http.StatusOK, map[string]any{
		"is_strong": ok,
		"message":   msg,
	})
}

// allow applies a rate-limit rule for the requesting client, writing the 429
// (or a 500 when the store is down) itself.
func (s *Server) allow(w http.ResponseWriter, r *http.Request, rule ratelimit.Rule) bool {
	err := ratelimit.Limit(r.Context(), s.limiter, clientKey(r), rule)
	if err == nil {
		return true
	}
	if errors.Is(err, ratelimit.ErrLimited) {
		metrics.RateLimitedTotal.Inc()
		httperr.Write(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return false
	}
	httperr.Write(w, http.StatusInternalServerError, "rate limiter unavailable")
	return false
}

// readUpload pulls the multipart "file" field fully into memory, writing the
// validation error itself when the upload is missing, empty, or oversized.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httperr.Write(w, http.StatusRequestEntityTooLarge, "File exceeds the 100MB limit")
			return nil, "", false
		}
		httperr.Write(w, http.StatusBadRequest, "No file provided")
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, "No file provided")
		return nil, "", false
	}
	defer file.Close()
	if header.Filename == "" {
		httperr.Write(w, http.StatusBadRequest, "No file selected")
		return nil, "", false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, "Could not read file")
		return nil, "", false
	}
	if len(data) == 0 {
		httperr.Write(w, http.StatusBadRequest, "Empty file")
		return nil, "", false
	}
	return data, header.Filename, true
}

// sendAttachment streams an in-memory blob as a download. No temp files are
// involved at any point.
func sendAttachment(w http.ResponseWriter, blob []byte, filename string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(blob)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// sanitizeFilename strips any path components from a client-supplied name.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}

func decryptMessage(err error) string {
	switch {
	case errors.Is(err, crypto.ErrIntegrity):
		return "File integrity check failed - file may be corrupted"
	case errors.Is(err, crypto.ErrMalformed):
		return "Encrypted file is malformed"
	default:
		return "wrong password or corrupted file"
	}
}

// Helpers shared by the JSON endpoints.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
