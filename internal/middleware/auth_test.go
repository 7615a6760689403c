package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier map[string]string

func (f fakeVerifier) Verify(token string) (string, bool) {
	name, ok := f[token]
	return name, ok
}

func TestJWTAuth(t *testing.T) {
	verifier := fakeVerifier{"good-token": "testuser"}

	var gotUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	h := JWTAuth(verifier)(next)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantUser string
	}{
		{"valid token", "Bearer good-token", http.StatusTeapot, "testuser"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Token good-token", http.StatusUnauthorized, ""},
		{"lowercase scheme", "bearer good-token", http.StatusUnauthorized, ""},
		{"blank token", "Bearer    ", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer bad-token", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
			if tt.wantCode == http.StatusUnauthorized {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestUsernameFromContext(t *testing.T) {
	_, ok := UsernameFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UsernameFromContext(WithUsername(context.Background(), ""))
	assert.False(t, ok)

	name, ok := UsernameFromContext(WithUsername(context.Background(), "alice"))
	assert.True(t, ok)
	assert.Equal(t, "alice", name)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trips/9", nil))

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"path":"/trips/9"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"bytes":4`)
	assert.Contains(t, out, `"request_id"`)
}
