package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solotrip/solotrip-go/internal/crypto"
	"github.com/solotrip/solotrip-go/internal/model"
	"github.com/solotrip/solotrip-go/internal/repository/memory"
	"github.com/solotrip/solotrip-go/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

var today = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type testServer struct {
	router http.Handler
	tokens *crypto.TokenService
}

func newTestServer(t *testing.T, basePath string) *testServer {
	t.Helper()

	tokens, err := crypto.NewTokenService(crypto.TokenConfig{
		Secret:   testSecret,
		TTL:      time.Hour,
		Issuer:   "solotrip",
		Audience: "solotrip-api",
	})
	require.NoError(t, err)

	users := memory.NewUserRepository()
	authSvc := service.NewAuthService(users, tokens)
	_, err = authSvc.Register(context.Background(), "testuser", "test@example.com", "password123")
	require.NoError(t, err)

	tripSvc := service.NewTripService(memory.NewTripRepository(), users)
	v := NewValidator(func() time.Time { return today })

	router := NewRouter(
		RouterConfig{BasePath: basePath, CORSOrigins: []string{"http://localhost:4200"}},
		NewAuthHandler(authSvc, v),
		NewTripHandler(tripSvc, v),
		tokens,
	)
	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "testuser", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func tripBody(destination string) map[string]any {
	return map[string]any{
		"destination":  destination,
		"budget":       1500,
		"travelStyle":  "STANDARD",
		"requiresVisa": false,
		"groupSize":    "Solo",
		"startDate":    today.AddDate(0, 0, 30).Format(model.DateLayout),
	}
}

func decodeTrip(t *testing.T, rec *httptest.ResponseRecorder) model.TripResponse {
	t.Helper()
	var trip model.TripResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trip), rec.Body.String())
	return trip
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "testuser", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bearer", resp.Type)
	assert.Equal(t, "testuser", resp.Username)

	subject, ok := s.tokens.Verify(resp.Token)
	assert.True(t, ok)
	assert.Equal(t, "testuser", subject)
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t, "")

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"wrong password", map[string]string{"username": "testuser", "password": "wrong"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"username": "ghost", "password": "password123"}, http.StatusUnauthorized},
		{"blank username", map[string]string{"username": "  ", "password": "password123"}, http.StatusBadRequest},
		{"missing password", map[string]string{"username": "testuser"}, http.StatusBadRequest},
		{"malformed json", "{not json", http.StatusBadRequest},
		{"trailing garbage", `{"username":"testuser","password":"password123"}garbage`, http.StatusBadRequest},
		{"second object", `{"username":"testuser","password":"password123"} {}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/auth/login", tt.body, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "token")
		})
	}
}

func TestMe(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/auth/me", nil, s.login(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var me model.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "testuser", me.Username)
	assert.Equal(t, "test@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/auth/me", nil, "").Code)
}

func TestCreateTripRequiresToken(t *testing.T) {
	s := newTestServer(t, "")

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, json.NewEncoder(&buf).Encode(tripBody("Barcelona")))
			req := httptest.NewRequest(http.MethodPost, "/trips", &buf)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	list := s.do(t, http.MethodGet, "/trips", nil, "")
	assert.JSONEq(t, "[]", list.Body.String())
}

func TestCreateTripExpiredToken(t *testing.T) {
	s := newTestServer(t, "")

	expired, err := crypto.NewTokenService(crypto.TokenConfig{
		Secret:   testSecret,
		TTL:      time.Nanosecond,
		Issuer:   "solotrip",
		Audience: "solotrip-api",
	})
	require.NoError(t, err)
	token, err := expired.Issue("testuser")
	require.NoError(t, err)
	time.Sleep(time.Second)

	rec := s.do(t, http.MethodPost, "/trips", tripBody("Barcelona"), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateTripUnknownOwner(t *testing.T) {
	s := newTestServer(t, "")

	token, err := s.tokens.Issue("ghost")
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/trips", tripBody("Barcelona"), token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	list := s.do(t, http.MethodGet, "/trips", nil, "")
	assert.JSONEq(t, "[]", list.Body.String())
}

func TestCreateTripDefaultsRequiresVisa(t *testing.T) {
	s := newTestServer(t, "")

	body := tripBody("Lisbon")
	delete(body, "requiresVisa")
	rec := s.do(t, http.MethodPost, "/trips", body, s.login(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	trip := decodeTrip(t, rec)
	assert.False(t, trip.RequiresVisa)
	assert.Equal(t, today.AddDate(0, 0, 30).Format(model.DateLayout), trip.StartDate.String())
}

func TestTripValidation(t *testing.T) {
	s := newTestServer(t, "")
	token := s.login(t)

	tests := []struct {
		name  string
		mut   func(map[string]any)
		field string
	}{
		{"short destination", func(b map[string]any) { b["destination"] = "ab" }, "destination"},
		{"blank destination", func(b map[string]any) { b["destination"] = "    " }, "destination"},
		{"missing destination", func(b map[string]any) { delete(b, "destination") }, "destination"},
		{"zero budget", func(b map[string]any) { b["budget"] = 0 }, "budget"},
		{"negative budget", func(b map[string]any) { b["budget"] = -10 }, "budget"},
		{"missing budget", func(b map[string]any) { delete(b, "budget") }, "budget"},
		{"unknown travel style", func(b map[string]any) { b["travelStyle"] = "CRUISE" }, "travelStyle"},
		{"missing travel style", func(b map[string]any) { delete(b, "travelStyle") }, "travelStyle"},
		{"blank group size", func(b map[string]any) { b["groupSize"] = "" }, "groupSize"},
		{"missing start date", func(b map[string]any) { delete(b, "startDate") }, "startDate"},
		{"start date today", func(b map[string]any) { b["startDate"] = today.Format(model.DateLayout) }, "startDate"},
		{"start date past", func(b map[string]any) { b["startDate"] = "2020-01-01" }, "startDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tripBody("Barcelona")
			tt.mut(body)

			rec := s.do(t, http.MethodPost, "/trips", body, token)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, decodeError(t, rec).Fields, tt.field)
		})
	}

	bad := s.do(t, http.MethodPost, "/trips", `{"startDate": "01/02/2027"}`, token)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	list := s.do(t, http.MethodGet, "/trips", nil, "")
	assert.JSONEq(t, "[]", list.Body.String())
}

func TestTripLifecycle(t *testing.T) {
	s := newTestServer(t, "")
	token := s.login(t)

	rec := s.do(t, http.MethodPost, "/trips", tripBody("Barcelona"), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeTrip(t, rec)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Barcelona", created.Destination)
	assert.Equal(t, 1500.0, created.Budget)
	assert.Equal(t, "STANDARD", created.TravelStyle)
	assert.Equal(t, "Solo", created.GroupSize)

	path := "/trips/" + strconv.FormatInt(created.ID, 10)

	rec = s.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeTrip(t, rec))

	rec = s.do(t, http.MethodPut, path, tripBody("Madrid"), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeTrip(t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Madrid", updated.Destination)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	rec = s.do(t, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTripNotFoundAndBadID(t *testing.T) {
	s := newTestServer(t, "")

	tests := []struct {
		method string
		path   string
		body   any
		status int
	}{
		{http.MethodGet, "/trips/999", nil, http.StatusNotFound},
		{http.MethodPut, "/trips/999", tripBody("Madrid"), http.StatusNotFound},
		{http.MethodDelete, "/trips/999", nil, http.StatusNotFound},
		{http.MethodGet, "/trips/abc", nil, http.StatusBadRequest},
		{http.MethodPut, "/trips/abc", tripBody("Madrid"), http.StatusBadRequest},
		{http.MethodDelete, "/trips/-1", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, "")
	token := s.login(t)

	for _, dest := range []string{"Barcelona", "Madrid"} {
		rec := s.do(t, http.MethodPost, "/trips", tripBody(dest), token)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/trips/search?destination=barcelona", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var found []model.TripResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Barcelona", found[0].Destination)

	rec = s.do(t, http.MethodGet, "/trips/search?destination=paris", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/trips/search", nil, "").Code)
}

func TestSearchEmptyDestination(t *testing.T) {
	s := newTestServer(t, "")
	token := s.login(t)

	for _, dest := range []string{"Barcelona", "New York"} {
		rec := s.do(t, http.MethodPost, "/trips", tripBody(dest), token)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty matches all", "/trips/search?destination=", []string{"Barcelona", "New York"}},
		{"blank matches spaces", "/trips/search?destination=%20", []string{"New York"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.query, nil, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var found []model.TripResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
			got := make([]string, 0, len(found))
			for _, trip := range found {
				got = append(got, trip.Destination)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBasePath(t *testing.T) {
	s := newTestServer(t, "/api")

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/trips", nil, "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/health", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/trips", nil, "").Code)

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "testuser", "password": "password123"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/trips", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
