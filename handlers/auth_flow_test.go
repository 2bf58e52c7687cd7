package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/audit"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/identity"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/ratelimit"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/rooms"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/verifier"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/middleware"
)

const testSecret = "handler-test-secret-0123456789abcdef"

// fakeUserRepo is an in-memory identity.UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*identity.User{}}
}

func (f *fakeUserRepo) GetBySub(ctx context.Context, sub string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[sub]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u *identity.User) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.LastActiveAt = now
	f.users[u.Sub] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) TouchLastActive(ctx context.Context, sub string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[sub]; ok {
		u.LastActiveAt = at
	}
	return nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, sub string, role identity.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[sub]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Role = string(role)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, limit int64) ([]identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []identity.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

// fakeRoomRepo is an in-memory rooms.Repository.
type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*rooms.Room
	next  int
}

func newFakeRoomRepo() *fakeRoomRepo { return &fakeRoomRepo{rooms: map[string]*rooms.Room{}} }

func (f *fakeRoomRepo) Insert(ctx context.Context, r *rooms.Room) (*rooms.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	r.ID = fmt.Sprintf("room-%d", f.next)
	f.rooms[r.ID] = r
	return r, nil
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id string) (*rooms.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoomRepo) List(ctx context.Context, limit int64) ([]rooms.Room, error) {
	return nil, nil
}

func (f *fakeRoomRepo) AddMember(ctx context.Context, id, sub string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rooms[id]; ok {
		r.Members = append(r.Members, sub)
	}
	return nil
}

func buildApp(t *testing.T, repo *fakeUserRepo) *gin.Engine {
	t.Helper()
	deps := middleware.Deps{
		Verifier: verifier.NewHMACVerifier(testSecret),
		Enricher: identity.NewEnricher(repo),
		Auditor:  audit.Nop{},
	}
	lim := ratelimit.New(map[ratelimit.Class]ratelimit.Rule{
		ratelimit.ClassAuth: {Window: 15 * time.Minute, Quota: 5},
	})

	g := gin.New()
	api := g.Group("/api/v1")
	NewAuthHandler().Register(api, deps, lim)
	NewMeHandler(identity.NewEnricher(repo)).Register(api, deps, lim)
	NewRoomsHandler(rooms.NewService(newFakeRoomRepo())).Register(api, deps, lim)
	NewAdminHandler(identity.NewEnricher(repo)).Register(api, deps, lim)
	return g
}

func mintToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"iat": time.Now().Add(-60 * time.Second).Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func doJSON(g *gin.Engine, method, path, token, ip, body string) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestVerify_FirstSightCreatesDefaultRecord(t *testing.T) {
	repo := newFakeUserRepo()
	g := buildApp(t, repo)

	rw := doJSON(g, http.MethodPost, "/api/v1/auth/verify", mintToken(t, "u1"), "1.2.3.4", "")
	require.Equal(t, http.StatusOK, rw.Code)
	require.Contains(t, rw.Body.String(), `"sub":"u1"`)
	require.Contains(t, rw.Body.String(), `"role":"member"`)

	u, err := repo.GetBySub(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, u, "durable record must exist after first sighting")
	require.Equal(t, "member", u.Role)
}

func TestRooms_AdminPassesTeacherRequirement(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &identity.User{Sub: "u1", Role: "admin"}
	g := buildApp(t, repo)

	rw := doJSON(g, http.MethodPost, "/api/v1/rooms", mintToken(t, "u1"), "1.2.3.4",
		`{"name":"Deep Work","topic":"silence","capacity":4}`)
	require.Equal(t, http.StatusCreated, rw.Code)
}

func TestRooms_MemberCannotCreate(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &identity.User{Sub: "u1", Role: "member"}
	g := buildApp(t, repo)

	rw := doJSON(g, http.MethodPost, "/api/v1/rooms", mintToken(t, "u1"), "1.2.3.4",
		`{"name":"Deep Work"}`)
	require.Equal(t, http.StatusForbidden, rw.Code)
	require.Contains(t, rw.Body.String(), middleware.ReasonPermissionDenied)
}

func TestAuthClass_SixthCallFromSameOriginRejected(t *testing.T) {
	repo := newFakeUserRepo()
	g := buildApp(t, repo)
	token := mintToken(t, "u1")

	for i := 0; i < 5; i++ {
		rw := doJSON(g, http.MethodPost, "/api/v1/auth/verify", token, "1.2.3.4", "")
		require.Equal(t, http.StatusOK, rw.Code, "call %d", i+1)
	}

	rw := doJSON(g, http.MethodPost, "/api/v1/auth/verify", token, "1.2.3.4", "")
	require.Equal(t, http.StatusTooManyRequests, rw.Code)

	var body struct {
		Reason  string `json:"reason"`
		ResetAt string `json:"resetAt"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &body))
	require.Equal(t, middleware.ReasonResourceExhausted, body.Reason)
	resetAt, err := time.Parse(time.RFC3339, body.ResetAt)
	require.NoError(t, err)
	require.True(t, resetAt.After(time.Now()))
	require.True(t, resetAt.Before(time.Now().Add(15*time.Minute+time.Second)))
}

func TestAdmin_SetRole(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["a1"] = &identity.User{Sub: "a1", Role: "admin"}
	repo.users["u1"] = &identity.User{Sub: "u1", Role: "member"}
	g := buildApp(t, repo)

	rw := doJSON(g, http.MethodPut, "/api/v1/admin/users/u1/role", mintToken(t, "a1"), "1.2.3.4",
		`{"role":"teacher"}`)
	require.Equal(t, http.StatusOK, rw.Code)

	u, err := repo.GetBySub(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "teacher", u.Role)

	// unknown role names are rejected before touching the store
	rw = doJSON(g, http.MethodPut, "/api/v1/admin/users/u1/role", mintToken(t, "a1"), "1.2.3.4",
		`{"role":"superuser"}`)
	require.Equal(t, http.StatusBadRequest, rw.Code)

	// non-admins cannot reach the surface
	rw = doJSON(g, http.MethodPut, "/api/v1/admin/users/u1/role", mintToken(t, "u1"), "1.2.3.4",
		`{"role":"admin"}`)
	require.Equal(t, http.StatusForbidden, rw.Code)
}
