package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/hostel_pg_finder/backend/middleware"
	"github.com/dcode-github/hostel_pg_finder/backend/models"
	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

type mockProperties struct{ mock.Mock }

func (m *mockProperties) List(ctx context.Context, f models.PropertyFilter, page int) (models.Page[models.Property], error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).(models.Page[models.Property]), args.Error(1)
}

func (m *mockProperties) GetByID(ctx context.Context, id string) (models.Property, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Property), args.Error(1)
}

func (m *mockProperties) Create(ctx context.Context, p models.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProperties) Update(ctx context.Context, id string, owner primitive.ObjectID, u models.PropertyUpdate) (models.Property, error) {
	args := m.Called(ctx, id, owner, u)
	return args.Get(0).(models.Property), args.Error(1)
}

func (m *mockProperties) Delete(ctx context.Context, id string, owner primitive.ObjectID) error {
	return m.Called(ctx, id, owner).Error(0)
}

func (m *mockProperties) AddReview(ctx context.Context, id string, review models.Review) error {
	return m.Called(ctx, id, review).Error(0)
}

type mockRoommates struct{ mock.Mock }

func (m *mockRoommates) List(ctx context.Context, f models.RoommateFilter, page int) (models.Page[models.Roommate], error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).(models.Page[models.Roommate]), args.Error(1)
}

func (m *mockRoommates) GetByID(ctx context.Context, id string) (models.Roommate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Roommate), args.Error(1)
}

func (m *mockRoommates) Create(ctx context.Context, rm models.Roommate) error {
	return m.Called(ctx, rm).Error(0)
}

func (m *mockRoommates) Update(ctx context.Context, id string, user primitive.ObjectID, u models.RoommateUpdate) (models.Roommate, error) {
	args := m.Called(ctx, id, user, u)
	return args.Get(0).(models.Roommate), args.Error(1)
}

func (m *mockRoommates) Delete(ctx context.Context, id string, user primitive.ObjectID) error {
	return m.Called(ctx, id, user).Error(0)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUsers) Create(ctx context.Context, u models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) Update(ctx context.Context, id primitive.ObjectID, u models.ProfileUpdate, passwordHash string) (models.User, error) {
	args := m.Called(ctx, id, u, passwordHash)
	return args.Get(0).(models.User), args.Error(1)
}

// memCache is an in-memory ListCache that records invalidated prefixes.
type memCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok
}

func (c *memCache) Set(_ context.Context, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
}

func (c *memCache) Invalidate(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, prefix)
	for k := range c.entries {
		if len(k) > len(prefix) && k[:len(prefix)+1] == prefix+":" {
			delete(c.entries, k)
		}
	}
}

// do routes a single request through a mux router registered with pattern
// so path variables resolve. A non-nil user is attached as the caller.
func do(t *testing.T, h http.Handler, method, pattern, target string, body any, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	router := mux.NewRouter()
	router.Handle(pattern, h).Methods(method)

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), *user))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func ptr[T any](v T) *T {
	return &v
}

func owner() models.User {
	return models.User{ID: primitive.NewObjectID(), Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210", IsOwner: true}
}

func seeker() models.User {
	return models.User{ID: primitive.NewObjectID(), Name: "Meera", Email: "meera@example.com", Phone: "9123456780", ProfileImage: "https://img/meera.png"}
}
