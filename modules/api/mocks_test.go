package api

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	productdomain "github.com/example/task-manager/domain/product"
	taskdomain "github.com/example/task-manager/domain/task"
	userdomain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/catalog"
	"github.com/example/task-manager/modules/ratelimit"
	"github.com/example/task-manager/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

var errNotImplemented = errors.New("not implemented")

// mockAuthPort implements auth.AuthPort for testing.
type mockAuthPort struct {
	registerFunc      func(ctx context.Context, req auth.RegisterRequest) (*userdomain.Profile, *userdomain.TokenPair, error)
	loginFunc         func(ctx context.Context, req auth.LoginRequest) (*userdomain.Profile, *userdomain.TokenPair, error)
	refreshFunc       func(ctx context.Context, token string) (*userdomain.Profile, *userdomain.TokenPair, error)
	validateTokenFunc func(ctx context.Context, token string) (*userdomain.Claims, error)
	getProfileFunc    func(ctx context.Context, userID string) (*userdomain.Profile, error)
	updateProfileFunc func(ctx context.Context, userID string, update userdomain.ProfileUpdate) (*userdomain.Profile, error)
}

var _ auth.AuthPort = (*mockAuthPort)(nil)

func (m *mockAuthPort) Register(ctx context.Context, req auth.RegisterRequest) (*userdomain.Profile, *userdomain.TokenPair, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, nil, errNotImplemented
}

func (m *mockAuthPort) Login(ctx context.Context, req auth.LoginRequest) (*userdomain.Profile, *userdomain.TokenPair, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, nil, errNotImplemented
}

func (m *mockAuthPort) Refresh(ctx context.Context, token string) (*userdomain.Profile, *userdomain.TokenPair, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, token)
	}
	return nil, nil, errNotImplemented
}

// ValidateToken accepts "alice-token" as a user and "admin-token" as an
// admin unless validateTokenFunc is set.
func (m *mockAuthPort) ValidateToken(ctx context.Context, token string) (*userdomain.Claims, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, token)
	}
	switch token {
	case "alice-token":
		return &userdomain.Claims{UserID: "alice", Email: "alice@example.com", Role: userdomain.RoleUser}, nil
	case "admin-token":
		return &userdomain.Claims{UserID: "root", Email: "root@example.com", Role: userdomain.RoleAdmin}, nil
	}
	return nil, auth.ErrInvalidToken
}

func (m *mockAuthPort) GetProfile(ctx context.Context, userID string) (*userdomain.Profile, error) {
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) UpdateProfile(ctx context.Context, userID string, update userdomain.ProfileUpdate) (*userdomain.Profile, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, userID, update)
	}
	return nil, errNotImplemented
}

// mockTaskPort implements task.TaskPort for testing.
type mockTaskPort struct {
	listFunc   func(ctx context.Context, ownerID string, f task.ListFilter) ([]taskdomain.Task, error)
	createFunc func(ctx context.Context, ownerID string, in task.CreateInput) (*taskdomain.Task, error)
	updateFunc func(ctx context.Context, ownerID, taskID string, in task.UpdateInput) (*taskdomain.Task, error)
	deleteFunc func(ctx context.Context, ownerID, taskID string) error
}

var _ task.TaskPort = (*mockTaskPort)(nil)

func (m *mockTaskPort) List(ctx context.Context, ownerID string, f task.ListFilter) ([]taskdomain.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID, f)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) Create(ctx context.Context, ownerID string, in task.CreateInput) (*taskdomain.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, ownerID, in)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) Update(ctx context.Context, ownerID, taskID string, in task.UpdateInput) (*taskdomain.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, ownerID, taskID, in)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) Delete(ctx context.Context, ownerID, taskID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ownerID, taskID)
	}
	return errNotImplemented
}

// mockActivityPort implements activity.ActivityPort for testing.
type mockActivityPort struct {
	recentFunc func(ctx context.Context, ownerID string, limit int) ([]activity.Entry, error)
}

func (m *mockActivityPort) Recent(ctx context.Context, ownerID string, limit int) ([]activity.Entry, error) {
	if m.recentFunc != nil {
		return m.recentFunc(ctx, ownerID, limit)
	}
	return nil, errNotImplemented
}

// mockCatalogPort implements catalog.CatalogPort for testing.
type mockCatalogPort struct {
	listFunc            func(ctx context.Context, f productdomain.Filter) (*catalog.Listing, error)
	getFunc             func(ctx context.Context, id string) (*productdomain.Product, error)
	getBySlugFunc       func(ctx context.Context, slug string) (*productdomain.Product, error)
	recommendationsFunc func(ctx context.Context, limit int) ([]productdomain.Product, error)
	createFunc          func(ctx context.Context, in productdomain.CreateInput) (*productdomain.Product, error)
	updateFunc          func(ctx context.Context, id string, in productdomain.UpdateInput) (*productdomain.Product, error)
	deleteFunc          func(ctx context.Context, id string) error
	dashboardFunc       func(ctx context.Context) (*catalog.Dashboard, error)
}

var _ catalog.CatalogPort = (*mockCatalogPort)(nil)

func (m *mockCatalogPort) List(ctx context.Context, f productdomain.Filter) (*catalog.Listing, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, f)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) Get(ctx context.Context, id string) (*productdomain.Product, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) GetBySlug(ctx context.Context, slug string) (*productdomain.Product, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) Recommendations(ctx context.Context, limit int) ([]productdomain.Product, error) {
	if m.recommendationsFunc != nil {
		return m.recommendationsFunc(ctx, limit)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) Create(ctx context.Context, in productdomain.CreateInput) (*productdomain.Product, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) Update(ctx context.Context, id string, in productdomain.UpdateInput) (*productdomain.Product, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, in)
	}
	return nil, errNotImplemented
}

func (m *mockCatalogPort) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errNotImplemented
}

func (m *mockCatalogPort) Dashboard(ctx context.Context) (*catalog.Dashboard, error) {
	if m.dashboardFunc != nil {
		return m.dashboardFunc(ctx)
	}
	return nil, errNotImplemented
}

// denyLimiter rejects every request.
type denyLimiter struct {
	keys []string
}

func (l *denyLimiter) Allow(_ context.Context, key string) (*ratelimit.Result, error) {
	l.keys = append(l.keys, key)
	return &ratelimit.Result{Allowed: false, Limit: 10}, nil
}

// testDeps returns Deps with empty mocks, to be overridden per test.
func testDeps() Deps {
	return Deps{
		Auth:     &mockAuthPort{},
		Tasks:    &mockTaskPort{},
		Activity: &mockActivityPort{},
	}
}

type response struct {
	status int
	body   string
	header func(string) string
}

// do sends a request to app. A non-empty token is sent as a bearer token.
func do(t *testing.T, app *fiber.App, method, path, token, body string) response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: string(data), header: resp.Header.Get}
}
