package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/bazarche/bazarche/internal/cache"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubModule registers a single ping route so RegisterRoutes has something
// to wire.
type stubModule struct {
	registered bool
}

func (m *stubModule) RegisterRoutes(api *gin.RouterGroup, root *gin.RouterGroup) {
	m.registered = true
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func newTestRouter(t *testing.T, deps *RouteDeps) *gin.Engine {
	t.Helper()
	r := gin.New()
	if err := RegisterRoutes(r, deps); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return r
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRegisterRoutes_Validation(t *testing.T) {
	db := openTestDB(t)

	tests := []struct {
		name string
		r    *gin.Engine
		deps *RouteDeps
	}{
		{"nil router", nil, &RouteDeps{Modules: []Module{&stubModule{}}, DB: db}},
		{"nil deps", gin.New(), nil},
		{"no modules", gin.New(), &RouteDeps{DB: db}},
		{"nil module", gin.New(), &RouteDeps{Modules: []Module{nil}, DB: db}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RegisterRoutes(tt.r, tt.deps); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRegisterRoutes_WiresModules(t *testing.T) {
	mod := &stubModule{}
	r := newTestRouter(t, &RouteDeps{
		Modules: []Module{mod},
		DB:      openTestDB(t),
		Cache:   cache.NewMemoryStore(),
	})

	if !mod.registered {
		t.Fatal("module was not registered")
	}
	if w := doGet(r, "/api/v1/ping"); w.Code != http.StatusOK {
		t.Errorf("ping status = %d; want 200", w.Code)
	}
}

func TestHealth_OK(t *testing.T) {
	r := newTestRouter(t, &RouteDeps{
		Modules: []Module{&stubModule{}},
		DB:      openTestDB(t),
		Cache:   cache.NewMemoryStore(),
	})

	w := doGet(r, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	components, _ := body["components"].(map[string]any)
	if components["database"] != "ok" || components["cache"] != "ok" {
		t.Errorf("components = %v", components)
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	db := openTestDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	r := newTestRouter(t, &RouteDeps{
		Modules: []Module{&stubModule{}},
		DB:      db,
		Cache:   cache.NewMemoryStore(),
	})

	w := doGet(r, "/health")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d; want 503", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "degraded" {
		t.Errorf("status field = %v; want degraded", body["status"])
	}
}

func TestHealth_NoCacheStore(t *testing.T) {
	r := newTestRouter(t, &RouteDeps{
		Modules: []Module{&stubModule{}},
		DB:      openTestDB(t),
	})

	w := doGet(r, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 without a cache store", w.Code)
	}
	body := decodeBody(t, w)
	components, _ := body["components"].(map[string]any)
	if components["cache"] != "disabled" {
		t.Errorf("cache component = %v; want disabled", components["cache"])
	}
}

func TestNoRoute(t *testing.T) {
	r := newTestRouter(t, &RouteDeps{
		Modules: []Module{&stubModule{}},
		DB:      openTestDB(t),
	})

	w := doGet(r, "/definitely/not/a/route")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "not found" {
		t.Errorf("message = %v", body["message"])
	}
}
