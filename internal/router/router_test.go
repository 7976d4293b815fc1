package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deppfellow/cosmic-travel/internal/config"
	"github.com/deppfellow/cosmic-travel/internal/database"
	"github.com/deppfellow/cosmic-travel/internal/handler"
	loggerPkg "github.com/deppfellow/cosmic-travel/internal/logger"
	"github.com/deppfellow/cosmic-travel/internal/middleware"
	"github.com/deppfellow/cosmic-travel/internal/model"
	"github.com/deppfellow/cosmic-travel/internal/repository"
	"github.com/deppfellow/cosmic-travel/internal/server"
	"github.com/deppfellow/cosmic-travel/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type testApp struct {
	router *echo.Echo
	server *server.Server
	repos  *repository.Repositories
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.URL = "bolt://" + filepath.Join(t.TempDir(), "app.db")

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, loggerPkg.NewLoggerService(cfg.Observability))
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	repos, err := repository.NewRepositories(s)
	if err != nil {
		t.Fatal(err)
	}
	services, err := service.NewService(repos)
	if err != nil {
		t.Fatal(err)
	}

	return &testApp{
		router: NewRouter(s, handler.NewHandlers(s, services)),
		server: s,
		repos:  repos,
	}
}

func (a *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int, body string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, status, rec.Body.String())
	}
	if body != "" && strings.TrimSpace(rec.Body.String()) != body {
		t.Fatalf("body = %s, want %s", rec.Body.String(), body)
	}
}

// seed stores one scientist with two missions to two planets.
func (a *testApp) seed(t *testing.T) (model.Scientist, []model.Planet) {
	t.Helper()
	ctx := context.Background()

	ada, err := a.repos.Scientists.CreateScientist(ctx, &model.Scientist{Name: "Ada", FieldOfStudy: "Math"})
	if err != nil {
		t.Fatal(err)
	}

	var planets []model.Planet
	for _, p := range []model.Planet{
		{Name: "Mars", DistanceFromEarth: 225, NearestStar: "Sun"},
		{Name: "Kepler-22b", DistanceFromEarth: 600, NearestStar: "Kepler-22"},
	} {
		created, err := a.repos.Planets.CreatePlanet(ctx, &p)
		if err != nil {
			t.Fatal(err)
		}
		planets = append(planets, *created)

		if _, err := a.repos.Missions.CreateMission(ctx, &model.Mission{
			Name: "To " + p.Name, ScientistID: ada.ID, PlanetID: created.ID,
		}); err != nil {
			t.Fatal(err)
		}
	}

	return *ada, planets
}

const notFoundBody = `{"error":"Scientist not found"}`
const validationBody = `{"errors":["validation errors"]}`

func TestGetScientistNested(t *testing.T) {
	app := newTestApp(t)
	app.seed(t)

	rec := app.do(t, http.MethodGet, "/scientists/1", "")

	want := `{"field_of_study":"Math","id":1,"missions":[` +
		`{"name":"To Mars","planet":{"distance_from_earth":225,"id":1,"name":"Mars","nearest_star":"Sun"}},` +
		`{"name":"To Kepler-22b","planet":{"distance_from_earth":600,"id":2,"name":"Kepler-22b","nearest_star":"Kepler-22"}}` +
		`],"name":"Ada"}`
	expect(t, rec, http.StatusOK, want)
}

func TestMissingScientistIs404(t *testing.T) {
	app := newTestApp(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/scientists/99", ""},
		{http.MethodDelete, "/scientists/99", ""},
		{http.MethodPatch, "/scientists/99", `{"name":"x"}`},
		{http.MethodGet, "/scientists/abc", ""},
		{http.MethodGet, "/scientists/0", ""},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			expect(t, app.do(t, tc.method, tc.path, tc.body), http.StatusNotFound, notFoundBody)
		})
	}
}

func TestCreateScientist(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/scientists", `{"name":"Ada","field_of_study":"Math"}`)
	expect(t, rec, http.StatusCreated, `{"field_of_study":"Math","id":1,"missions":[],"name":"Ada"}`)
}

func TestCreateScientistValidation(t *testing.T) {
	app := newTestApp(t)

	for _, body := range []string{
		`{"name": ""}`,
		`{"name":"Ada"}`,
		`{"name":"Ada","field_of_study":"   "}`,
		`{"name":null,"field_of_study":"Math"}`,
		`{"name":1,"field_of_study":"Math"}`,
		`{not json`,
	} {
		t.Run(body, func(t *testing.T) {
			expect(t, app.do(t, http.MethodPost, "/scientists", body), http.StatusBadRequest, validationBody)
		})
	}

	list := decode[[]map[string]any](t, app.do(t, http.MethodGet, "/scientists", ""))
	if len(list) != 0 {
		t.Fatalf("rejected scientists were stored: %v", list)
	}
}

func TestCreateMission(t *testing.T) {
	app := newTestApp(t)
	app.seed(t)

	rec := app.do(t, http.MethodPost, "/missions", `{"name":"Return","scientist_id":1,"planet_id":1}`)
	expect(t, rec, http.StatusCreated,
		`{"id":3,"name":"Return",`+
			`"planet":{"distance_from_earth":225,"id":1,"name":"Mars","nearest_star":"Sun"},"planet_id":1,`+
			`"scientist":{"field_of_study":"Math","id":1,"name":"Ada"},"scientist_id":1}`)
}

func TestCreateMissionValidation(t *testing.T) {
	app := newTestApp(t)
	app.seed(t)

	for _, body := range []string{
		`{"name":"M","scientist_id":0,"planet_id":1}`,
		`{"name":"M","scientist_id":1,"planet_id":0}`,
		`{"name":"M","planet_id":1}`,
		`{"name":"M","scientist_id":1}`,
		`{"scientist_id":1,"planet_id":1}`,
		`{"name":" ","scientist_id":1,"planet_id":1}`,
		`{"name":"M","scientist_id":-2,"planet_id":1}`,
		`{"name":"M","scientist_id":42,"planet_id":1}`,
		`{"name":"M","scientist_id":1,"planet_id":42}`,
	} {
		t.Run(body, func(t *testing.T) {
			expect(t, app.do(t, http.MethodPost, "/missions", body), http.StatusBadRequest, validationBody)
		})
	}
}

func TestDeleteScientistCascades(t *testing.T) {
	app := newTestApp(t)
	ada, _ := app.seed(t)

	rec := app.do(t, http.MethodDelete, "/scientists/1", "")
	expect(t, rec, http.StatusNoContent, "")
	if rec.Body.Len() != 0 {
		t.Fatalf("body = %q, want empty", rec.Body.String())
	}

	for _, id := range []int64{1, 2} {
		if _, err := app.repos.Missions.GetMission(context.Background(), id); err == nil {
			t.Errorf("mission %d survived deleting scientist %d", id, ada.ID)
		}
	}

	expect(t, app.do(t, http.MethodGet, "/scientists/1", ""), http.StatusNotFound, notFoundBody)

	planets := decode[[]map[string]any](t, app.do(t, http.MethodGet, "/planets", ""))
	if len(planets) != 2 {
		t.Fatalf("planets = %v", planets)
	}
}

func TestPatchScientist(t *testing.T) {
	app := newTestApp(t)
	app.seed(t)

	rec := app.do(t, http.MethodPatch, "/scientists/1", `{"field_of_study":"Physics"}`)
	expect(t, rec, http.StatusAccepted, "")

	body := decode[map[string]any](t, rec)
	if body["name"] != "Ada" || body["field_of_study"] != "Physics" {
		t.Fatalf("body = %v", body)
	}

	missions := body["missions"].([]any)
	if len(missions) != 2 {
		t.Fatalf("missions = %v", missions)
	}
	first := missions[0].(map[string]any)
	for _, key := range []string{"id", "name", "planet", "planet_id", "scientist_id"} {
		if _, ok := first[key]; !ok {
			t.Errorf("mission is missing %q: %v", key, first)
		}
	}
	if _, ok := first["scientist"]; ok {
		t.Errorf("mission repeats its scientist: %v", first)
	}

	stored := decode[map[string]any](t, app.do(t, http.MethodGet, "/scientists/1", ""))
	if stored["field_of_study"] != "Physics" {
		t.Fatalf("stored = %v", stored)
	}
}

func TestPatchScientistValidation(t *testing.T) {
	app := newTestApp(t)
	app.seed(t)

	expect(t, app.do(t, http.MethodPatch, "/scientists/1", `{"name":""}`), http.StatusBadRequest, validationBody)
	expect(t, app.do(t, http.MethodPatch, "/scientists/1", `{"name":`), http.StatusBadRequest, validationBody)
	expect(t, app.do(t, http.MethodPatch, "/scientists/1", `{"name":null}`), http.StatusBadRequest, validationBody)
	expect(t, app.do(t, http.MethodPatch, "/scientists/1", `{"field_of_study":null}`), http.StatusBadRequest, validationBody)
	expect(t, app.do(t, http.MethodPatch, "/scientists/1", `{"name":5}`), http.StatusBadRequest, validationBody)

	stored := decode[map[string]any](t, app.do(t, http.MethodGet, "/scientists/1", ""))
	if stored["name"] != "Ada" || stored["field_of_study"] != "Math" {
		t.Fatalf("rejected patch was stored: %v", stored)
	}
}

func TestPatchMissingScientistIgnoresBody(t *testing.T) {
	app := newTestApp(t)
	app.seed(t)

	for _, body := range []string{`{"name":`, `{"name":5}`, `{"name":null}`, `{"name":""}`} {
		expect(t, app.do(t, http.MethodPatch, "/scientists/99", body), http.StatusNotFound, notFoundBody)
	}
}

func TestListsAreShallow(t *testing.T) {
	app := newTestApp(t)
	app.seed(t)

	expect(t, app.do(t, http.MethodGet, "/scientists", ""), http.StatusOK,
		`[{"field_of_study":"Math","id":1,"name":"Ada"}]`)

	expect(t, app.do(t, http.MethodGet, "/planets", ""), http.StatusOK,
		`[{"distance_from_earth":225,"id":1,"name":"Mars","nearest_star":"Sun"},`+
			`{"distance_from_earth":600,"id":2,"name":"Kepler-22b","nearest_star":"Kepler-22"}]`)
}

func TestEmptyLists(t *testing.T) {
	app := newTestApp(t)

	expect(t, app.do(t, http.MethodGet, "/scientists", ""), http.StatusOK, `[]`)
	expect(t, app.do(t, http.MethodGet, "/planets", ""), http.StatusOK, `[]`)
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/", "")
	expect(t, rec, http.StatusOK, "")
	if rec.Body.Len() != 0 {
		t.Fatalf("home body = %q", rec.Body.String())
	}

	rec = app.do(t, http.MethodGet, "/status", "")
	expect(t, rec, http.StatusOK, "")
	health := decode[map[string]any](t, rec)
	if health["status"] != "healthy" {
		t.Fatalf("health = %v", health)
	}

	rec = app.do(t, http.MethodGet, "/docs", "")
	expect(t, rec, http.StatusOK, "")
	if !strings.Contains(rec.Body.String(), "/static/openapi.json") {
		t.Fatal("docs page does not reference openapi.json")
	}

	rec = app.do(t, http.MethodGet, "/static/openapi.json", "")
	expect(t, rec, http.StatusOK, "")
	doc := decode[map[string]any](t, rec)
	if doc["openapi"] == nil {
		t.Fatalf("openapi.json = %v", doc)
	}

	expect(t, app.do(t, http.MethodGet, "/nowhere", ""), http.StatusNotFound, `{"error":"Route not found"}`)
}

func TestStatusReportsClosedStore(t *testing.T) {
	app := newTestApp(t)

	if err := app.server.Store.Close(); err != nil {
		t.Fatal(err)
	}
	app.server.Store = closedStore{app.server.Store}

	rec := app.do(t, http.MethodGet, "/status", "")
	expect(t, rec, http.StatusServiceUnavailable, "")
	if decode[map[string]any](t, rec)["status"] != "unhealthy" {
		t.Fatal("closed store reported healthy")
	}
}

// closedStore makes the second Close from test cleanup a no-op.
type closedStore struct {
	inner interface {
		Ping(ctx context.Context) error
	}
}

func (c closedStore) Driver() database.Driver       { return database.DriverBolt }
func (c closedStore) Ping(ctx context.Context) error { return c.inner.Ping(ctx) }
func (c closedStore) Close() error                   { return nil }

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/scientists", "")
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatal("response has no request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/scientists", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if got := rec.Header().Get(middleware.RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}

func TestSeededCatalogServesMissions(t *testing.T) {
	app := newTestApp(t)

	services, err := service.NewService(app.repos)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := service.NewSeeder(services).Seed(context.Background(), service.DefaultSeedData(), false); err != nil {
		t.Fatal(err)
	}

	planets := decode[[]map[string]any](t, app.do(t, http.MethodGet, "/planets", ""))
	if len(planets) != len(service.DefaultSeedData().Planets) {
		t.Fatalf("planets = %v", planets)
	}

	rec := app.do(t, http.MethodPost, "/missions", `{"name":"Return Trip","scientist_id":1,"planet_id":2}`)
	expect(t, rec, http.StatusCreated, "")
}
