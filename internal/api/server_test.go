package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gopower/app"
	"gopower/domain/design"
	"gopower/internal/rng"
	"gopower/internal/testkit"
)

func newTestServer() (*Server, *testkit.InMemorySweepRepository) {
	repo := testkit.NewInMemorySweepRepository()
	service := app.NewSweepService(&testkit.FixedComparator{Value: 5}, rng.New(), repo, 2)
	return NewServer(service, repo), repo
}

func postSweep(t *testing.T, server *Server, req app.SweepRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sweeps", bytes.NewReader(body)))
	return rec
}

func TestRunSweepEndpoint(t *testing.T) {
	server, repo := newTestServer()

	req := app.SweepRequest{
		Design:     testkit.SmallDesign(),
		Grid:       testkit.SmallGrid(),
		Replicates: 5,
		Threshold:  3,
		Seed:       42,
	}

	rec := postSweep(t, server, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result design.SweepResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Table.Len() != req.Grid.Size() {
		t.Errorf("expected %d rows, got %d", req.Grid.Size(), result.Table.Len())
	}
	if result.SweepID == "" {
		t.Error("expected a generated sweep ID")
	}
	if repo.Len() != 1 {
		t.Errorf("expected the sweep to be persisted, repo holds %d", repo.Len())
	}
}

func TestRunSweepEndpointRejectsBadConfig(t *testing.T) {
	server, repo := newTestServer()

	req := app.SweepRequest{
		Design:     testkit.SmallDesign(),
		Grid:       testkit.SmallGrid(),
		Replicates: 0,
		Threshold:  3,
		Seed:       42,
	}

	rec := postSweep(t, server, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode error payload: %v", err)
	}
	if payload["code"] != "CONFIG_INVALID" {
		t.Errorf("expected CONFIG_INVALID code, got %q", payload["code"])
	}
	if repo.Len() != 0 {
		t.Error("a rejected request must not persist a sweep")
	}
}

func TestRunSweepEndpointRejectsMalformedJSON(t *testing.T) {
	server, _ := newTestServer()

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sweeps", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestGetSweepEndpoint(t *testing.T) {
	server, _ := newTestServer()

	req := app.SweepRequest{
		Design:     testkit.SmallDesign(),
		Grid:       testkit.SmallGrid(),
		Replicates: 5,
		Threshold:  3,
		Seed:       42,
	}
	rec := postSweep(t, server, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("setup sweep failed: %d", rec.Code)
	}
	var created design.SweepResult
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created sweep: %v", err)
	}

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sweeps/"+created.SweepID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var fetched design.SweepResult
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to decode fetched sweep: %v", err)
	}
	if fetched.SweepID != created.SweepID {
		t.Errorf("expected sweep %s, got %s", created.SweepID, fetched.SweepID)
	}
	if !fetched.Fingerprint.Equals(created.Fingerprint) {
		t.Error("fetched sweep must carry the original fingerprint")
	}
}

func TestGetSweepEndpointUnknownID(t *testing.T) {
	server, _ := newTestServer()

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sweeps/0198f6a2-0000-7000-8000-000000000000", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown sweep, got %d", rec.Code)
	}
}

func TestListSweepsEndpoint(t *testing.T) {
	server, _ := newTestServer()

	for _, seed := range []int64{1, 2} {
		req := app.SweepRequest{
			Design:     testkit.SmallDesign(),
			Grid:       testkit.SmallGrid(),
			Replicates: 5,
			Threshold:  3,
			Seed:       seed,
		}
		if rec := postSweep(t, server, req); rec.Code != http.StatusOK {
			t.Fatalf("setup sweep failed: %d", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sweeps", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var manifests []design.SweepManifest
	if err := json.Unmarshal(rec.Body.Bytes(), &manifests); err != nil {
		t.Fatalf("failed to decode manifest list: %v", err)
	}
	if len(manifests) != 2 {
		t.Errorf("expected 2 manifests, got %d", len(manifests))
	}
}
