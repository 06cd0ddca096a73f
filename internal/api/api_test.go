package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/hoanganh-hue/vssbridge/internal/bus"
	"github.com/hoanganh-hue/vssbridge/internal/domain"
	"github.com/hoanganh-hue/vssbridge/internal/fusion"
	"github.com/hoanganh-hue/vssbridge/internal/repository"
	"github.com/hoanganh-hue/vssbridge/internal/rules"
	"github.com/hoanganh-hue/vssbridge/internal/synth"
)

// offlineEnterprise simulates an unreachable registry.
type offlineEnterprise struct{}

func (offlineEnterprise) FetchByTaxID(ctx context.Context, taxID string) (*domain.EnterpriseRecord, error) {
	return nil, context.DeadlineExceeded
}

// offlineRegulatory simulates an unreachable portal.
type offlineRegulatory struct{}

func (offlineRegulatory) ProbeReachable(ctx context.Context) bool { return false }

func (offlineRegulatory) Login(ctx context.Context, username, password string) bool { return false }
func (offlineRegulatory) FetchEmployees(ctx context.Context, taxID string) []domain.Employee {
	return nil
}
func (offlineRegulatory) FetchContributions(ctx context.Context, taxID string) []domain.Contribution {
	return nil
}
func (offlineRegulatory) FetchClaims(ctx context.Context, taxID string) []domain.Claim { return nil }
func (offlineRegulatory) FetchHospitals(ctx context.Context, taxID string) []domain.Hospital {
	return nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo, err := repository.New(domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "api.db"),
	})
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	cfg := fusion.DefaultConfig()
	cfg.Jitter = func() float64 { return 0 }

	engine := fusion.NewEngine(cfg, domain.SourcesConfig{},
		offlineEnterprise{}, offlineRegulatory{},
		synth.NewSeeded(cfg, 7),
		nil, &domain.Metrics{},
	)

	ruleEngine, err := rules.NewEngine(5)
	if err != nil {
		t.Fatalf("rule engine: %v", err)
	}
	t.Cleanup(func() { ruleEngine.Close() })

	eventBus := bus.NewChannelBus(16)
	t.Cleanup(func() { eventBus.Close() })

	return NewServer(domain.ServerConfig{Host: "127.0.0.1", Port: 0},
		repo, nil, eventBus, engine, ruleEngine, rules.NewScreener(), "test")
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "healthy" {
		t.Errorf("status = %s", body["status"])
	}
	if body["version"] != "test" {
		t.Errorf("version = %s", body["version"])
	}
}

func TestReady(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProcessProfile(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/profiles", ProfileRequest{TaxID: "0101234567"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result == nil || resp.Result.TaxID != "0101234567" {
		t.Fatalf("result = %+v", resp.Result)
	}
	if resp.Result.Enterprise.Source != domain.SourceSynthetic {
		t.Errorf("expected synthetic fallback, got %s", resp.Result.Enterprise.Source)
	}
	if resp.Metadata.Version != "test" {
		t.Errorf("version = %s", resp.Metadata.Version)
	}

	// The processed profile is retrievable by tax id
	rec = doRequest(t, srv, http.MethodGet, "/v1/profiles/0101234567", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var stored domain.FusedResult
	json.Unmarshal(rec.Body.Bytes(), &stored)
	if stored.ID != resp.Result.ID {
		t.Errorf("stored id = %s, want %s", stored.ID, resp.Result.ID)
	}

	// And by profile id
	rec = doRequest(t, srv, http.MethodGet, "/v1/profiles/"+resp.Result.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get by id status = %d", rec.Code)
	}
}

func TestProcessProfileInvalidTaxID(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/profiles", ProfileRequest{TaxID: "abc"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProcessProfileMissingTaxID(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/profiles", ProfileRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProcessProfileAsync(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/profiles", ProfileRequest{TaxID: "0101234567", Async: true})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "queued" {
		t.Errorf("status = %s", body["status"])
	}
}

func TestGetProfileNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/profiles/9999999999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetMetrics(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/v1/profiles", ProfileRequest{TaxID: "0101234567"})

	rec := doRequest(t, srv, http.MethodGet, "/v1/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var snap domain.MetricsSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Total != 1 || snap.Succeeded != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Synthetic != 1 {
		t.Errorf("synthetic count = %d, want 1", snap.Synthetic)
	}
}

func TestRuleLifecycle(t *testing.T) {
	srv := newTestServer(t)

	one := 1.0
	create := CreateRuleRequest{
		ID:         "low-quality",
		Name:       "Low Quality",
		Expression: "data_quality < 50.0",
		Bands: []domain.ScreenBand{
			{LowerLimit: &one, SubRuleRef: domain.ScreenOutcomeReview, Reason: "Low data quality"},
		},
		Weight:  1.0,
		Enabled: true,
	}

	rec := doRequest(t, srv, http.MethodPost, "/v1/rules", create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Rule is loaded and listable
	rec = doRequest(t, srv, http.MethodGet, "/v1/rules", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var list struct {
		Count int                  `json:"count"`
		Rules []*domain.ScreenRule `json:"rules"`
	}
	json.Unmarshal(rec.Body.Bytes(), &list)
	if list.Count != 1 {
		t.Fatalf("count = %d, want 1", list.Count)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/rules/low-quality", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	// Reload keeps the persisted rule loaded
	rec = doRequest(t, srv, http.MethodPost, "/v1/rules/reload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reload status = %d", rec.Code)
	}

	// Delete removes it from storage and the engine
	rec = doRequest(t, srv, http.MethodDelete, "/v1/rules/low-quality", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/rules/low-quality", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateRuleInvalidExpression(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/rules", CreateRuleRequest{
		ID:         "broken",
		Name:       "Broken",
		Expression: "this is not CEL !!!",
		Enabled:    true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateRuleMissingFields(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/rules", CreateRuleRequest{ID: "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProfileScreeningInResponse(t *testing.T) {
	srv := newTestServer(t)

	one := 1.0
	doRequest(t, srv, http.MethodPost, "/v1/rules", CreateRuleRequest{
		ID:         "synthetic-flag",
		Name:       "Synthetic Flag",
		Expression: "!enterprise_authentic",
		Bands: []domain.ScreenBand{
			{LowerLimit: &one, SubRuleRef: domain.ScreenOutcomeFlag, Reason: "No real source data"},
		},
		Weight:  1.0,
		Enabled: true,
	})

	rec := doRequest(t, srv, http.MethodPost, "/v1/profiles", ProfileRequest{TaxID: "0101234567"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ProfileResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Screening == nil {
		t.Fatal("expected screening in response")
	}
	if resp.Screening.Status != domain.ScreenStatusAlert {
		t.Errorf("screening status = %s, want ALERT", resp.Screening.Status)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/profiles", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("allow origin = %s", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
