package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/bus"
	"github.com/hoanganh-hue/vssbridge/internal/domain"
	"github.com/hoanganh-hue/vssbridge/internal/fusion"
	"github.com/hoanganh-hue/vssbridge/internal/rules"
	"github.com/hoanganh-hue/vssbridge/internal/synth"
)

// downEnterprise simulates an unreachable registry.
type downEnterprise struct{}

func (downEnterprise) FetchByTaxID(ctx context.Context, taxID string) (*domain.EnterpriseRecord, error) {
	return nil, context.DeadlineExceeded
}

// downRegulatory simulates an unreachable portal.
type downRegulatory struct{}

func (downRegulatory) ProbeReachable(ctx context.Context) bool { return false }

func (downRegulatory) Login(ctx context.Context, username, password string) bool { return false }
func (downRegulatory) FetchEmployees(ctx context.Context, taxID string) []domain.Employee {
	return nil
}
func (downRegulatory) FetchContributions(ctx context.Context, taxID string) []domain.Contribution {
	return nil
}
func (downRegulatory) FetchClaims(ctx context.Context, taxID string) []domain.Claim { return nil }
func (downRegulatory) FetchHospitals(ctx context.Context, taxID string) []domain.Hospital {
	return nil
}

// memRepo records saved profiles.
type memRepo struct {
	mu       sync.Mutex
	profiles []*domain.FusedResult
}

func (r *memRepo) SaveProfile(ctx context.Context, result *domain.FusedResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, result)
	return nil
}

func (r *memRepo) GetProfile(ctx context.Context, id string) (*domain.FusedResult, error) {
	return nil, nil
}

func (r *memRepo) GetLatestProfile(ctx context.Context, taxID string) (*domain.FusedResult, error) {
	return nil, nil
}

func (r *memRepo) ListProfiles(ctx context.Context, since time.Time) ([]*domain.FusedResult, error) {
	return nil, nil
}

func (r *memRepo) SaveScreenRule(ctx context.Context, rule *domain.ScreenRule) error { return nil }
func (r *memRepo) GetScreenRule(ctx context.Context, ruleID string) (*domain.ScreenRule, error) {
	return nil, nil
}
func (r *memRepo) ListScreenRules(ctx context.Context) ([]*domain.ScreenRule, error) {
	return nil, nil
}
func (r *memRepo) DeleteScreenRule(ctx context.Context, ruleID string) error { return nil }
func (r *memRepo) Ping(ctx context.Context) error                            { return nil }
func (r *memRepo) Close() error                                              { return nil }

func (r *memRepo) saved() []*domain.FusedResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.FusedResult(nil), r.profiles...)
}

func newTestWorker(t *testing.T, ruleEngine *rules.Engine) (*Worker, domain.EventBus, *memRepo) {
	t.Helper()

	cfg := fusion.DefaultConfig()
	cfg.Jitter = func() float64 { return 0 }

	sources := domain.SourcesConfig{RequireAuth: false}

	engine := fusion.NewEngine(cfg, sources,
		downEnterprise{}, downRegulatory{},
		synth.NewSeeded(cfg, 42),
		nil, &domain.Metrics{},
	)

	eventBus := bus.NewChannelBus(16)
	repo := &memRepo{}

	w := NewWorker(eventBus, repo, engine, ruleEngine, rules.NewScreener())
	if err := w.Start(); err != nil {
		t.Fatalf("worker start failed: %v", err)
	}
	t.Cleanup(func() {
		w.Stop()
		eventBus.Close()
	})

	return w, eventBus, repo
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWorkerProcessesRequest(t *testing.T) {
	_, eventBus, repo := newTestWorker(t, nil)
	ctx := context.Background()

	var mu sync.Mutex
	var completed []ProfileCompleted

	eventBus.Subscribe(ctx, domain.TopicProfileCompleted, func(ctx context.Context, msg *domain.Message) error {
		var pc ProfileCompleted
		if err := json.Unmarshal(msg.Payload, &pc); err != nil {
			return err
		}
		mu.Lock()
		completed = append(completed, pc)
		mu.Unlock()
		return nil
	})

	payload, _ := json.Marshal(ProfileRequest{TaxID: "0101234567", TraceID: "trace-1"})
	if err := eventBus.Publish(ctx, domain.TopicProfileRequested, payload); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(completed) == 1
	})

	mu.Lock()
	pc := completed[0]
	mu.Unlock()

	if pc.TaxID != "0101234567" {
		t.Errorf("tax id = %s", pc.TaxID)
	}
	if pc.TraceID != "trace-1" {
		t.Errorf("trace id = %s", pc.TraceID)
	}
	if pc.Result == nil || pc.Result.Enterprise.Source != domain.SourceSynthetic {
		t.Errorf("expected synthetic fallback result")
	}

	saved := repo.saved()
	if len(saved) != 1 || saved[0].TaxID != "0101234567" {
		t.Errorf("profile not persisted: %d", len(saved))
	}
}

func TestWorkerPublishesAlert(t *testing.T) {
	ruleEngine, err := rules.NewEngine(5)
	if err != nil {
		t.Fatalf("rule engine: %v", err)
	}
	defer ruleEngine.Close()

	// Synthetic data is never authentic, so this always flags.
	one := 1.0
	ruleEngine.LoadRule(&domain.ScreenRule{
		ID:         "synthetic-only",
		Expression: "!enterprise_authentic",
		Bands: []domain.ScreenBand{
			{LowerLimit: &one, SubRuleRef: domain.ScreenOutcomeFlag, Reason: "No real source data"},
		},
		Weight:  1.0,
		Enabled: true,
	})

	_, eventBus, _ := newTestWorker(t, ruleEngine)
	ctx := context.Background()

	var mu sync.Mutex
	var alerts []ProfileCompleted

	eventBus.Subscribe(ctx, domain.TopicProfileAlert, func(ctx context.Context, msg *domain.Message) error {
		var pc ProfileCompleted
		if err := json.Unmarshal(msg.Payload, &pc); err != nil {
			return err
		}
		mu.Lock()
		alerts = append(alerts, pc)
		mu.Unlock()
		return nil
	})

	payload, _ := json.Marshal(ProfileRequest{TaxID: "0101234567"})
	eventBus.Publish(ctx, domain.TopicProfileRequested, payload)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(alerts) == 1
	})

	mu.Lock()
	alert := alerts[0]
	mu.Unlock()

	if alert.Screening == nil || alert.Screening.Status != domain.ScreenStatusAlert {
		t.Errorf("expected ALERT screening, got %+v", alert.Screening)
	}
	if len(alert.Screening.Reasons) == 0 {
		t.Error("expected screening reasons")
	}
}

func TestWorkerIgnoresMalformedPayload(t *testing.T) {
	_, eventBus, repo := newTestWorker(t, nil)

	eventBus.Publish(context.Background(), domain.TopicProfileRequested, []byte("not json"))

	time.Sleep(100 * time.Millisecond)

	if len(repo.saved()) != 0 {
		t.Error("malformed payload must not produce a profile")
	}
}

func TestWorkerStats(t *testing.T) {
	w, _, _ := newTestWorker(t, nil)

	stats := w.GetStats()
	if stats.SubscriptionCount != 1 {
		t.Errorf("subscriptions = %d, want 1", stats.SubscriptionCount)
	}
	if len(stats.Topics) != 1 || stats.Topics[0] != domain.TopicProfileRequested {
		t.Errorf("topics = %v", stats.Topics)
	}
}
