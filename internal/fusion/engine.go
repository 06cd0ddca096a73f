package fusion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// PortalSource tags bundles fetched from the live social-insurance portal.
const PortalSource = "vss_portal"

// registryCounterKey counts outbound registry fetches per minute; the
// window total is mirrored into the metrics snapshot.
const registryCounterKey = "registry:requests"

// Engine orchestrates the per-tax-id pipeline:
// validate, resolve enterprise, resolve regulatory, fuse.
type Engine struct {
	cfg     Config
	sources domain.SourcesConfig

	enterprise domain.EnterpriseSource
	regulatory domain.RegulatorySource
	synth      domain.SyntheticProvider

	cache   domain.Cache
	metrics *domain.Metrics
}

// NewEngine creates a fusion engine. cache may be nil to disable lookup
// caching; metrics may be nil to disable counters.
func NewEngine(cfg Config, sources domain.SourcesConfig, enterprise domain.EnterpriseSource, regulatory domain.RegulatorySource, synth domain.SyntheticProvider, cache domain.Cache, metrics *domain.Metrics) *Engine {
	return &Engine{
		cfg:        cfg,
		sources:    sources,
		enterprise: enterprise,
		regulatory: regulatory,
		synth:      synth,
		cache:      cache,
		metrics:    metrics,
	}
}

// Process runs the full pipeline for one raw tax id string. The only error
// it returns is a validation failure; once the id validates, fallback
// guarantees make fusion total.
func (e *Engine) Process(ctx context.Context, rawTaxID string) (*domain.FusedResult, error) {
	start := time.Now()

	taxID, err := domain.NormalizeTaxID(rawTaxID)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordFailure(time.Since(start))
		}
		return nil, err
	}

	enterprise, entAuthentic := e.ResolveEnterprise(ctx, taxID)
	regulatory, regAuthentic := e.ResolveRegulatory(ctx, taxID)

	result := Fuse(e.cfg, enterprise, regulatory)
	result.ExtractionSeconds = time.Since(start).Seconds()

	if e.metrics != nil {
		e.metrics.RecordSuccess(time.Since(start), entAuthentic || regAuthentic)
	}

	slog.Info("profile fused",
		"tax_id", taxID,
		"enterprise_source", enterprise.Source,
		"regulatory_source", regulatory.Source,
		"data_quality", result.DataQuality,
		"risk_level", result.Risk.Level,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

// ResolveEnterprise fetches the registry record for taxID, falling back to
// the synthetic generator when the source errors, returns nothing, or
// reports quality at or below the usable threshold.
func (e *Engine) ResolveEnterprise(ctx context.Context, taxID string) (domain.EnterpriseRecord, bool) {
	if e.cache != nil {
		if rec, err := e.cache.GetEnterprise(ctx, taxID); err == nil && rec != nil {
			return *rec, rec.Authentic
		}
	}

	if e.cache != nil {
		if n, err := e.cache.IncrementCounter(ctx, registryCounterKey, time.Minute); err == nil && e.metrics != nil {
			e.metrics.RegistryWindow.Store(n)
		}
	}

	rec, err := e.enterprise.FetchByTaxID(ctx, taxID)
	if err == nil && rec != nil && rec.Name != "" && rec.Quality > e.cfg.MinEnterpriseQuality {
		if e.cache != nil {
			if cerr := e.cache.SetEnterprise(ctx, taxID, rec, e.sources.CacheTTL); cerr != nil {
				slog.Warn("enterprise cache write failed", "tax_id", taxID, "error", cerr)
			}
		}
		return *rec, true
	}
	if err != nil {
		slog.Warn("enterprise source unusable, using synthetic fallback",
			"tax_id", taxID,
			"error", err,
		)
	}

	gen := e.synth.GenerateEnterprise(taxID)
	gen.Source = domain.SourceSynthetic
	gen.Quality = e.cfg.SyntheticQuality
	gen.Authentic = false
	return gen, false
}

// ResolveRegulatory fetches the social-insurance bundle for taxID. The
// preconditions short-circuit to synthetic fallback in order: reachability
// probe, login when required, then non-emptiness of the fetched lists.
func (e *Engine) ResolveRegulatory(ctx context.Context, taxID string) (domain.RegulatoryBundle, bool) {
	if !e.regulatory.ProbeReachable(ctx) {
		slog.Warn("portal unreachable, using synthetic fallback", "tax_id", taxID)
		return e.syntheticBundle(taxID), false
	}

	if e.sources.RequireAuth {
		if !e.regulatory.Login(ctx, e.sources.PortalUsername, e.sources.PortalPassword) {
			slog.Warn("portal login failed, using synthetic fallback", "tax_id", taxID)
			return e.syntheticBundle(taxID), false
		}
	}

	bundle := domain.RegulatoryBundle{
		Employees:     e.regulatory.FetchEmployees(ctx, taxID),
		Contributions: e.regulatory.FetchContributions(ctx, taxID),
		Claims:        e.regulatory.FetchClaims(ctx, taxID),
		Hospitals:     e.regulatory.FetchHospitals(ctx, taxID),
	}

	if bundle.Empty() {
		slog.Warn("portal returned no data, using synthetic fallback", "tax_id", taxID)
		return e.syntheticBundle(taxID), false
	}

	now := time.Now()
	bundle.Compliance = ComputeCompliance(e.cfg, bundle.Employees, bundle.Contributions, now)
	bundle.Risk = AssessRisk(e.cfg, bundle.Employees, bundle.Contributions, bundle.Compliance, now)
	bundle.Quality = BundleQuality(e.cfg, bundle.Employees, bundle.Contributions, bundle.Claims, bundle.Hospitals)
	bundle.Source = PortalSource
	bundle.Authentic = true
	bundle.ExtractedAt = now

	return bundle, true
}

func (e *Engine) syntheticBundle(taxID string) domain.RegulatoryBundle {
	employees := e.synth.GenerateEmployees(taxID)
	contributions := e.synth.GenerateContributions(taxID, employees)
	claims := e.synth.GenerateClaims(taxID, employees)
	hospitals := e.synth.GenerateHospitals(taxID)
	compliance := e.synth.GenerateCompliance(employees, contributions)

	return domain.RegulatoryBundle{
		Employees:     employees,
		Contributions: contributions,
		Claims:        claims,
		Hospitals:     hospitals,
		Compliance:    compliance,
		Risk:          e.synth.GenerateRisk(employees, contributions, compliance),
		Quality:       BundleQuality(e.cfg, employees, contributions, claims, hospitals),
		Source:        domain.SourceSynthetic,
		Authentic:     false,
		ExtractedAt:   time.Now(),
	}
}

// BatchResult pairs one input tax id with its outcome. Err is set only for
// validation failures; every other upstream failure degrades to synthetic
// data inside the result.
type BatchResult struct {
	TaxID  string              `json:"taxId"`
	Result *domain.FusedResult `json:"result,omitempty"`
	Err    string              `json:"error,omitempty"`
}

// ProcessBatch runs the pipeline for each id using at most workers
// concurrent goroutines. Results keep the input order; a malformed id
// yields a BatchResult with Err set rather than aborting the batch.
func (e *Engine) ProcessBatch(ctx context.Context, taxIDs []string, workers int) []BatchResult {
	if workers <= 0 {
		workers = 1
	}

	results := make([]BatchResult, len(taxIDs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, id := range taxIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := e.Process(ctx, id)
			if err != nil {
				results[i] = BatchResult{TaxID: id, Err: err.Error()}
				return
			}
			results[i] = BatchResult{TaxID: res.TaxID, Result: res}
		}(i, id)
	}

	wg.Wait()
	return results
}

// Metrics exposes the engine counters for reporting. Nil when the engine
// was built without metrics.
func (e *Engine) Metrics() *domain.Metrics {
	return e.metrics
}
