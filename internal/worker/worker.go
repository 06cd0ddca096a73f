// Package worker provides async profile processing for the Pro tier.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
	"github.com/hoanganh-hue/vssbridge/internal/fusion"
	"github.com/hoanganh-hue/vssbridge/internal/rules"
)

// Worker processes profile requests asynchronously from the EventBus.
type Worker struct {
	bus      domain.EventBus
	repo     domain.Repository
	engine   *fusion.Engine
	rules    *rules.Engine
	screener *rules.Screener

	subscriptions []domain.Subscription
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewWorker creates a new async worker.
func NewWorker(bus domain.EventBus, repo domain.Repository, engine *fusion.Engine, ruleEngine *rules.Engine, screener *rules.Screener) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:      bus,
		repo:     repo,
		engine:   engine,
		rules:    ruleEngine,
		screener: screener,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the profile request topic.
func (w *Worker) Start() error {
	sub, err := w.bus.Subscribe(w.ctx, domain.TopicProfileRequested, w.handleMessage)
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("worker started", "topic", domain.TopicProfileRequested)
	return nil
}

// ProfileRequest is the message payload for async profile processing.
type ProfileRequest struct {
	TaxID   string `json:"taxId"`
	TraceID string `json:"traceId,omitempty"`
}

// ProfileCompleted is the payload published when a profile finishes.
type ProfileCompleted struct {
	TaxID     string              `json:"taxId"`
	TraceID   string              `json:"traceId,omitempty"`
	Result    *domain.FusedResult `json:"result"`
	Screening *domain.Screening   `json:"screening,omitempty"`
}

// handleMessage runs one tax id through the full pipeline.
func (w *Worker) handleMessage(ctx context.Context, msg *domain.Message) error {
	start := time.Now()

	var req ProfileRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		slog.Error("failed to parse profile request",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	traceID := req.TraceID
	if traceID == "" {
		traceID = msg.ID
	}

	slog.Debug("processing profile request",
		"tax_id", req.TaxID,
		"trace_id", traceID,
	)

	// 1. Fuse the two sources
	result, err := w.engine.Process(ctx, req.TaxID)
	if err != nil {
		slog.Error("profile processing failed",
			"tax_id", req.TaxID,
			"trace_id", traceID,
			"error", err,
		)
		return err
	}

	// 2. Persist the fused result
	if w.repo != nil {
		if err := w.repo.SaveProfile(ctx, result); err != nil {
			slog.Error("failed to save profile",
				"tax_id", req.TaxID,
				"error", err,
			)
		}
	}

	// 3. Run screening rules over the result
	var screening *domain.Screening
	if w.rules != nil && w.rules.RulesCount() > 0 {
		ruleResults, err := w.rules.EvaluateAll(ctx, result)
		if err != nil {
			slog.Error("rule evaluation failed",
				"tax_id", req.TaxID,
				"error", err,
			)
		} else if w.screener != nil {
			screening = w.screener.Screen(result.TaxID, ruleResults)
		}
	}

	// 4. Publish completion
	payload, _ := json.Marshal(ProfileCompleted{
		TaxID:     result.TaxID,
		TraceID:   traceID,
		Result:    result,
		Screening: screening,
	})
	if err := w.bus.Publish(ctx, domain.TopicProfileCompleted, payload); err != nil {
		slog.Error("failed to publish completion",
			"tax_id", req.TaxID,
			"error", err,
		)
	}

	// 5. If screening raised an alert, publish to the alert topic
	if screening != nil && rules.ShouldAlert(screening) {
		if err := w.bus.Publish(ctx, domain.TopicProfileAlert, payload); err != nil {
			slog.Error("failed to publish alert",
				"tax_id", req.TaxID,
				"error", err,
			)
		}
	}

	slog.Info("profile request processed",
		"tax_id", result.TaxID,
		"trace_id", traceID,
		"risk_level", result.Risk.Level,
		"data_quality", result.DataQuality,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() error {
	w.cancel()

	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil

	w.wg.Wait()

	slog.Info("worker stopped")
	return nil
}

// Stats returns worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscriptionCount"`
	Topics            []string `json:"topics"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
	}
}
