// Package rules provides the CEL-Go based screening rule engine. Operators
// author expressions over the derived metrics of a fused profile; the
// engine compiles them once and evaluates them against every new result.
package rules

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// Engine is the CEL-based screening rule engine.
type Engine struct {
	mu            sync.RWMutex
	env           *cel.Env
	compiledRules map[string]*CompiledRule
	maxWorkers    int
}

// CompiledRule holds a pre-compiled CEL program.
type CompiledRule struct {
	Config  *domain.ScreenRule
	Program cel.Program
}

// NewEngine creates a screening rule engine with the profile metric
// variables registered.
func NewEngine(maxWorkers int) (*Engine, error) {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	env, err := cel.NewEnv(
		cel.Variable("profile", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("risk_score", cel.DoubleType),
		cel.Variable("risk_level", cel.StringType),
		cel.Variable("compliance_score", cel.DoubleType),
		cel.Variable("data_quality", cel.DoubleType),
		cel.Variable("integration_confidence", cel.DoubleType),
		cel.Variable("real_data_pct", cel.DoubleType),
		cel.Variable("employee_count", cel.IntType),
		cel.Variable("active_employee_count", cel.IntType),
		cel.Variable("average_salary", cel.DoubleType),
		cel.Variable("contribution_count", cel.IntType),
		cel.Variable("contribution_total", cel.DoubleType),
		cel.Variable("enterprise_authentic", cel.BoolType),
		cel.Variable("regulatory_authentic", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{
		env:           env,
		compiledRules: make(map[string]*CompiledRule),
		maxWorkers:    maxWorkers,
	}, nil
}

// ValidateRule compiles and validates a rule without mutating loaded engine rules.
func (e *Engine) ValidateRule(cfg *domain.ScreenRule) error {
	if cfg == nil {
		return fmt.Errorf("rule config is required")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	_, err := e.compileRule(cfg)
	return err
}

// LoadRule compiles and loads a rule into the engine.
func (e *Engine) LoadRule(cfg *domain.ScreenRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	compiled, err := e.compileRule(cfg)
	if err != nil {
		return err
	}

	e.compiledRules[cfg.ID] = compiled

	return nil
}

// LoadRules compiles and loads multiple rules.
func (e *Engine) LoadRules(configs []*domain.ScreenRule) error {
	for _, cfg := range configs {
		if cfg.Enabled {
			if err := e.LoadRule(cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// activation flattens a fused result into the registered CEL variables.
func activation(result *domain.FusedResult) map[string]any {
	return map[string]any{
		"profile": map[string]any{
			"tax_id":    result.TaxID,
			"name":      result.Profile.Name,
			"sector":    result.Profile.Sector,
			"province":  result.Enterprise.Province,
			"revenue":   result.Profile.Revenue,
			"authentic": result.Profile.Authentic,
		},
		"risk_score":             result.Risk.Score,
		"risk_level":             result.Risk.Level,
		"compliance_score":       result.Compliance.Score,
		"data_quality":           result.DataQuality,
		"integration_confidence": result.IntegrationConfidence,
		"real_data_pct":          result.RealDataPct,
		"employee_count":         int64(result.Employees.Total),
		"active_employee_count":  int64(result.Employees.Active),
		"average_salary":         result.Employees.AverageSalary,
		"contribution_count":     int64(result.Contributions.Total),
		"contribution_total":     result.Contributions.TotalAmount,
		"enterprise_authentic":   result.Enterprise.Authentic,
		"regulatory_authentic":   result.Regulatory.Authentic,
	}
}

// EvaluateAll evaluates all loaded rules against one fused result in
// parallel.
func (e *Engine) EvaluateAll(ctx context.Context, result *domain.FusedResult) ([]domain.ScreenRuleResult, error) {
	e.mu.RLock()
	rules := make([]*CompiledRule, 0, len(e.compiledRules))
	for _, rule := range e.compiledRules {
		rules = append(rules, rule)
	}
	e.mu.RUnlock()

	if len(rules) == 0 {
		return nil, nil
	}

	vars := activation(result)

	results := make([]domain.ScreenRuleResult, len(rules))
	var wg sync.WaitGroup

	sem := make(chan struct{}, e.maxWorkers)

	for i, rule := range rules {
		wg.Add(1)
		go func(idx int, r *CompiledRule) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = e.evaluateRule(r, vars, result.TaxID)
		}(i, rule)
	}

	wg.Wait()

	return results, nil
}

func (e *Engine) evaluateRule(rule *CompiledRule, vars map[string]any, taxID string) domain.ScreenRuleResult {
	start := time.Now()

	result := domain.ScreenRuleResult{
		RuleID: rule.Config.ID,
		TaxID:  taxID,
		Weight: rule.Config.Weight,
	}

	out, _, err := rule.Program.Eval(vars)
	if err != nil {
		result.SubRuleRef = domain.ScreenOutcomeError
		result.Reason = fmt.Sprintf("evaluation error: %v", err)
		result.ProcessMs = time.Since(start).Milliseconds()
		return result
	}

	score := toScore(out)
	result.Score = score

	result.SubRuleRef, result.Reason = matchBand(score, rule.Config.Bands)
	result.ProcessMs = time.Since(start).Milliseconds()

	return result
}

// toScore converts a CEL value to a numeric score.
func toScore(val ref.Val) float64 {
	switch v := val.(type) {
	case types.Bool:
		if v {
			return 1.0
		}
		return 0.0
	case types.Double:
		return float64(v)
	case types.Int:
		return float64(v)
	default:
		return 0.0
	}
}

// matchBand finds the matching band for a score.
// Bands are evaluated in order: lower inclusive, upper exclusive, a nil
// upper meaning infinity.
func matchBand(score float64, bands []domain.ScreenBand) (string, string) {
	for _, band := range bands {
		lower := 0.0
		hasUpper := band.UpperLimit != nil
		upper := float64(1e9)

		if band.LowerLimit != nil {
			lower = *band.LowerLimit
		}
		if hasUpper {
			upper = *band.UpperLimit
		}

		if score >= lower {
			if !hasUpper || score < upper {
				return band.SubRuleRef, band.Reason
			}
		}
	}

	return domain.ScreenOutcomePass, "no matching band"
}

// RulesCount returns the number of loaded rules.
func (e *Engine) RulesCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.compiledRules)
}

// ReloadRules clears all existing rules and loads new ones.
// This enables hot-reloading of rules from the database.
func (e *Engine) ReloadRules(configs []*domain.ScreenRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	newRules := make(map[string]*CompiledRule)

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		compiled, err := e.compileRule(cfg)
		if err != nil {
			return err
		}
		newRules[cfg.ID] = compiled
	}

	e.compiledRules = newRules

	return nil
}

// GetLoadedRules returns the currently loaded rule configurations.
func (e *Engine) GetLoadedRules() []*domain.ScreenRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := make([]*domain.ScreenRule, 0, len(e.compiledRules))
	for _, compiled := range e.compiledRules {
		rules = append(rules, compiled.Config)
	}
	return rules
}

// Close cleans up the engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compiledRules = make(map[string]*CompiledRule)
	return nil
}

func (e *Engine) compileRule(cfg *domain.ScreenRule) (*CompiledRule, error) {
	ast, issues := e.env.Compile(cfg.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile rule %s: %w", cfg.ID, issues.Err())
	}

	outputType := ast.OutputType()
	if outputType != cel.BoolType && outputType != cel.DoubleType && outputType != cel.IntType {
		return nil, fmt.Errorf("rule %s: expression must return bool, int, or double, got %s", cfg.ID, outputType)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for rule %s: %w", cfg.ID, err)
	}

	return &CompiledRule{
		Config:  cfg,
		Program: program,
	}, nil
}
