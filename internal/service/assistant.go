package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/lubetrack/internal/advisor"
	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/metrics"
)

// Apology is returned in place of advice whenever the advisor cannot answer.
const Apology = "Sorry, the maintenance assistant is unavailable right now. Please try again later."

// Assistant asks the AI advisor about the current fleet. It never changes
// ledger state and never reports advisor failures to the caller.
type Assistant struct {
	equipment *EquipmentLedger
	advisor   advisor.Advisor
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func (a *Assistant) Advise(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	return a.ask(ctx, "advice", func(fleet []advisor.Snapshot) (string, error) {
		return a.advisor.Advise(ctx, query, fleet)
	}), nil
}

// AnalyzeRisk asks for a summary of overdue equipment.
func (a *Assistant) AnalyzeRisk(ctx context.Context) (string, error) {
	return a.ask(ctx, "risk", func(fleet []advisor.Snapshot) (string, error) {
		return a.advisor.AnalyzeRisk(ctx, fleet)
	}), nil
}

func (a *Assistant) ask(ctx context.Context, kind string, call func([]advisor.Snapshot) (string, error)) string {
	if a.advisor == nil {
		a.metrics.AdvisorRequest(kind, "disabled")
		return Apology
	}

	fleet, err := a.equipment.Snapshots(ctx, domain.DateOf(a.now()))
	if err != nil {
		a.metrics.AdvisorRequest(kind, "error")
		a.logger.Error("failed to build advisor context", "kind", kind, "error", err)
		return Apology
	}

	start := time.Now()
	answer, err := call(fleet)
	if err != nil {
		a.metrics.AdvisorRequest(kind, "error")
		a.logger.Error("advisor request failed", "kind", kind, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return Apology
	}

	a.metrics.AdvisorRequest(kind, "ok")
	a.logger.Info("advisor request complete", "kind", kind, "fleet_size", len(fleet), "duration_ms", time.Since(start).Milliseconds())
	return answer
}
