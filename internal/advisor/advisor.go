// Package advisor defines the AI maintenance advisor and the prompts shared by
// its adapters.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vbonduro/lubetrack/internal/domain"
)

// SystemPrompt is the shared instruction given to every backend.
const SystemPrompt = `You are an industrial maintenance expert specializing in tribology and
lubrication reliability. Give concise, actionable advice. When the user asks
about equipment listed in the context, analyze the data provided.`

// Snapshot is the read-only view of one piece of equipment sent to the model.
type Snapshot struct {
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Lubricant   string        `json:"lubricant"`
	NextDue     domain.Date   `json:"nextDue"`
	Status      domain.Status `json:"status"`
	DaysOverdue int           `json:"daysOverdue,omitempty"`
}

type Advisor interface {
	Advise(ctx context.Context, query string, fleet []Snapshot) (string, error)
	AnalyzeRisk(ctx context.Context, fleet []Snapshot) (string, error)
}

// AdvicePrompt combines the user question with the current equipment list.
func AdvicePrompt(query string, fleet []Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n", strings.TrimSpace(query))
	if len(fleet) > 0 {
		b.WriteString("\nContext - current equipment list:\n")
		b.WriteString(encode(fleet))
		b.WriteString("\n")
	}
	return b.String()
}

// RiskPrompt asks for an executive summary of the overdue equipment.
func RiskPrompt(fleet []Snapshot) string {
	type overdueEntry struct {
		Name        string `json:"name"`
		DaysOverdue int    `json:"daysOverdue"`
	}
	overdue := []overdueEntry{}
	for _, s := range fleet {
		if s.Status == domain.StatusOverdue {
			overdue = append(overdue, overdueEntry{Name: s.Name, DaysOverdue: s.DaysOverdue})
		}
	}

	var b strings.Builder
	b.WriteString("Analyze the following lubrication status:\n")
	fmt.Fprintf(&b, "Total equipment: %d\n", len(fleet))
	fmt.Fprintf(&b, "Overdue equipment: %d\n", len(overdue))
	fmt.Fprintf(&b, "Overdue details: %s\n\n", encode(overdue))
	b.WriteString("Provide a short bulleted executive summary that rates the risk level and recommends immediate actions.")
	return b.String()
}

func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}
