// Package ask implements the query capability guarded by the gateway.
// The current responder is a mock: it echoes the question and, when the
// question hints at a visualization, attaches a canned chart payload.
package ask

import (
	"fmt"
	"strings"

	"github.com/dmartins/askgate/internal/server/auth"
)

// Chart is a Chart.js-compatible visualization payload. Datasets stay
// loosely typed so the frontend decides how to render them.
type Chart struct {
	Type     string           `json:"type"`
	Title    string           `json:"title"`
	Labels   []string         `json:"labels"`
	Datasets []map[string]any `json:"datasets"`
}

// Response is the answer returned to an authenticated caller.
type Response struct {
	OK     bool           `json:"ok"`
	Answer string         `json:"answer"`
	Chart  *Chart         `json:"chart,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// chartKeywords trigger the mock chart payload. The list mirrors what the
// frontend's users actually type, hence the Portuguese entries.
var chartKeywords = []string{
	"grafico", "gráfico", "chart", "plot", "barra", "linha", "pizza", "mapa",
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Answer produces a mock response for the question on behalf of identity.
// The question is expected to be non-empty; the transport layer validates that.
func (s *Service) Answer(identity *auth.Identity, question string) *Response {
	q := strings.TrimSpace(question)

	answer := fmt.Sprintf(
		"Understood your question: %q.\nAuthenticated as %s (role=%s).\nCurrent mode: mock, no BI engine attached.",
		q, identity.Username, identity.Role,
	)

	var chart *Chart
	if wantsChart(q) {
		chart = &Chart{
			Type:   "bar",
			Title:  "Example (mock) - top 5 categories",
			Labels: []string{"A", "B", "C", "D", "E"},
			Datasets: []map[string]any{
				{"label": "Count", "data": []int{12, 9, 7, 5, 3}},
			},
		}
		answer += "\nAlso produced a mock chart payload."
	}

	return &Response{
		OK:     true,
		Answer: answer,
		Chart:  chart,
		Meta:   map[string]any{"mode": "mock", "user_id": identity.ID},
	}
}

func wantsChart(question string) bool {
	q := strings.ToLower(question)
	for _, keyword := range chartKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	return false
}
