package domain

import "strings"

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "low"
	}
}

type Category string

const (
	CategoryTax        Category = "tax"
	CategoryFinancial  Category = "financial"
	CategoryCompliance Category = "compliance"
	CategoryGeneral    Category = "general"
)

type Recommendation struct {
	ID       string
	Category Category
	Severity Severity
	Text     Text
}

// RenderRecommendations renders recommendations in order for one language.
func RenderRecommendations(recs []Recommendation, lang Language) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Text.Render(lang))
	}
	return out
}

// ParseSeverity reads a severity name case-insensitively.
func ParseSeverity(s string) (Severity, bool) {
	for _, sev := range []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		if strings.EqualFold(strings.TrimSpace(s), sev.String()) {
			return sev, true
		}
	}
	return SeverityLow, false
}

// FilterRecommendations keeps the recommendations at or above minimum, in order.
func FilterRecommendations(recs []Recommendation, minimum Severity) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.Severity >= minimum {
			out = append(out, r)
		}
	}
	return out
}
