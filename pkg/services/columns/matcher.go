package columns

import (
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
)

// ColumnProfile is the per-column view the matchers work on.
type ColumnProfile struct {
	Name       string
	Normalized string
	Tokens     []string
	NonEmpty   int
	Numeric    int
	Distinct   int
	Negative   bool
	Total      float64
	AvgTextLen float64
}

func (c ColumnProfile) NumericShare() float64 {
	if c.NonEmpty == 0 {
		return 0
	}
	return float64(c.Numeric) / float64(c.NonEmpty)
}

func (c ColumnProfile) TextShare() float64 {
	if c.NonEmpty == 0 {
		return 0
	}
	return float64(c.NonEmpty-c.Numeric) / float64(c.NonEmpty)
}

type Candidate struct {
	Column     string
	Confidence float64
}

// Matcher is one column matching strategy. Candidates are returned best first.
type Matcher interface {
	Strategy() domain.MatchStrategy
	Match(spec FieldSpec, columns []ColumnProfile) []Candidate
}

type exactNameMatcher struct{}

func (exactNameMatcher) Strategy() domain.MatchStrategy { return domain.MatchExactName }

func (exactNameMatcher) Match(spec FieldSpec, columns []ColumnProfile) []Candidate {
	var res []Candidate
	for _, name := range spec.Exact {
		for _, col := range columns {
			if col.Normalized == name {
				res = append(res, Candidate{Column: col.Name, Confidence: 1.0})
			}
		}
	}
	return res
}

type synonymMatcher struct{}

func (synonymMatcher) Strategy() domain.MatchStrategy { return domain.MatchSynonym }

func (synonymMatcher) Match(spec FieldSpec, columns []ColumnProfile) []Candidate {
	var res []Candidate
	seen := map[string]bool{}
	for _, syn := range spec.Synonyms {
		for _, col := range columns {
			if seen[col.Name] || !containsTerm(col.Normalized, col.Tokens, syn) {
				continue
			}
			if excluded(spec, col) {
				continue
			}
			seen[col.Name] = true
			res = append(res, Candidate{Column: col.Name, Confidence: 0.8})
		}
	}
	return res
}

func excluded(spec FieldSpec, col ColumnProfile) bool {
	for _, ex := range spec.Exclude {
		if containsTerm(col.Normalized, col.Tokens, ex) {
			return true
		}
	}
	return false
}

// valuePatternMatcher infers a column from its contents when no header matched.
type valuePatternMatcher struct {
	numericShare          float64
	maxJurisdictionValues int
}

func (valuePatternMatcher) Strategy() domain.MatchStrategy { return domain.MatchValuePattern }

func (m valuePatternMatcher) Match(spec FieldSpec, columns []ColumnProfile) []Candidate {
	switch spec.Field {
	case domain.FieldRevenue:
		return m.matchRevenue(columns)
	case domain.FieldJurisdiction:
		return m.matchJurisdiction(columns)
	default:
		return nil
	}
}

// identifierTerms mark numeric columns that are never amounts.
var identifierTerms = []string{"year", "id", "code", "rate", "etr", "percent", "count", "שנה", "שיעור", "מספר"}

// matchRevenue picks the non-negative numeric column with the largest total.
func (m valuePatternMatcher) matchRevenue(columns []ColumnProfile) []Candidate {
	var best *ColumnProfile
	for i := range columns {
		col := &columns[i]
		if col.NonEmpty == 0 || col.Negative || col.Total <= 0 || col.NumericShare() < m.numericShare {
			continue
		}
		if isIdentifier(col) {
			continue
		}
		if best == nil || col.Total > best.Total {
			best = col
		}
	}
	if best == nil {
		return nil
	}
	return []Candidate{{Column: best.Name, Confidence: 0.4}}
}

// matchJurisdiction picks the first short-valued text column with few distinct values.
func (m valuePatternMatcher) matchJurisdiction(columns []ColumnProfile) []Candidate {
	for _, col := range columns {
		if col.NonEmpty == 0 || col.TextShare() < m.numericShare {
			continue
		}
		if col.Distinct > m.maxJurisdictionValues || col.AvgTextLen > 32 {
			continue
		}
		return []Candidate{{Column: col.Name, Confidence: 0.4}}
	}
	return nil
}

func isIdentifier(col *ColumnProfile) bool {
	for _, term := range identifierTerms {
		if containsTerm(col.Normalized, col.Tokens, term) {
			return true
		}
	}
	return false
}
