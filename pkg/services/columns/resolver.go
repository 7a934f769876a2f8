package columns

import (
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
)

type Resolver interface {
	Resolve(ds *domain.Dataset) (domain.ResolvedFields, error)
}

type resolver struct {
	settings Settings
	matchers []Matcher
}

// NewResolver creates a resolver running exact-name, synonym and value-pattern matching in that order.
func NewResolver(settings Settings) Resolver {
	return &resolver{
		settings: settings,
		matchers: []Matcher{
			exactNameMatcher{},
			synonymMatcher{},
			valuePatternMatcher{
				numericShare:          settings.NumericShare,
				maxJurisdictionValues: settings.MaxJurisdictionValues,
			},
		},
	}
}

// Resolve maps dataset columns onto canonical fields. Strategies run in priority order across all
// fields, so a name match for any field always beats a value-pattern guess.
func (r *resolver) Resolve(ds *domain.Dataset) (domain.ResolvedFields, error) {
	if err := ds.Validate(); err != nil {
		return domain.ResolvedFields{}, err
	}

	profiles := profileColumns(ds)
	taken := map[string]bool{}
	resolved := map[domain.Field]domain.FieldResolution{}

	for _, matcher := range r.matchers {
		for _, spec := range r.settings.Specs {
			prev, done := resolved[spec.Field]
			// multi-column fields keep collecting name matches from later strategies
			if done && (!spec.Multi || matcher.Strategy() == domain.MatchValuePattern) {
				continue
			}

			available := untaken(profiles, taken, spec.Numeric, r.settings.NumericShare)
			candidates := matcher.Match(spec, available)
			res, ok := r.pick(spec, matcher.Strategy(), candidates)
			if !ok {
				continue
			}
			for _, col := range res.Columns {
				taken[col] = true
			}
			if done {
				prev.Columns = append(prev.Columns, res.Columns...)
				res = prev
			}
			resolved[spec.Field] = res
		}
	}

	out := make([]domain.FieldResolution, 0, len(resolved))
	for _, res := range resolved {
		out = append(out, res)
	}
	adjustments := detectAdjustments(profiles, r.settings.Adjustments, r.settings.NumericShare)
	return domain.NewResolvedFields(out...).WithAdjustments(adjustments), nil
}

func (r *resolver) pick(spec FieldSpec, strategy domain.MatchStrategy, candidates []Candidate) (domain.FieldResolution, bool) {
	res := domain.FieldResolution{
		Field:     spec.Field,
		Strategy:  strategy,
		Estimated: strategy == domain.MatchValuePattern,
	}
	seen := map[string]bool{}
	for _, c := range candidates {
		if c.Confidence < r.settings.MinConfidence || seen[c.Column] {
			continue
		}
		seen[c.Column] = true
		if len(res.Columns) == 0 {
			res.Confidence = c.Confidence
		}
		res.Columns = append(res.Columns, c.Column)
		if !spec.Multi {
			break
		}
	}
	return res, len(res.Columns) > 0
}

// untaken filters out claimed columns and, for numeric fields, columns that hold mostly text.
// Columns without any values stay eligible so an all-empty tax column is still recognised.
func untaken(profiles []ColumnProfile, taken map[string]bool, numeric bool, share float64) []ColumnProfile {
	out := make([]ColumnProfile, 0, len(profiles))
	for _, p := range profiles {
		if taken[p.Name] {
			continue
		}
		if numeric && p.NonEmpty > 0 && p.NumericShare() < share {
			continue
		}
		out = append(out, p)
	}
	return out
}

func profileColumns(ds *domain.Dataset) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(ds.Columns))
	for _, name := range ds.Columns {
		norm := NormalizeColumnName(name)
		p := ColumnProfile{
			Name:       name,
			Normalized: norm,
			Tokens:     tokens(norm),
		}
		distinct := map[string]struct{}{}
		textLen := 0
		for _, row := range ds.Rows {
			v := row[name]
			if v.IsEmpty() {
				continue
			}
			p.NonEmpty++
			if v.IsNumber() {
				p.Numeric++
				p.Total += v.Number
				if v.Number < 0 {
					p.Negative = true
				}
				continue
			}
			s := v.String()
			distinct[s] = struct{}{}
			textLen += len([]rune(s))
		}
		p.Distinct = len(distinct)
		if text := p.NonEmpty - p.Numeric; text > 0 {
			p.AvgTextLen = float64(textLen) / float64(text)
		}
		profiles = append(profiles, p)
	}
	return profiles
}
