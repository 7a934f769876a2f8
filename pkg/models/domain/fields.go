package domain

import "sort"

type Field string

const (
	FieldRevenue      Field = "revenue"
	FieldExpense      Field = "expense"
	FieldTax          Field = "tax"
	FieldTopUpTax     Field = "top_up_tax"
	FieldJurisdiction Field = "jurisdiction"
	FieldEntity       Field = "entity"
)

type MatchStrategy string

const (
	MatchExactName    MatchStrategy = "exact_name"
	MatchSynonym      MatchStrategy = "synonym"
	MatchValuePattern MatchStrategy = "value_pattern"
)

type FieldResolution struct {
	Field      Field
	Columns    []string
	Strategy   MatchStrategy
	Confidence float64
	// Estimated is set when the column was inferred from its values rather than its name.
	Estimated bool
}

// ResolvedFields maps canonical fields onto source columns. It cannot be modified after construction.
type ResolvedFields struct {
	fields      map[Field]FieldResolution
	adjustments []AdjustmentColumn
}

func NewResolvedFields(resolutions ...FieldResolution) ResolvedFields {
	fields := make(map[Field]FieldResolution, len(resolutions))
	for _, r := range resolutions {
		r.Columns = append([]string(nil), r.Columns...)
		fields[r.Field] = r
	}
	return ResolvedFields{fields: fields}
}

// WithAdjustments returns a copy carrying the given adjustment columns.
func (rf ResolvedFields) WithAdjustments(cols []AdjustmentColumn) ResolvedFields {
	rf.adjustments = append([]AdjustmentColumn(nil), cols...)
	return rf
}

func (rf ResolvedFields) Adjustments() []AdjustmentColumn {
	return append([]AdjustmentColumn(nil), rf.adjustments...)
}

func (rf ResolvedFields) Get(field Field) (FieldResolution, bool) {
	r, ok := rf.fields[field]
	if !ok {
		return FieldResolution{}, false
	}
	r.Columns = append([]string(nil), r.Columns...)
	return r, true
}

func (rf ResolvedFields) Has(field Field) bool {
	_, ok := rf.fields[field]
	return ok
}

// Columns returns the source columns for a field, nil when unresolved.
func (rf ResolvedFields) Columns(field Field) []string {
	r, ok := rf.fields[field]
	if !ok {
		return nil
	}
	return append([]string(nil), r.Columns...)
}

// Column returns the first source column for single-column fields.
func (rf ResolvedFields) Column(field Field) string {
	r, ok := rf.fields[field]
	if !ok || len(r.Columns) == 0 {
		return ""
	}
	return r.Columns[0]
}

// All returns the resolutions sorted by field name.
func (rf ResolvedFields) All() []FieldResolution {
	res := make([]FieldResolution, 0, len(rf.fields))
	for _, r := range rf.fields {
		r.Columns = append([]string(nil), r.Columns...)
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Field < res[j].Field })
	return res
}
