package metrics

import (
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
)

type Engine interface {
	Compute(ds *domain.Dataset, fields domain.ResolvedFields) domain.Metrics
}

type engine struct {
	settings Settings
}

func NewEngine(settings Settings) Engine {
	return &engine{settings: settings}
}

// Compute derives the summary, the jurisdiction breakdown and the decision trail. It never fails:
// missing inputs are recorded as estimation flags.
func (e *engine) Compute(ds *domain.Dataset, fields domain.ResolvedFields) domain.Metrics {
	var m domain.Metrics
	rows := ds.Rows

	revenueCols := fields.Columns(domain.FieldRevenue)
	expenseCols := fields.Columns(domain.FieldExpense)
	taxCols := fields.Columns(domain.FieldTax)

	revenue, revenueTrail := e.figure(rows, fields, domain.FieldRevenue)
	expenses, expenseTrail := e.figure(rows, fields, domain.FieldExpense)
	pretax := revenue - expenses

	taxes, taxTrail := e.taxes(rows, fields, pretax)

	s := domain.Summary{
		Revenue:           revenue,
		Expenses:          expenses,
		Taxes:             taxes,
		NetProfit:         revenue - expenses - taxes,
		Rows:              len(rows),
		EstimatedRevenue:  revenueTrail.Estimated,
		EstimatedExpenses: expenseTrail.Estimated,
		EstimatedTaxes:    taxTrail.Estimated || !fields.Has(domain.FieldTax),
	}

	m.Trail.Revenue = revenueTrail
	m.Trail.Expenses = expenseTrail
	m.Trail.Taxes = taxTrail
	m.Trail.NetProfit = domain.FigureTrail{
		Method:    domain.MethodDerived,
		Estimated: revenueTrail.Estimated || expenseTrail.Estimated || s.EstimatedTaxes,
	}

	if revenue > 0 {
		s.TaxRate = taxes / revenue * 100
		s.ProfitMargin = s.NetProfit / revenue * 100
		m.Trail.TaxRate = domain.FigureTrail{Method: domain.MethodRatio, Estimated: s.EstimatedTaxes}
		m.Trail.ProfitMargin = domain.FigureTrail{Method: domain.MethodRatio, Estimated: m.Trail.NetProfit.Estimated}
	} else {
		s.EstimatedTaxes = true
		m.Trail.TaxRate = domain.FigureTrail{Method: domain.MethodNotApplicable, Estimated: true}
		m.Trail.ProfitMargin = domain.FigureTrail{Method: domain.MethodNotApplicable, Estimated: true}
	}
	m.Trail.Taxes.Estimated = s.EstimatedTaxes

	if pretax > 0 {
		s.OverallETR = taxes / pretax * 100
	}

	if taxes == 0 {
		s.ZeroTaxCause = zeroTaxCause(fields, revenue)
	}

	if col := fields.Column(domain.FieldTopUpTax); col != "" {
		s.TopUpTax = sumColumns(rows, []string{col}, e.settings.ChunkSize).total
	}

	if col := fields.Column(domain.FieldEntity); col != "" {
		s.Entities = countDistinct(rows, col)
	} else {
		s.Entities = len(rows)
	}

	jurisdictionCol := fields.Column(domain.FieldJurisdiction)
	groups, unallocated := groupByJurisdiction(rows, jurisdictionCol, revenueCols, expenseCols, taxCols)
	for _, g := range groups {
		m.Jurisdictions = append(m.Jurisdictions, e.jurisdiction(g, taxTrail))
	}
	if unallocated != nil {
		u := e.jurisdiction(unallocated, taxTrail)
		m.Unallocated = &u
	}
	s.Jurisdictions = len(m.Jurisdictions)

	e.averageETR(&s, &m)
	m.Trail.ETR.Columns = nonEmpty(jurisdictionCol)
	m.Adjustments, m.Trail.Adjustments = e.adjustments(rows, fields.Adjustments(), pretax)
	m.Summary = s
	return m
}

// adjustments sums each adjustment column and applies the net effect to pretax profit. Columns
// summing to zero are dropped; with nothing left the result is nil.
func (e *engine) adjustments(rows []domain.Row, cols []domain.AdjustmentColumn, pretax float64) (*domain.TaxAdjustments, domain.FigureTrail) {
	trail := domain.FigureTrail{Method: domain.MethodNotApplicable, Base: pretax, Rate: e.settings.DefaultTaxRate}
	if len(cols) == 0 {
		return nil, trail
	}

	adj := &domain.TaxAdjustments{PretaxProfit: pretax, Rate: e.settings.DefaultTaxRate}
	for _, col := range cols {
		sum := sumColumns(rows, []string{col.Column}, e.settings.ChunkSize)
		trail.Cells += sum.cells
		trail.MissingCells += sum.missing
		if sum.total == 0 {
			continue
		}
		item := domain.Adjustment{Kind: col.Kind, Direction: col.Direction, Column: col.Column, Amount: sum.total}
		if item.Effect() < 0 {
			adj.Deductions -= item.Effect()
		} else {
			adj.Income += item.Effect()
		}
		adj.Items = append(adj.Items, item)
		trail.Columns = append(trail.Columns, col.Column)
	}
	if len(adj.Items) == 0 {
		return nil, trail
	}

	adj.AdjustedIncome = pretax + adj.Net()
	adj.TaxImpact = adj.Net() * adj.Rate
	if adj.AdjustedIncome > 0 {
		adj.Liability = adj.AdjustedIncome * adj.Rate
	}
	trail.Method = domain.MethodAdjustedIncome
	trail.Estimated = true
	return adj, trail
}

// figure sums a resolved numeric field and records how it was obtained.
func (e *engine) figure(rows []domain.Row, fields domain.ResolvedFields, field domain.Field) (float64, domain.FigureTrail) {
	res, ok := fields.Get(field)
	if !ok {
		return 0, domain.FigureTrail{Method: domain.MethodNotApplicable, Estimated: true}
	}

	sum := sumColumns(rows, res.Columns, e.settings.ChunkSize)
	trail := domain.FigureTrail{
		Method:       domain.MethodDirectSum,
		Columns:      res.Columns,
		Cells:        sum.cells,
		MissingCells: sum.missing,
	}
	if res.Estimated {
		trail.Method = domain.MethodInferredColumn
	}
	trail.Estimated = res.Estimated || trail.MissingShare() > e.settings.MissingCellThreshold
	return sum.total, trail
}

// taxes selects the tax branch: direct sum, present-but-zero, default-rate estimate or not applicable.
func (e *engine) taxes(rows []domain.Row, fields domain.ResolvedFields, pretax float64) (float64, domain.FigureTrail) {
	if fields.Has(domain.FieldTax) {
		total, trail := e.figure(rows, fields, domain.FieldTax)
		if total == 0 {
			trail.Method = domain.MethodDirectSumZero
		}
		return total, trail
	}

	if e.settings.EstimateMissingTaxes && pretax > 0 {
		return pretax * e.settings.DefaultTaxRate, domain.FigureTrail{
			Method:    domain.MethodEstimatedDefaultRate,
			Estimated: true,
			Base:      pretax,
			Rate:      e.settings.DefaultTaxRate,
		}
	}
	return 0, domain.FigureTrail{Method: domain.MethodNotApplicable, Estimated: true, Base: pretax}
}

func (e *engine) jurisdiction(acc *jurisdictionAcc, taxTrail domain.FigureTrail) domain.JurisdictionMetrics {
	j := domain.JurisdictionMetrics{
		Name:         acc.name,
		Revenue:      acc.revenue,
		Expenses:     acc.expenses,
		Taxes:        acc.taxes,
		PretaxProfit: acc.revenue - acc.expenses,
		Rows:         acc.rows,
	}
	if taxTrail.Method == domain.MethodEstimatedDefaultRate {
		j.Taxes = 0
		if j.PretaxProfit > 0 {
			j.Taxes = j.PretaxProfit * taxTrail.Rate
		}
	}
	if j.PretaxProfit > 0 {
		j.ETR = j.Taxes / j.PretaxProfit * 100
		j.ETRMeaningful = true
	}
	return j
}

// averageETR averages meaningful jurisdiction ETRs; jurisdictions with non-positive pretax
// profit are excluded from the denominator.
func (e *engine) averageETR(s *domain.Summary, m *domain.Metrics) {
	var total float64
	count := 0
	for _, j := range m.Jurisdictions {
		if !j.ETRMeaningful {
			m.Trail.ExcludedJurisdictions = append(m.Trail.ExcludedJurisdictions, j.Name)
			continue
		}
		if count == 0 || j.ETR < s.MinETR {
			s.MinETR = j.ETR
		}
		if count == 0 || j.ETR > s.MaxETR {
			s.MaxETR = j.ETR
		}
		total += j.ETR
		count++
	}

	m.Trail.MeaningfulJurisdictions = count
	if count == 0 {
		s.AverageETR = 0
		m.Trail.ETR = domain.FigureTrail{Method: domain.MethodNotApplicable, Estimated: true}
		return
	}
	s.AverageETR = total / float64(count)
	m.Trail.ETR = domain.FigureTrail{
		Method:    domain.MethodJurisdictionMean,
		Cells:     len(m.Jurisdictions),
		Estimated: s.EstimatedTaxes,
	}
}

func zeroTaxCause(fields domain.ResolvedFields, revenue float64) domain.ZeroTaxCause {
	switch {
	case !fields.Has(domain.FieldTax):
		return domain.ZeroTaxNoColumn
	case revenue <= 0:
		return domain.ZeroTaxNoRevenue
	default:
		return domain.ZeroTaxValuesZero
	}
}

func nonEmpty(col string) []string {
	if col == "" {
		return nil
	}
	return []string{col}
}
