package metrics

import (
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
)

type columnSum struct {
	total   float64
	cells   int
	missing int
}

func (s *columnSum) add(o columnSum) {
	s.total += o.total
	s.cells += o.cells
	s.missing += o.missing
}

// sumColumns adds the numeric cells of the given columns over all rows, chunk by chunk.
// Empty and non-numeric cells count as missing.
func sumColumns(rows []domain.Row, columns []string, chunkSize int) columnSum {
	if chunkSize <= 0 {
		chunkSize = len(rows)
	}
	var res columnSum
	for start := 0; start < len(rows); start += chunkSize {
		end := min(start+chunkSize, len(rows))
		res.add(sumChunk(rows[start:end], columns))
	}
	return res
}

func sumChunk(rows []domain.Row, columns []string) columnSum {
	var res columnSum
	for _, row := range rows {
		s := rowSum(row, columns)
		res.add(s)
	}
	return res
}

func rowSum(row domain.Row, columns []string) columnSum {
	var res columnSum
	for _, col := range columns {
		res.cells++
		v := row[col]
		if !v.IsNumber() {
			res.missing++
			continue
		}
		res.total += v.Number
	}
	return res
}

type jurisdictionAcc struct {
	name     string
	revenue  float64
	expenses float64
	taxes    float64
	rows     int
}

// groupByJurisdiction aggregates per jurisdiction in first-appearance order. Rows with an empty
// jurisdiction value land in the unallocated accumulator.
func groupByJurisdiction(rows []domain.Row, column string, revenue, expenses, taxes []string) ([]*jurisdictionAcc, *jurisdictionAcc) {
	index := map[string]*jurisdictionAcc{}
	var ordered []*jurisdictionAcc
	var unallocated *jurisdictionAcc

	for _, row := range rows {
		var acc *jurisdictionAcc
		name := ""
		if column != "" {
			name = row[column].String()
		}
		if name == "" {
			if unallocated == nil {
				unallocated = &jurisdictionAcc{}
			}
			acc = unallocated
		} else {
			acc = index[name]
			if acc == nil {
				acc = &jurisdictionAcc{name: name}
				index[name] = acc
				ordered = append(ordered, acc)
			}
		}
		acc.rows++
		acc.revenue += rowSum(row, revenue).total
		acc.expenses += rowSum(row, expenses).total
		acc.taxes += rowSum(row, taxes).total
	}
	return ordered, unallocated
}

func countDistinct(rows []domain.Row, column string) int {
	seen := map[string]struct{}{}
	for _, row := range rows {
		if v := row[column]; !v.IsEmpty() {
			seen[v.String()] = struct{}{}
		}
	}
	return len(seen)
}
