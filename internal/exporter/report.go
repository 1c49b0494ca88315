package exporter

import (
	"time"

	"creditdensity/internal/creditrisk"
	"creditdensity/internal/riskmetrics"
	api "creditdensity/pkg/contracts/api/v1"
)

// Report is one density computation ready for export
type Report struct {
	Parameters creditrisk.PortfolioParameters
	// Loans is the explicit loan book, nil for the aggregate loan.
	Loans       []creditrisk.Loan
	Elements    []api.DensityElement
	Measures    *riskmetrics.Measures // nil when no risk summary was computed
	GeneratedAt time.Time
}

var (
	densityHeaders  = []string{"atPoint", "density"}
	measureHeaders  = []string{"measure", "value"}
	parameterHeader = []string{"parameter", "value"}
)

func (r *Report) densityRecords() [][]string {
	records := make([][]string, 0, len(r.Elements))
	for _, e := range r.Elements {
		records = append(records, []string{formatFloat(e.AtPoint), formatFloat(e.Density)})
	}
	return records
}

func (r *Report) measureRecords() [][]string {
	if r.Measures == nil {
		return nil
	}
	m := r.Measures
	return [][]string{
		{"alpha", formatFloat(m.Alpha)},
		{"mass", formatFloat(m.Mass)},
		{"expectedLoss", formatFloat(m.ExpectedLoss)},
		{"valueAtRisk", formatFloat(m.ValueAtRisk)},
		{"expectedShortfall", formatFloat(m.ExpectedShortfall)},
		{"economicCapital", formatFloat(m.EconomicCapital)},
	}
}

func (r *Report) parameterRecords() [][]string {
	p := r.Parameters
	if len(r.Loans) > 0 {
		return [][]string{
			{"lambda", formatFloat(p.Lambda)},
			{"q", formatFloat(p.Q)},
			{"numU", formatInt(p.NumU)},
			{"loanRecords", formatInt(len(r.Loans))},
			{"bookExpectedLoss", formatFloat(creditrisk.ExpectedLoss(r.Loans))},
			{"volatility", formatFloat(p.Volatility)},
			{"xMin", formatFloat(p.BookXMin(r.Loans))},
			{"generatedAt", r.GeneratedAt.UTC().Format(time.RFC3339)},
		}
	}
	return [][]string{
		{"lambda", formatFloat(p.Lambda)},
		{"q", formatFloat(p.Q)},
		{"numU", formatInt(p.NumU)},
		{"pd", formatFloat(p.PD)},
		{"numLoans", formatFloat(p.NumLoans)},
		{"volatility", formatFloat(p.Volatility)},
		{"xMin", formatFloat(p.XMin())},
		{"generatedAt", r.GeneratedAt.UTC().Format(time.RFC3339)},
	}
}
