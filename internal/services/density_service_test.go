package services

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"creditdensity/internal/creditrisk"
	apierrors "creditdensity/internal/errors"
	"creditdensity/internal/infrastructure"
	"creditdensity/internal/riskmetrics"
	"creditdensity/internal/shared/testutil"
)

func scenarioParameters() creditrisk.PortfolioParameters {
	return creditrisk.PortfolioParameters{
		Lambda:     0.05,
		Q:          0.05,
		NumU:       128,
		PD:         0.02,
		NumLoans:   100000,
		Volatility: 0.5,
	}
}

func TestDensityServiceScenario(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	svc := NewDensityService(logger, nil, 0)

	result, err := svc.Compute(context.Background(), scenarioParameters())
	require.NoError(t, err)

	require.Len(t, result.AtPoint, creditrisk.NumX)
	require.Len(t, result.Density, creditrisk.NumX)
	assert.InDelta(t, testutil.ScenarioXMin, result.XMin, 1e-6)
	assert.InDelta(t, -15000.0, result.AtPoint[0], 1e-6)
	assert.InDelta(t, 0.0, result.AtPoint[creditrisk.NumX-1], 1e-9)
	assert.False(t, floats.HasNaN(result.Density))
	assert.Zero(t, result.NonFinite)

	for i := 1; i < len(result.AtPoint); i++ {
		assert.GreaterOrEqual(t, result.AtPoint[i], result.AtPoint[i-1])
	}

	mass := integrate.Trapezoidal(result.AtPoint, result.Density)
	assert.InDelta(t, 1.0, mass, 0.05)

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "density computed")
	testutil.AssertLogAttr(t, logs, "component", "density_service")
	testutil.AssertLogAttr(t, logs, "num_x", int64(creditrisk.NumX))
}

func TestDensityServiceElements(t *testing.T) {
	svc := NewDensityService(slog.Default(), nil, 2)

	result, err := svc.Compute(context.Background(), scenarioParameters())
	require.NoError(t, err)

	elements := result.Elements()
	require.Len(t, elements, creditrisk.NumX)
	for i, e := range elements {
		assert.Equal(t, result.AtPoint[i], e.AtPoint)
		assert.Equal(t, result.Density[i], e.Density)
	}
}

func TestDensityServiceDegenerateInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*creditrisk.PortfolioParameters)
		check  func(*testing.T, *DensityResult)
	}{
		{
			name:   "single frequency",
			mutate: func(p *creditrisk.PortfolioParameters) { p.NumU = 1 },
			check: func(t *testing.T, r *DensityResult) {
				// only the halved k=0 term survives: a flat density 1/(xMax-xMin)
				for _, d := range r.Density {
					assert.InDelta(t, 1/15000.0, d, 1e-12)
				}
			},
		},
		{
			name:   "no frequencies",
			mutate: func(p *creditrisk.PortfolioParameters) { p.NumU = 0 },
			check: func(t *testing.T, r *DensityResult) {
				for _, d := range r.Density {
					assert.Equal(t, 0.0, d)
				}
			},
		},
		{
			name:   "zero volatility",
			mutate: func(p *creditrisk.PortfolioParameters) { p.Volatility = 0 },
			check: func(t *testing.T, r *DensityResult) {
				assert.Zero(t, r.NonFinite)
			},
		},
		{
			name:   "no loans",
			mutate: func(p *creditrisk.PortfolioParameters) { p.NumLoans = 0 },
			check: func(t *testing.T, r *DensityResult) {
				assert.Equal(t, 0.0, r.XMin)
				assert.Positive(t, r.NonFinite)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := scenarioParameters()
			tt.mutate(&params)

			result, err := NewDensityService(slog.Default(), nil, 0).Compute(context.Background(), params)
			require.NoError(t, err)
			require.Len(t, result.Density, creditrisk.NumX)
			tt.check(t, result)
		})
	}
}

func TestDensityServiceDeterministic(t *testing.T) {
	params := scenarioParameters()

	first, err := NewDensityService(slog.Default(), nil, 1).Compute(context.Background(), params)
	require.NoError(t, err)

	for _, workers := range []int{1, 3, 8} {
		again, err := NewDensityService(slog.Default(), nil, workers).Compute(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, first.Density, again.Density, "workers=%d", workers)
	}
}

func TestDensityServiceNegativeNumU(t *testing.T) {
	params := scenarioParameters()
	params.NumU = -1

	_, err := NewDensityService(slog.Default(), nil, 0).Compute(context.Background(), params)

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeValidation, appErr.Type)
}

func TestDensityServiceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDensityService(slog.Default(), nil, 0).Compute(ctx, scenarioParameters())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDensityServiceComputeRisk(t *testing.T) {
	svc := NewDensityService(slog.Default(), nil, 0)

	result, measures, err := svc.ComputeRisk(context.Background(), scenarioParameters(), 0.99)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 0.99, measures.Alpha)
	assert.InDelta(t, 1.0, measures.Mass, 0.05)
	assert.Positive(t, measures.ExpectedLoss)
	assert.Less(t, measures.ExpectedLoss, measures.ValueAtRisk)
	assert.LessOrEqual(t, measures.ValueAtRisk, measures.ExpectedShortfall+1e-6)
	assert.InDelta(t, measures.ValueAtRisk-measures.ExpectedLoss, measures.EconomicCapital, 1e-9)
	assert.LessOrEqual(t, measures.ValueAtRisk, -result.XMin)
}

func TestDensityServiceComputeRiskErrors(t *testing.T) {
	svc := NewDensityService(slog.Default(), nil, 0)

	t.Run("invalid alpha", func(t *testing.T) {
		_, _, err := svc.ComputeRisk(context.Background(), scenarioParameters(), 1.5)

		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)
	})

	t.Run("degenerate density", func(t *testing.T) {
		params := scenarioParameters()
		params.NumU = 0

		_, _, err := svc.ComputeRisk(context.Background(), params, 0.99)

		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, apierrors.CodeUnprocessable, apiErr.ErrorCode)
	})
}

func TestDensityServiceMeasuresGridErrors(t *testing.T) {
	svc := NewDensityService(slog.Default(), nil, 0)

	tests := []struct {
		name    string
		xs      []float64
		density []float64
		target  error
	}{
		{"length mismatch", []float64{-1, 0}, []float64{1}, riskmetrics.ErrGridMismatch},
		{"single point", []float64{0}, []float64{1}, riskmetrics.ErrGridTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.measures(context.Background(), tt.xs, tt.density, 0.99)

			var appErr *apierrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apierrors.ErrTypeComputation, appErr.Type)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, len(tt.xs), appErr.Context["points"])
		})
	}
}

func TestDensityServiceMaxNumU(t *testing.T) {
	svc := NewDensityService(slog.Default(), nil, 0, WithMaxNumU(64))

	params := scenarioParameters()
	params.NumU = 65
	_, err := svc.Compute(context.Background(), params)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)
	assert.Contains(t, apiErr.Error(), "validation")

	params.NumU = 64
	result, err := svc.Compute(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Density, creditrisk.NumX)
}

func TestDensityServiceLoanBook(t *testing.T) {
	svc := NewDensityService(slog.Default(), nil, 2)
	params := scenarioParameters()

	aggregate, err := svc.Compute(context.Background(), params)
	require.NoError(t, err)

	half := params.AggregateLoan()
	half.Num /= 2
	book, err := svc.Compute(context.Background(), params, WithLoans([]creditrisk.Loan{half, half}))
	require.NoError(t, err)

	assert.InDelta(t, aggregate.XMin, book.XMin, 1e-9)
	require.Len(t, book.Density, creditrisk.NumX)
	for i := range book.Density {
		assert.InDelta(t, aggregate.Density[i], book.Density[i], 1e-12, "point %d", i)
	}
}

func TestDensityServiceLoanBookSizesAxis(t *testing.T) {
	params := scenarioParameters()
	loans := []creditrisk.Loan{
		{Balance: 2, PD: 0.01, LGD: 0.5, Weight: []float64{1}, Num: 1000},
		{Balance: 1, PD: 0.05, LGD: 0.4, Weight: []float64{1}, Num: 500},
	}

	_, measures, err := NewDensityService(slog.Default(), nil, 0).
		ComputeRisk(context.Background(), params, 0.99, WithLoans(loans))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, measures.Mass, 0.05)
	assert.InEpsilon(t, creditrisk.ExpectedLoss(loans), measures.ExpectedLoss, 0.05)
}

func TestDensityServiceUsesRequestLogger(t *testing.T) {
	svc := NewDensityService(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, 0)
	logger, logs := testutil.NewTestLogger(t)

	params := scenarioParameters()
	params.NumU = 16
	ctx := infrastructure.ContextWithLogger(context.Background(), logger)
	_, err := svc.Compute(ctx, params)
	require.NoError(t, err)

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "density computed")
	testutil.AssertLogAttr(t, logs, "component", "density_service")

	params.NumU = -1
	_, err = svc.Compute(ctx, params)
	require.Error(t, err)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "density computation failed")
	assert.True(t, logs.ContainsAttr("error", err.Error()))
}

func TestCountNonFinite(t *testing.T) {
	assert.Equal(t, 3, countNonFinite([]float64{1, math.NaN(), math.Inf(1), 0, math.Inf(-1)}))
	assert.Equal(t, 0, countNonFinite(nil))
}

func BenchmarkDensityServiceScenario(b *testing.B) {
	svc := NewDensityService(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, 0)
	params := scenarioParameters()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Compute(ctx, params); err != nil {
			b.Fatal(err)
		}
	}
}
