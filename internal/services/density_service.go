package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"creditdensity/internal/creditrisk"
	apierrors "creditdensity/internal/errors"
	"creditdensity/internal/fourier"
	"creditdensity/internal/infrastructure"
	"creditdensity/internal/riskmetrics"
	api "creditdensity/pkg/contracts/api/v1"
)

// DensityResult is a loss density sampled on the value grid. AtPoint is
// ascending from XMin to XMax and Density[i] belongs to AtPoint[i].
type DensityResult struct {
	XMin    float64
	XMax    float64
	AtPoint []float64
	Density []float64
	// NonFinite counts NaN or infinite density values.
	NonFinite int
}

// Elements returns the result as wire elements in ascending atPoint order
func (r *DensityResult) Elements() []api.DensityElement {
	out := make([]api.DensityElement, len(r.AtPoint))
	for i, x := range r.AtPoint {
		out[i] = api.DensityElement{Density: r.Density[i], AtPoint: x}
	}
	return out
}

// DensityService runs the credit loss density pipeline: build the frequency
// grid, fold the aggregate loan into the log characteristic function, mix
// over the gamma systemic factor and invert onto NumX loss values.
type DensityService struct {
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
	workers int
	maxNumU int
}

// ServiceOption configures a DensityService.
type ServiceOption func(*DensityService)

// WithMaxNumU rejects computations with more than n frequency samples. Zero
// or less leaves numU unbounded.
func WithMaxNumU(n int) ServiceOption {
	return func(s *DensityService) {
		s.maxNumU = n
	}
}

// ComputeOption adjusts a single computation.
type ComputeOption func(*computeOptions)

type computeOptions struct {
	loans []creditrisk.Loan
}

// WithLoans prices an explicit loan book instead of the aggregate loan. The
// loss axis is sized from the book's expected loss; PD and NumLoans of the
// parameters are ignored.
func WithLoans(loans []creditrisk.Loan) ComputeOption {
	return func(o *computeOptions) {
		o.loans = loans
	}
}

// NewDensityService creates a density service. metrics may be nil; workers
// of zero or less selects one per CPU.
func NewDensityService(logger *slog.Logger, metrics *infrastructure.BusinessMetrics, workers int, opts ...ServiceOption) *DensityService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DensityService{
		logger:  infrastructure.WithComponent(logger, componentName),
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.InstrumentationName),
		workers: workers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const componentName = "density_service"

// loggerFor prefers the request-scoped logger carried by ctx
func (s *DensityService) loggerFor(ctx context.Context) *slog.Logger {
	if logger, ok := infrastructure.ContextLogger(ctx); ok {
		return infrastructure.WithComponent(logger, componentName)
	}
	return s.logger
}

// Compute returns the loss density of the portfolio described by params.
// Numerically degenerate parameters are not rejected; they yield
// non-finite or constant densities. Only a negative or oversized NumU or a
// cancelled context produce an error.
func (s *DensityService) Compute(ctx context.Context, params creditrisk.PortfolioParameters, opts ...ComputeOption) (*DensityResult, error) {
	o := computeOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, span := s.tracer.Start(ctx, "DensityService.Compute", trace.WithAttributes(
		attribute.Float64("density.lambda", params.Lambda),
		attribute.Float64("density.q", params.Q),
		attribute.Int("density.num_u", params.NumU),
		attribute.Float64("density.pd", params.PD),
		attribute.Float64("density.num_loans", params.NumLoans),
		attribute.Float64("density.volatility", params.Volatility),
		attribute.Int("density.loan_records", len(o.loans)),
	))
	defer span.End()

	logger := s.loggerFor(ctx)

	start := time.Now()
	result, err := s.compute(ctx, params, o)
	duration := time.Since(start)

	nonFinite := 0
	if result != nil {
		nonFinite = result.NonFinite
	}
	infrastructure.RecordDensityComputation(ctx, s.metrics, params.NumU, nonFinite, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(logger, err).WarnContext(ctx, "density computation failed",
			slog.Int("num_u", params.NumU),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.Float64("density.x_min", result.XMin),
		attribute.Int("density.non_finite", result.NonFinite),
	)

	level := slog.LevelInfo
	if result.NonFinite > 0 {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "density computed",
		slog.Int("num_u", params.NumU),
		slog.Int("num_x", creditrisk.NumX),
		slog.Int("loan_records", len(o.loans)),
		slog.Float64("x_min", result.XMin),
		slog.Int("non_finite", result.NonFinite),
		slog.Duration("duration", duration),
	)

	return result, nil
}

func (s *DensityService) compute(ctx context.Context, params creditrisk.PortfolioParameters, o computeOptions) (*DensityResult, error) {
	if params.NumU < 0 {
		return nil, apierrors.NewAppValidationError(fmt.Sprintf("numU must not be negative: %d", params.NumU))
	}
	if s.maxNumU > 0 && params.NumU > s.maxNumU {
		return nil, apierrors.ErrValidation("numU", fmt.Sprintf("numU must be at most %d", s.maxNumU))
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("density computation not started: %w", err)
	}

	xMin := params.XMin()
	if o.loans != nil {
		xMin = params.BookXMin(o.loans)
	}
	xMax := creditrisk.XMax

	uDomain := fourier.UDomainSlice(params.NumU, xMin, xMax)
	lpm := creditrisk.LogLPMCF{
		LGD:       creditrisk.DeterministicLGD{},
		Liquidity: params.Liquidity(xMin),
	}

	attrs := creditrisk.NewEconomicCapitalAttributes(params.NumU, creditrisk.NumMixingStates,
		creditrisk.WithWorkers(s.workers))
	if o.loans != nil {
		attrs.ProcessLoans(o.loans, uDomain, lpm)
	} else {
		attrs.ProcessLoan(params.AggregateLoan(), uDomain, lpm)
	}

	cf := attrs.FullCF(params.Mixing())

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("density computation abandoned: %w", err)
	}

	// A single worker evaluates the series lazily on the calling goroutine.
	xs := fourier.XDomainSlice(creditrisk.NumX, xMin, xMax)
	var density []float64
	if s.workers == 1 {
		density = slices.Collect(fourier.DensitySeq(xMin, xMax, slices.Values(xs), cf))
	} else {
		density = fourier.Density(xMin, xMax, xs, cf, fourier.WithWorkers(s.workers))
	}

	return &DensityResult{
		XMin:      xMin,
		XMax:      xMax,
		AtPoint:   xs,
		Density:   density,
		NonFinite: countNonFinite(density),
	}, nil
}

// ComputeRisk computes the density and its risk measures at confidence
// level alpha. A density without positive finite mass yields an
// UNPROCESSABLE_DENSITY error.
func (s *DensityService) ComputeRisk(ctx context.Context, params creditrisk.PortfolioParameters, alpha float64, opts ...ComputeOption) (*DensityResult, riskmetrics.Measures, error) {
	result, err := s.Compute(ctx, params, opts...)
	if err != nil {
		return nil, riskmetrics.Measures{}, err
	}

	measures, err := s.measures(ctx, result.AtPoint, result.Density, alpha)
	if err != nil {
		return nil, riskmetrics.Measures{}, err
	}
	return result, measures, nil
}

// measures maps riskmetrics failures onto API errors
func (s *DensityService) measures(ctx context.Context, xs, density []float64, alpha float64) (riskmetrics.Measures, error) {
	measures, err := riskmetrics.Compute(xs, density, alpha)
	switch {
	case err == nil:
		return measures, nil
	case errors.Is(err, riskmetrics.ErrInvalidAlpha):
		return riskmetrics.Measures{}, apierrors.ErrValidation("alpha", err.Error())
	case errors.Is(err, riskmetrics.ErrGridMismatch), errors.Is(err, riskmetrics.ErrGridTooSmall):
		return riskmetrics.Measures{}, apierrors.NewComputationError("risk measures need the full value grid", err).
			WithContext("points", len(xs))
	default:
		infrastructure.WithError(s.loggerFor(ctx), err).WarnContext(ctx, "risk measures unavailable",
			slog.Float64("alpha", alpha),
		)
		return riskmetrics.Measures{}, apierrors.UnprocessableDensity(err)
	}
}

func countNonFinite(values []float64) int {
	n := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			n++
		}
	}
	return n
}
