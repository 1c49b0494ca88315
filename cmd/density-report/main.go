package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"creditdensity/internal/creditrisk"
	apierrors "creditdensity/internal/errors"
	"creditdensity/internal/exporter"
	"creditdensity/internal/infrastructure"
	"creditdensity/internal/middleware"
	"creditdensity/internal/riskmetrics"
	"creditdensity/internal/services"
	api "creditdensity/pkg/contracts/api/v1"
)

type options struct {
	paramsFile string
	outPath    string
	format     string
	alpha      float64
	risk       bool
	workers    int
	logLevel   string
	request    reportParams
}

// reportParams is the -params file: a risk request plus an optional explicit
// loan book that replaces the aggregate loan.
type reportParams struct {
	api.RiskRequest
	Loans []api.LoanRecord `json:"loans,omitempty" validate:"omitempty,dive"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "density-report:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.WithComponent(infrastructure.NewLoggerWithWriter(stderr, opts.logLevel), "density_report")

	if err := middleware.NewRequestValidator(logger).ValidateStruct(&opts.request); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	format, err := resolveFormat(opts)
	if err != nil {
		return err
	}

	params := creditrisk.PortfolioParameters{
		Lambda:     *opts.request.Lambda,
		Q:          *opts.request.Q,
		NumU:       *opts.request.NumU,
		PD:         *opts.request.PD,
		NumLoans:   *opts.request.NumLoans,
		Volatility: *opts.request.Volatility,
	}

	svc := services.NewDensityService(logger, nil, opts.workers)
	report := &exporter.Report{Parameters: params, GeneratedAt: time.Now()}

	var computeOpts []services.ComputeOption
	if len(opts.request.Loans) > 0 {
		report.Loans = toLoans(opts.request.Loans)
		computeOpts = append(computeOpts, services.WithLoans(report.Loans))
	}

	if opts.risk {
		result, measures, err := svc.ComputeRisk(ctx, params, opts.alpha, computeOpts...)
		if err != nil {
			return fmt.Errorf("compute risk measures: %w", err)
		}
		report.Elements = result.Elements()
		report.Measures = &measures
	} else {
		result, err := svc.Compute(ctx, params, computeOpts...)
		if err != nil {
			return fmt.Errorf("compute density: %w", err)
		}
		report.Elements = result.Elements()
	}

	if opts.outPath == "" {
		return exporter.NewCSVWriter(logger).WriteDensity(stdout, report)
	}

	files, err := exporter.Export(opts.outPath, format, report, logger)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	logger.InfoContext(ctx, "Density report generated",
		slog.Any("files", files),
		slog.Int("points", len(report.Elements)))
	return nil
}

// parseFlags reads the portfolio from -params when given; explicit flags
// override values from the file.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("density-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.paramsFile, "params", "", "JSON file with lambda, q, numU, pd, numLoans, volatility, optional alpha and an optional loans array")
	fs.StringVar(&opts.outPath, "out", "", "output file (.csv or .xlsx); density CSV goes to stdout when empty")
	fs.StringVar(&opts.format, "format", "", "csv or xlsx (defaults to the -out extension)")
	fs.Float64Var(&opts.alpha, "alpha", riskmetrics.DefaultAlpha, "confidence level for risk measures")
	fs.BoolVar(&opts.risk, "risk", false, "also compute expected loss, VaR, expected shortfall and economic capital")
	fs.IntVar(&opts.workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	fs.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")

	lambda := fs.Float64("lambda", 0, "liquidity shock intensity")
	q := fs.Float64("q", 0, "liquidity shock size")
	numU := fs.Int("numU", 0, "number of frequency samples")
	pd := fs.Float64("pd", 0, "probability of default")
	numLoans := fs.Float64("numLoans", 0, "number of loans")
	volatility := fs.Float64("volatility", 0, "systemic factor volatility")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.paramsFile != "" {
		if err := loadParams(opts.paramsFile, &opts.request); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lambda":
			opts.request.Lambda = lambda
		case "q":
			opts.request.Q = q
		case "numU":
			opts.request.NumU = numU
		case "pd":
			opts.request.PD = pd
		case "numLoans":
			opts.request.NumLoans = numLoans
		case "volatility":
			opts.request.Volatility = volatility
		case "alpha":
			a := opts.alpha
			opts.request.Alpha = &a
		}
	})

	if opts.request.Alpha != nil {
		opts.alpha = *opts.request.Alpha
	}

	return opts, nil
}

func loadParams(path string, params *reportParams) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read params file: %w", err)
	}
	if err := json.Unmarshal(data, params); err != nil {
		return apierrors.NewParsingError("parse params file", err).WithContext("file", path)
	}
	return nil
}

// toLoans converts validated loan records; required pointers are non-nil
func toLoans(records []api.LoanRecord) []creditrisk.Loan {
	loans := make([]creditrisk.Loan, len(records))
	for i, rec := range records {
		weight := rec.Weight
		if len(weight) == 0 {
			weight = []float64{1}
		}
		loans[i] = creditrisk.Loan{
			Balance:     *rec.Balance,
			PD:          *rec.PD,
			LGD:         *rec.LGD,
			Weight:      weight,
			R:           rec.R,
			LGDVariance: rec.LGDVariance,
			Num:         *rec.Num,
		}
	}
	return loans
}

func resolveFormat(opts *options) (exporter.Format, error) {
	if opts.format != "" {
		return exporter.ParseFormat(opts.format)
	}
	if opts.outPath == "" {
		return exporter.FormatCSV, nil
	}
	format, err := exporter.FormatFromPath(opts.outPath)
	if err != nil {
		return "", errors.New("cannot infer format from -out; pass -format csv or -format xlsx")
	}
	return format, nil
}
