package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"creditdensity/internal/creditrisk"
	apierrors "creditdensity/internal/errors"
	"creditdensity/internal/infrastructure"
	"creditdensity/internal/middleware"
	"creditdensity/internal/riskmetrics"
	"creditdensity/internal/services"
	api "creditdensity/pkg/contracts/api/v1"
)

// DensityHandler serves the loss density endpoints
type DensityHandler struct {
	service      *services.DensityService
	validator    *middleware.RequestValidator
	errorHandler *apierrors.ErrorHandler
	maxBodyBytes int64
}

// NewDensityHandler creates a new density handler. Request bodies larger
// than maxBodyBytes are rejected with 413.
func NewDensityHandler(service *services.DensityService, logger *slog.Logger, maxBodyBytes int64) *DensityHandler {
	return &DensityHandler{
		service:      service,
		validator:    middleware.NewRequestValidator(logger),
		errorHandler: apierrors.NewErrorHandler(logger, false),
		maxBodyBytes: maxBodyBytes,
	}
}

// RegisterRoutes registers the density routes
func (h *DensityHandler) RegisterRoutes(r chi.Router) {
	r.Route("/density", func(r chi.Router) {
		r.Post("/", h.Density)
		r.Post("/risk", h.Risk)
	})
}

// Density handles POST /api/v1/density
func (h *DensityHandler) Density(w http.ResponseWriter, r *http.Request) {
	var req api.DensityRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Compute(r.Context(), toParameters(req))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, result.Elements())
}

// Risk handles POST /api/v1/density/risk
func (h *DensityHandler) Risk(w http.ResponseWriter, r *http.Request) {
	var req api.RiskRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	alpha := riskmetrics.DefaultAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	result, measures, err := h.service.ComputeRisk(r.Context(), toParameters(req.DensityRequest), alpha)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.RiskResponse{
		Density: result.Elements(),
		Measures: api.RiskMeasures{
			Alpha:             measures.Alpha,
			Mass:              measures.Mass,
			ExpectedLoss:      measures.ExpectedLoss,
			ValueAtRisk:       measures.ValueAtRisk,
			ExpectedShortfall: measures.ExpectedShortfall,
			EconomicCapital:   measures.EconomicCapital,
		},
	})
}

// decode reads a size-limited JSON body into v and validates it
func (h *DensityHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	if err := render.DecodeJSON(body, v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return apierrors.NewParsingError("request body is empty", nil)
		}
		infrastructure.LoggerWithContext(r.Context()).DebugContext(r.Context(), "malformed density request",
			slog.String("handler", "density"),
			slog.String("error", err.Error()))
		return apierrors.InvalidRequestWithError(err)
	}

	return h.validator.ValidateStruct(v)
}

// toParameters converts a validated request; every pointer is non-nil
func toParameters(req api.DensityRequest) creditrisk.PortfolioParameters {
	return creditrisk.PortfolioParameters{
		Lambda:     *req.Lambda,
		Q:          *req.Q,
		NumU:       *req.NumU,
		PD:         *req.PD,
		NumLoans:   *req.NumLoans,
		Volatility: *req.Volatility,
	}
}
