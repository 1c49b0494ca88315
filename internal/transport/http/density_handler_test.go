package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"creditdensity/internal/config"
	apierrors "creditdensity/internal/errors"
	"creditdensity/internal/services"
	"creditdensity/internal/shared/testutil"
	api "creditdensity/pkg/contracts/api/v1"
)

type DensityHandlerSuite struct {
	suite.Suite
	router *chi.Mux
}

func (s *DensityHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := services.NewDensityService(logger, nil, 2, services.WithMaxNumU(config.DefaultMaxNumU))
	handler := NewDensityHandler(service, logger, 4<<10)

	s.router = chi.NewRouter()
	s.router.Route("/api/v1", handler.RegisterRoutes)
}

func (s *DensityHandlerSuite) post(path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *DensityHandlerSuite) problem(rec *httptest.ResponseRecorder) map[string]any {
	s.T().Helper()
	assert.Equal(s.T(), apierrors.ProblemContentType, rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *DensityHandlerSuite) TestScenario() {
	rec := s.post("/api/v1/density", testutil.RequestBody(nil))
	require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())

	var elements []api.DensityElement
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &elements))
	require.Len(s.T(), elements, 512)

	assert.InDelta(s.T(), testutil.ScenarioXMin, elements[0].AtPoint, 1e-6)
	assert.InDelta(s.T(), 0.0, elements[511].AtPoint, 1e-9)
	for i := 1; i < len(elements); i++ {
		assert.GreaterOrEqual(s.T(), elements[i].AtPoint, elements[i-1].AtPoint)
	}
}

func (s *DensityHandlerSuite) TestResponseKeys() {
	rec := s.post("/api/v1/density", testutil.RequestBody(map[string]any{"numU": 8}))
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var raw []map[string]json.RawMessage
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &raw))
	require.NotEmpty(s.T(), raw)
	assert.Len(s.T(), raw[0], 2)
	assert.Contains(s.T(), raw[0], "density")
	assert.Contains(s.T(), raw[0], "atPoint")
}

func (s *DensityHandlerSuite) TestDegenerateInputsAccepted() {
	tests := []struct {
		name      string
		overrides map[string]any
		nonFinite bool
	}{
		{name: "zero frequency samples", overrides: map[string]any{"numU": 0}},
		{name: "single frequency sample", overrides: map[string]any{"numU": 1}},
		{name: "zero volatility", overrides: map[string]any{"volatility": 0}},
		{name: "zero loans", overrides: map[string]any{"numLoans": 0}, nonFinite: true},
		{name: "zero default probability", overrides: map[string]any{"pd": 0}, nonFinite: true},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.post("/api/v1/density", testutil.RequestBody(tt.overrides))
			require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(s.T(), rec.Header().Get("Content-Type"), "application/json")

			var elements []api.DensityElement
			require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &elements))
			assert.Len(s.T(), elements, 512)
			if tt.nonFinite {
				assert.Contains(s.T(), rec.Body.String(), `"density":null`)
			}
		})
	}
}

func (s *DensityHandlerSuite) TestRiskOnDegenerateAxis() {
	rec := s.post("/api/v1/density/risk", testutil.RequestBody(map[string]any{"numLoans": 0}))

	require.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(s.T(), apierrors.CodeUnprocessable, s.problem(rec)["error_code"])
}

func (s *DensityHandlerSuite) TestRejectedRequests() {
	tests := []struct {
		name     string
		body     []byte
		wantCode string
		field    string
	}{
		{
			name:     "missing numLoans",
			body:     testutil.RequestBody(map[string]any{"numLoans": nil}),
			wantCode: apierrors.CodeValidationFailed,
			field:    "numLoans",
		},
		{
			name:     "missing lambda",
			body:     testutil.RequestBody(map[string]any{"lambda": nil}),
			wantCode: apierrors.CodeValidationFailed,
			field:    "lambda",
		},
		{
			name:     "negative numU",
			body:     testutil.RequestBody(map[string]any{"numU": -4}),
			wantCode: apierrors.CodeValidationFailed,
			field:    "numU",
		},
		{
			name:     "numU above cap",
			body:     testutil.RequestBody(map[string]any{"numU": 1000000000}),
			wantCode: apierrors.CodeValidationFailed,
			field:    "numU",
		},
		{
			name:     "fractional numU",
			body:     testutil.RequestBody(map[string]any{"numU": 12.5}),
			wantCode: apierrors.CodeInvalidRequest,
		},
		{
			name:     "string pd",
			body:     testutil.RequestBody(map[string]any{"pd": "two percent"}),
			wantCode: apierrors.CodeInvalidRequest,
		},
		{
			name:     "malformed json",
			body:     []byte(`{"lambda": 0.05,`),
			wantCode: apierrors.CodeInvalidRequest,
		},
		{
			name:     "empty body",
			body:     nil,
			wantCode: apierrors.CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.post("/api/v1/density", tt.body)
			require.Equal(s.T(), http.StatusBadRequest, rec.Code, rec.Body.String())

			body := s.problem(rec)
			assert.Equal(s.T(), tt.wantCode, body["error_code"])
			if tt.field != "" {
				assert.Contains(s.T(), rec.Body.String(), tt.field)
			}
		})
	}
}

func (s *DensityHandlerSuite) TestEmptyBodyDetail() {
	rec := s.post("/api/v1/density", nil)

	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(s.T(), "request body is empty", s.problem(rec)["detail"])
}

func (s *DensityHandlerSuite) TestOversizedBody() {
	body := `{"lambda": 0.05, "padding": "` + strings.Repeat("x", 8<<10) + `"}`
	rec := s.post("/api/v1/density", []byte(body))

	require.Equal(s.T(), http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(s.T(), apierrors.CodePayloadTooLarge, s.problem(rec)["error_code"])
}

func (s *DensityHandlerSuite) TestRisk() {
	rec := s.post("/api/v1/density/risk", testutil.RequestBody(map[string]any{"alpha": 0.95}))
	require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())

	var resp api.RiskResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(s.T(), resp.Density, 512)
	assert.Equal(s.T(), 0.95, resp.Measures.Alpha)
	assert.Greater(s.T(), resp.Measures.ExpectedLoss, 0.0)
	assert.GreaterOrEqual(s.T(), resp.Measures.ExpectedShortfall, resp.Measures.ValueAtRisk)
	assert.InDelta(s.T(), resp.Measures.ValueAtRisk-resp.Measures.ExpectedLoss, resp.Measures.EconomicCapital, 1e-9)
}

func (s *DensityHandlerSuite) TestRiskDefaultAlpha() {
	rec := s.post("/api/v1/density/risk", testutil.RequestBody(nil))
	require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())

	var resp api.RiskResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(s.T(), 0.99, resp.Measures.Alpha)
}

func (s *DensityHandlerSuite) TestRiskRejectsAlphaOutOfRange() {
	for _, alpha := range []float64{0, 1, 1.5, -0.1} {
		rec := s.post("/api/v1/density/risk", testutil.RequestBody(map[string]any{"alpha": alpha}))
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code, "alpha=%v", alpha)
	}
}

func (s *DensityHandlerSuite) TestRiskOnEmptyDensity() {
	rec := s.post("/api/v1/density/risk", testutil.RequestBody(map[string]any{"numU": 0}))

	require.Equal(s.T(), http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(s.T(), apierrors.CodeUnprocessable, s.problem(rec)["error_code"])
}

func (s *DensityHandlerSuite) TestMethodNotAllowed() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/density", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(s.T(), http.StatusMethodNotAllowed, rec.Code)
}

func TestDensityHandlerSuite(t *testing.T) {
	suite.Run(t, new(DensityHandlerSuite))
}
