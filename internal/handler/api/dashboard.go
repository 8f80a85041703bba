package api

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	"MacroPull/internal/service/metrics"
	xhttp "MacroPull/pkg/http"
	xlogger "MacroPull/pkg/logger"
	"MacroPull/pkg/util"

	"github.com/labstack/echo/v4"
)

// Dashboard is what the HTTP layer needs from the use case.
type Dashboard interface {
	GDP(ctx context.Context, entities []models.Entity) (*models.Analytic, error)
	CPI(ctx context.Context, entities []models.Entity) (*models.Analytic, error)
	Unemployment(ctx context.Context) (*models.Analytic, error)
	NormalizedGDP(ctx context.Context, entities []models.Entity) (map[string]models.TimeSeries, error)
	Forex(ctx context.Context, entities []models.Entity, period models.Period) (*models.Analytic, error)
	Commodities(ctx context.Context, period models.Period) (*models.Analytic, error)
	PolicyRates(ctx context.Context) (*models.Analytic, error)
	Bonds(ctx context.Context, entities []models.Entity) (*models.Analytic, error)
	BondSpread(ctx context.Context, a, b models.Entity) (*models.SpreadResult, error)
	YieldCurve(ctx context.Context, entity models.Entity) (models.YieldCurve, error)
	EquityQuote(ctx context.Context, ticker string, period models.Period) (*models.EquityQuote, error)
	Correlation(ctx context.Context, tickers []string, period models.Period) (models.CorrelationMatrix, error)
	Statement(ctx context.Context, ticker string, kind models.StatementKind) (models.Statement, error)
}

// HealthCheck reports whether a dependency can serve traffic.
type HealthCheck func(ctx context.Context) error

const healthTimeout = 2 * time.Second

// DashboardHandler exposes every analytic family over Echo.
type DashboardHandler struct {
	logger *xlogger.Logger
	dash   Dashboard
	mw     []echo.MiddlewareFunc
	checks map[string]HealthCheck
}

func NewDashboardHandler(logger *xlogger.Logger, dash Dashboard, mw ...echo.MiddlewareFunc) *DashboardHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	metrics.Register()
	return &DashboardHandler{logger: logger, dash: dash, mw: mw, checks: map[string]HealthCheck{}}
}

// AddHealthCheck makes /healthz report name and answer 503 when it fails.
func (h *DashboardHandler) AddHealthCheck(name string, check HealthCheck) *DashboardHandler {
	h.checks[name] = check
	return h
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api", h.mw...)
	g.GET("/macro/gdp", h.GDP)
	g.GET("/macro/cpi", h.CPI)
	g.GET("/macro/unemployment", h.Unemployment)
	g.GET("/macro/gdp/normalized", h.NormalizedGDP)
	g.GET("/markets/forex", h.Forex)
	g.GET("/markets/commodities", h.Commodities)
	g.GET("/rates/policy", h.PolicyRates)
	g.GET("/rates/bonds", h.Bonds)
	g.GET("/rates/spread", h.Spread)
	g.GET("/rates/curve", h.Curve)
	g.GET("/equity/quote", h.Quote)
	g.GET("/equity/correlation", h.Correlation)
	g.GET("/equity/statements", h.Statements)
}

func (h *DashboardHandler) Health(c echo.Context) error {
	report := map[string]string{"status": "ok"}
	if len(h.checks) == 0 {
		return xhttp.SuccessResponse(c, report)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			healthy = false
			report[name] = err.Error()
			h.logger.Warn("health check failed", xlogger.String("check", name), xlogger.Error(err))
			continue
		}
		report[name] = "ok"
	}
	if !healthy {
		report["status"] = "degraded"
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, report)
	}
	return xhttp.SuccessResponse(c, report)
}

// respond renders res or the mapped error and records endpoint metrics.
func (h *DashboardHandler) respond(c echo.Context, endpoint string, start time.Time, res interface{}, err error) error {
	metrics.DashboardLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		kind := errorKind(err)
		metrics.DashboardErrors.WithLabelValues(endpoint, kind).Inc()
		appErr := toAppError(err)
		if appErr.Status >= http.StatusInternalServerError {
			h.logger.Error("dashboard usecase error", xlogger.String("endpoint", endpoint), xlogger.String("kind", kind), xlogger.Error(err))
		} else {
			h.logger.Warn("dashboard request rejected", xlogger.String("endpoint", endpoint), xlogger.String("kind", kind), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func entities(csv string) []models.Entity {
	parts := util.SplitCSV(csv)
	if len(parts) == 0 {
		return nil
	}
	out := make([]models.Entity, len(parts))
	for i, p := range parts {
		out[i] = models.Entity(p)
	}
	return out
}

func (h *DashboardHandler) GDP(c echo.Context) error {
	start := time.Now()
	req := &models.EntitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.GDP(c.Request().Context(), entities(req.Entities))
	return h.respond(c, "gdp", start, res, err)
}

func (h *DashboardHandler) CPI(c echo.Context) error {
	start := time.Now()
	req := &models.EntitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.CPI(c.Request().Context(), entities(req.Entities))
	return h.respond(c, "cpi", start, res, err)
}

func (h *DashboardHandler) Unemployment(c echo.Context) error {
	start := time.Now()
	res, err := h.dash.Unemployment(c.Request().Context())
	return h.respond(c, "unemployment", start, res, err)
}

func (h *DashboardHandler) NormalizedGDP(c echo.Context) error {
	start := time.Now()
	req := &models.EntitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.NormalizedGDP(c.Request().Context(), entities(req.Entities))
	return h.respond(c, "gdp_normalized", start, res, err)
}

func (h *DashboardHandler) Forex(c echo.Context) error {
	start := time.Now()
	req := &models.ForexRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Forex(c.Request().Context(), entities(req.Entities), drepo.NormalizePeriod(req.Period))
	return h.respond(c, "forex", start, res, err)
}

func (h *DashboardHandler) Commodities(c echo.Context) error {
	start := time.Now()
	req := &models.CommoditiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Commodities(c.Request().Context(), drepo.NormalizePeriod(req.Period))
	return h.respond(c, "commodities", start, res, err)
}

func (h *DashboardHandler) PolicyRates(c echo.Context) error {
	start := time.Now()
	res, err := h.dash.PolicyRates(c.Request().Context())
	return h.respond(c, "policy_rates", start, res, err)
}

func (h *DashboardHandler) Bonds(c echo.Context) error {
	start := time.Now()
	req := &models.EntitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Bonds(c.Request().Context(), entities(req.Entities))
	return h.respond(c, "bonds", start, res, err)
}

func (h *DashboardHandler) Spread(c echo.Context) error {
	start := time.Now()
	req := &models.SpreadRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.BondSpread(c.Request().Context(), models.Entity(req.A), models.Entity(req.B))
	return h.respond(c, "spread", start, res, err)
}

func (h *DashboardHandler) Curve(c echo.Context) error {
	start := time.Now()
	req := &models.CurveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.YieldCurve(c.Request().Context(), models.Entity(req.Entity))
	return h.respond(c, "curve", start, res, err)
}

func (h *DashboardHandler) Quote(c echo.Context) error {
	start := time.Now()
	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.EquityQuote(c.Request().Context(), req.Ticker, drepo.NormalizePeriod(req.Period))
	return h.respond(c, "quote", start, res, err)
}

func (h *DashboardHandler) Correlation(c echo.Context) error {
	start := time.Now()
	req := &models.CorrelationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tickers := util.SplitCSV(req.Tickers)
	if len(tickers) < 2 {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("Tickers must list at least 2 symbols").WithParam("min", 2))
	}
	res, err := h.dash.Correlation(c.Request().Context(), tickers, drepo.NormalizePeriod(req.Period))
	return h.respond(c, "correlation", start, res, err)
}

func (h *DashboardHandler) Statements(c echo.Context) error {
	start := time.Now()
	req := &models.StatementRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Statement(c.Request().Context(), strings.TrimSpace(req.Ticker), models.StatementKind(req.Kind))
	return h.respond(c, "statements", start, res, err)
}
