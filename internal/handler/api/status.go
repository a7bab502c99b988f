package api

import (
	"context"
	"time"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
	xhttp "StockSentry/pkg/http"
	xlogger "StockSentry/pkg/logger"
	"StockSentry/pkg/util"

	"github.com/labstack/echo/v4"
)

// StatusHandler exposes the ops surface: liveness, health, ad-hoc price and
// news lookups, and a manual notify route. None of it touches scheduler
// state except the shared health flag.
type StatusHandler struct {
	logger    *xlogger.Logger
	market    drepo.MarketData
	news      drepo.NewsSource
	messenger drepo.Messenger
	health    drepo.Health
	timeout   time.Duration
}

func NewStatusHandler(
	logger *xlogger.Logger,
	market drepo.MarketData,
	news drepo.NewsSource,
	messenger drepo.Messenger,
	health drepo.Health,
	timeout time.Duration,
) *StatusHandler {
	return &StatusHandler{
		logger:    logger,
		market:    market,
		news:      news,
		messenger: messenger,
		health:    health,
		timeout:   timeout,
	}
}

func (h *StatusHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET("/healthz", h.Health)
	e.GET("/stock/:ticker", h.Stock)
	e.GET("/news/:ticker", h.News)
	e.POST("/notify", h.Notify)
}

// Home is the static liveness confirmation for uptime monitors.
func (h *StatusHandler) Home(c echo.Context) error {
	return c.String(200, "StockSentry is running!")
}

// Health reports the scheduler's degraded-health snapshot.
func (h *StatusHandler) Health(c echo.Context) error {
	snap := h.health.Snapshot()
	status := "ok"
	if snap.Degraded {
		status = "degraded"
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"status":               status,
		"last_tick":            snap.LastTick,
		"consecutive_failures": snap.ConsecutiveFailures,
	})
}

// Stock returns the latest price for one ticker.
func (h *StatusHandler) Stock(c echo.Context) error {
	ticker := models.Ticker(c.Param("ticker"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	quote := h.market.GetPrice(ctx, ticker)
	if !quote.Valid {
		return xhttp.NotFoundResponse(c, "could not fetch price for "+string(ticker))
	}
	return xhttp.SuccessResponse(c, echo.Map{
		"ticker": ticker,
		"price":  quote.Value,
	})
}

type headline struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// News returns recent headlines for one ticker. Read-only: it does not touch
// the seen store, so it never steals items from the next digest.
func (h *StatusHandler) News(c echo.Context) error {
	ticker := models.Ticker(c.Param("ticker"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items := h.news.GetNews(ctx, ticker)
	out := make([]headline, 0, len(items))
	for _, it := range items {
		out = append(out, headline{Title: it.Title, Link: it.URL})
	}
	return xhttp.SuccessResponse(c, out)
}

type notifyRequest struct {
	ChatID string `json:"chat_id" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// Notify sends an ad-hoc message through the messenger. The raw text is
// escaped here, once, before it reaches the gateway.
func (h *StatusHandler) Notify(c echo.Context) error {
	req := &notifyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.messenger.Send(ctx, req.ChatID, util.EscapeMarkdownV2(req.Text)); err != nil {
		h.logger.Error("notify failed", xlogger.String("chat_id", req.ChatID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("message delivery failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, "message sent")
}
