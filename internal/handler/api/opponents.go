package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	models "ArenaFighter/internal/domain/models"
	icache "ArenaFighter/internal/service/cache"
	"ArenaFighter/internal/service/metrics"
	"ArenaFighter/internal/service/ratelimit"
	"ArenaFighter/internal/services/bankroll"
	"ArenaFighter/internal/usecase"
	xhttp "ArenaFighter/pkg/http"
	xlogger "ArenaFighter/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OpponentsHandler serves the read-only model API: opponent profiles,
// wager sizing, and the weak-target ranking.
type OpponentsHandler struct {
	logger     *xlogger.Logger
	fighter    *usecase.Fighter
	bank       *bankroll.Manager
	cache      icache.BytesCache
	targetsTTL time.Duration
	rl         *ratelimit.Limiter
}

func NewOpponentsHandler(logger *xlogger.Logger, fighter *usecase.Fighter, bank *bankroll.Manager) *OpponentsHandler {
	metrics.Register()
	return &OpponentsHandler{
		logger:     logger,
		fighter:    fighter,
		bank:       bank,
		targetsTTL: 30 * time.Second,
		rl:         ratelimit.New(),
	}
}

// SetCache injects a response cache for the targets endpoint.
func (h *OpponentsHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	if ttl > 0 {
		h.targetsTTL = ttl
	}
}

func (h *OpponentsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/opponents/:addr", h.Opponent)
	g.GET("/opponents/:addr/wager", h.Wager)
	g.GET("/targets", h.Targets)
}

// opponentSummary is the API view of a profile.
type opponentSummary struct {
	Addr       string  `json:"addr"`
	TotalGames int     `json:"total_games"`
	WinRate    float64 `json:"win_rate"`
	LastWon    *bool   `json:"last_won,omitempty"`
	FoldRate   float64 `json:"fold_rate"`
	Aggression float64 `json:"aggression"`
	AvgShade   float64 `json:"avg_shade_pct"`
}

func (h *OpponentsHandler) Opponent(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("opponent").Observe(time.Since(start).Seconds()) }()

	req := &models.OpponentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p := h.fighter.Recorder().Profiles().Get(req.Addr)
	ps := p.PokerSnapshot()
	s := opponentSummary{
		Addr:       p.Addr,
		TotalGames: p.TotalGames(),
		WinRate:    p.WinRate(),
		FoldRate:   ps.FoldRate,
		Aggression: ps.Aggression,
		AvgShade:   p.AuctionSnapshot().AvgShadePct,
	}
	if last := p.LastResult(); last != nil {
		s.LastWon = &last.Won
	}
	return xhttp.SuccessResponse(c, s)
}

func (h *OpponentsHandler) Wager(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("wager").Observe(time.Since(start).Seconds()) }()

	req := &models.WagerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p := h.fighter.Recorder().Profiles().Get(req.Addr)
	winProb := h.bank.EstimateWinProb(p)
	wager := h.bank.RecommendWager(req.BalanceWei, winProb, req.MinWei, req.MaxWei)

	return xhttp.SuccessResponse(c, map[string]interface{}{
		"addr":      p.Addr,
		"win_prob":  winProb,
		"wager_wei": wager,
	})
}

func (h *OpponentsHandler) Targets(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("targets").Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":targets", 5, 2) {
		h.logger.Warn("targets rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	req := &models.TargetsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := "targets:" + strconv.Itoa(req.Limit)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("targets cache_get_error", xlogger.Error(err))
		} else if ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	targets := h.fighter.Targets()
	if len(targets) > req.Limit {
		targets = targets[:req.Limit]
	}

	b, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    &xhttp.ListDataResponse{Rows: targets, Total: int64(len(targets))},
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues("targets").Inc()
		h.logger.Error("targets marshal_error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(cacheKey, b, h.targetsTTL); err != nil {
			h.logger.Warn("targets cache_set_error", xlogger.Error(err))
		}
	}
	return c.JSONBlob(http.StatusOK, b)
}
