package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"silktrader/internal/monitor"
	"silktrader/internal/risk"
	"silktrader/internal/trade"
	"silktrader/pkg/exchanges/common"
)

// Server exposes read-only operator diagnostics. It never mutates pipeline
// state; every mutating path stays inside the execution coordinator.
type Server struct {
	Router   *gin.Engine
	Executor trade.Executor
	Monitor  *monitor.Monitor
	Counters *risk.DailyCounters
	Params   risk.Parameters
	Gateway  common.Gateway
	Quote    string
}

func NewServer(exec trade.Executor, mon *monitor.Monitor, counters *risk.DailyCounters, params risk.Parameters, gw common.Gateway, quote string) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		Router:   r,
		Executor: exec,
		Monitor:  mon,
		Counters: counters,
		Params:   params,
		Gateway:  gw,
		Quote:    quote,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	api := s.Router.Group("/api")
	{
		api.GET("/status", s.getStatus)
		api.GET("/positions", s.getPositions)
		api.GET("/risk", s.getRisk)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getStatus(c *gin.Context) {
	trades, pnl := s.Counters.Snapshot()

	status := gin.H{
		"mode":             string(s.Executor.Mode()),
		"open_positions":   s.Monitor.Count(),
		"max_positions":    s.Params.MaxOpenPositions,
		"trades_today":     trades,
		"max_daily_trades": s.Params.MaxDailyTrades,
		"daily_pnl":        pnl,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	if bal, err := s.Gateway.GetBalance(ctx, s.Quote); err == nil {
		status["balance"] = gin.H{
			"currency": bal.Currency,
			"free":     bal.Free,
			"frozen":   bal.Frozen,
			"total":    bal.Total,
		}
	}

	c.JSON(http.StatusOK, status)
}

func (s *Server) getPositions(c *gin.Context) {
	positions := s.Monitor.Positions()
	out := make([]gin.H, 0, len(positions))
	for _, p := range positions {
		out = append(out, gin.H{
			"id":              p.ID,
			"pair":            p.Pair,
			"side":            string(p.Side),
			"entry_price":     p.EntryPrice,
			"quantity":        p.Quantity,
			"position_value":  p.PositionValue,
			"stop_loss":       p.StopLoss,
			"take_profit":     p.TakeProfit,
			"high_water_mark": p.HighWaterMark,
			"trailing_stop":   p.TrailingStop,
			"opened_at":       p.OpenedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"positions": out})
}

func (s *Server) getRisk(c *gin.Context) {
	c.JSON(http.StatusOK, s.Params)
}
