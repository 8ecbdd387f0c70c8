package dashboardhttp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"assetscope/internal/chart"
	"assetscope/internal/logger"
	"assetscope/internal/market"
	"assetscope/internal/view"
)

type CryptoService interface {
	Snapshot() view.CryptoSnapshot
	Select(id string) error
	SetWindow(w market.Window) error
	RenderChart(w io.Writer) (bool, error)
	SnapshotChart(ctx context.Context) ([]byte, error)
	RenderMarketCap(w io.Writer) error
	RenderVolume(w io.Writer) error
}

type EconomyService interface {
	Snapshot() view.EconomySnapshot
	Open(code string) error
	SetWindow(w market.Window) error
	Back()
	RenderSectors(w io.Writer) error
}

type Router struct {
	crypto   CryptoService
	economy  EconomyService
	snapshot bool
}

func NewRouter(crypto CryptoService, economy EconomyService, snapshot bool) *Router {
	return &Router{crypto: crypto, economy: economy, snapshot: snapshot}
}

func (r *Router) Register(router *gin.Engine) {
	if r.crypto != nil {
		api := router.Group("/api/crypto")
		api.GET("", r.handleCryptoState)
		api.POST("/select", r.handleCryptoSelect)
		api.POST("/window", r.handleCryptoWindow)

		pages := router.Group("/crypto")
		pages.GET("/chart", r.handleCryptoChart)
		if r.snapshot {
			pages.GET("/chart.png", r.handleCryptoChartPNG)
		}
		pages.GET("/cap", r.renderPage(r.crypto.RenderMarketCap))
		pages.GET("/volume", r.renderPage(r.crypto.RenderVolume))
	}
	if r.economy != nil {
		api := router.Group("/api/economy")
		api.GET("", r.handleEconomyState)
		api.POST("/open", r.handleEconomyOpen)
		api.POST("/window", r.handleEconomyWindow)
		api.POST("/back", r.handleEconomyBack)
		router.GET("/economy/sectors", r.renderPage(r.economy.RenderSectors))
	}
}

type selectRequest struct {
	ID string `json:"id" binding:"required"`
}

type openRequest struct {
	Code string `json:"code" binding:"required"`
}

type windowRequest struct {
	Window string `json:"window"`
}

func (r *Router) handleCryptoState(c *gin.Context) {
	c.JSON(http.StatusOK, r.crypto.Snapshot())
}

func (r *Router) handleCryptoSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := r.crypto.Select(strings.TrimSpace(req.ID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, r.crypto.Snapshot())
}

func (r *Router) handleCryptoWindow(c *gin.Context) {
	w, ok := bindWindow(c)
	if !ok {
		return
	}
	if err := r.crypto.SetWindow(w); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, r.crypto.Snapshot())
}

func (r *Router) handleCryptoChart(c *gin.Context) {
	var buf bytes.Buffer
	ok, err := r.crypto.RenderChart(&buf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (r *Router) handleCryptoChartPNG(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()
	png, err := r.crypto.SnapshotChart(ctx)
	if err != nil {
		if errors.Is(err, view.ErrNoSeries) {
			c.Status(http.StatusNoContent)
			return
		}
		logger.Warnf("chart snapshot failed: %v", err)
		if errors.Is(err, chart.ErrNoBrowser) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (r *Router) handleEconomyState(c *gin.Context) {
	c.JSON(http.StatusOK, r.economy.Snapshot())
}

func (r *Router) handleEconomyOpen(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := r.economy.Open(req.Code); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, r.economy.Snapshot())
}

func (r *Router) handleEconomyWindow(c *gin.Context) {
	w, ok := bindWindow(c)
	if !ok {
		return
	}
	if err := r.economy.SetWindow(w); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, r.economy.Snapshot())
}

func (r *Router) handleEconomyBack(c *gin.Context) {
	r.economy.Back()
	c.JSON(http.StatusOK, r.economy.Snapshot())
}

// renderPage serves a stateless chart, or 204 while nothing is settled.
func (r *Router) renderPage(render func(io.Writer) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			if errors.Is(err, view.ErrNoSeries) {
				c.Status(http.StatusNoContent)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	}
}

func bindWindow(c *gin.Context) (market.Window, bool) {
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	w, err := market.ParseWindow(req.Window)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return w, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, view.ErrUnknownEntity):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, view.ErrNotInDetail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, view.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
