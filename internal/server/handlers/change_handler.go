package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/funchapp/funch-server/internal/domain/models"
	"github.com/funchapp/funch-server/internal/service/reconcile"
)

// ChangeHandler exposes the per-period menu views and the change actions
// (add / remove / revert) to the admin UI.
type ChangeHandler struct {
	engine *reconcile.Engine
	logger *zap.Logger
}

// NewChangeHandler constructs the HTTP handler adapter.
func NewChangeHandler(engine *reconcile.Engine, logger *zap.Logger) *ChangeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeHandler{engine: engine, logger: logger}
}

// DayView returns the composed (committed plus pending) menu for one date.
func (h *ChangeHandler) DayView(c *gin.Context) {
	period, err := models.ParseDay(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.view(c, period)
}

// MonthView returns the composed common menu for one month.
func (h *ChangeHandler) MonthView(c *gin.Context) {
	period, err := models.ParseMonth(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.view(c, period)
}

// DayChange applies one change event against a date.
func (h *ChangeHandler) DayChange(c *gin.Context) {
	period, err := models.ParseDay(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.change(c, period)
}

// MonthChange applies one change event against a month.
func (h *ChangeHandler) MonthChange(c *gin.Context) {
	period, err := models.ParseMonth(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.change(c, period)
}

func (h *ChangeHandler) view(c *gin.Context, period models.Period) {
	view, err := h.engine.View(c.Request.Context(), period)
	if err != nil {
		h.logger.Error("failed composing period view",
			zap.String("period", period.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ChangeHandler) change(c *gin.Context, period models.Period) {
	var event models.ChangeEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Warn("invalid change event", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	outcome, err := h.engine.HandleEvent(c.Request.Context(), period, event)
	if err != nil {
		if models.IsValidation(err) || errors.Is(err, reconcile.ErrUnsupportedAction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed applying change event",
			zap.String("period", period.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record change"})
		return
	}

	c.JSON(http.StatusOK, models.ChangeResponse{
		Outcome: outcome,
		Period:  period.Key,
		Item:    event.Item,
	})
}
