package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/funchapp/funch-server/internal/service/confirm"
)

// ConfirmHandler triggers the batch confirmation of pending changes.
type ConfirmHandler struct {
	coordinator *confirm.Coordinator
	logger      *zap.Logger
}

// NewConfirmHandler constructs the HTTP handler adapter.
func NewConfirmHandler(coordinator *confirm.Coordinator, logger *zap.Logger) *ConfirmHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfirmHandler{coordinator: coordinator, logger: logger}
}

// Confirm folds every outstanding change map into the committed menus.
// Parameterless: the coordinator discovers all pending periods itself.
// Per-period failures are reported in the body, not as an HTTP error,
// so the UI can offer a retry for the failed subset.
func (h *ConfirmHandler) Confirm(c *gin.Context) {
	report, err := h.coordinator.ConfirmAll(c.Request.Context())
	if err != nil {
		h.logger.Error("confirmation run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm changes"})
		return
	}

	status := http.StatusOK
	if len(report.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, report)
}
