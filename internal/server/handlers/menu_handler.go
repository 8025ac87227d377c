package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/funchapp/funch-server/internal/domain/models"
	"github.com/funchapp/funch-server/internal/service/catalog"
)

// MenuHandler serves the standard catalogue to the admin UI.
type MenuHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewMenuHandler constructs the HTTP handler adapter.
func NewMenuHandler(catalogSvc *catalog.Service, logger *zap.Logger) *MenuHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuHandler{catalog: catalogSvc, logger: logger}
}

// ListMenus returns the displayable standard catalogue, optionally
// filtered by category.
func (h *MenuHandler) ListMenus(c *gin.Context) {
	category := models.Category(c.Query("category"))
	items := h.catalog.ListStandard(category)
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListCategories returns the known categories in display order.
func (h *MenuHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.Categories()})
}
