package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/funchapp/funch-server/internal/domain/models"
	repo "github.com/funchapp/funch-server/internal/repository/mongodb"
	"github.com/funchapp/funch-server/internal/service/catalog"
	"github.com/funchapp/funch-server/pkg/clients/storage"
)

const maxImageBytes = 5 << 20

// OriginalHandler is the CRUD surface for operator-authored menu items.
// It is an independent flow: items created here participate in the
// calendar only through their references.
type OriginalHandler struct {
	store   repo.OriginalStore
	catalog *catalog.Service
	storage storage.Client
	logger  *zap.Logger
}

// NewOriginalHandler constructs the HTTP handler adapter. storageClient
// may be nil, in which case image upload is disabled.
func NewOriginalHandler(store repo.OriginalStore, catalogSvc *catalog.Service, storageClient storage.Client, logger *zap.Logger) *OriginalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OriginalHandler{store: store, catalog: catalogSvc, storage: storageClient, logger: logger}
}

type originalMenuRequest struct {
	Title    string          `json:"title" binding:"required"`
	Category models.Category `json:"category" binding:"required"`
	Price    models.Price    `json:"price" binding:"required"`
}

// List returns every original item, title-sorted.
func (h *OriginalHandler) List(c *gin.Context) {
	items, err := h.catalog.ListOriginals(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing original menus", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load original menus"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Create inserts a new original item.
func (h *OriginalHandler) Create(c *gin.Context) {
	var req originalMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.store.CreateOriginal(c.Request.Context(), models.OriginalMenuItem{
		Title:    req.Title,
		Category: req.Category,
		Price:    req.Price,
	})
	if err != nil {
		h.logger.Error("failed creating original menu", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create original menu"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Update overwrites an existing original item's editable fields.
func (h *OriginalHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req originalMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	existing, err := h.store.GetOriginal(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	existing.Title = req.Title
	existing.Category = req.Category
	existing.Price = req.Price

	if err := h.store.UpdateOriginal(c.Request.Context(), existing); err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, existing)
}

// Delete removes an original item and its stored image, if any.
func (h *OriginalHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	existing, err := h.store.GetOriginal(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	if err := h.store.DeleteOriginal(c.Request.Context(), id); err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	if h.storage != nil && existing.ImageURL != "" {
		if err := h.storage.DeleteObject(c.Request.Context(), imageKey(id, existing.ImageURL)); err != nil {
			// The menu document is gone; an orphaned image is only noise.
			h.logger.Warn("failed deleting menu image", zap.String("id", id), zap.Error(err))
		}
	}

	c.Status(http.StatusNoContent)
}

// UploadImage stores a menu photo in the object store and links it to
// the item.
func (h *OriginalHandler) UploadImage(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "image storage not configured"})
		return
	}

	id := c.Param("id")
	existing, err := h.store.GetOriginal(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed reading image"})
		return
	}
	if len(body) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 5MB"})
		return
	}

	key := fmt.Sprintf("%s%s", id, strings.ToLower(path.Ext(header.Filename)))
	url, err := h.storage.UploadObject(c.Request.Context(), storage.UploadRequest{
		Key:         key,
		ContentType: header.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		h.logger.Error("failed uploading menu image", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to store image"})
		return
	}

	existing.ImageURL = url
	if err := h.store.UpdateOriginal(c.Request.Context(), existing); err != nil {
		h.respondStoreError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, existing)
}

func (h *OriginalHandler) respondStoreError(c *gin.Context, err error, id string) {
	if errors.Is(err, repo.ErrOriginalNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "original menu not found"})
		return
	}
	h.logger.Error("original menu store error", zap.String("id", id), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "original menu store error"})
}

func imageKey(id, url string) string {
	ext := path.Ext(url)
	return id + ext
}
