package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ItemsHandler serves inventory item endpoints.
type ItemsHandler struct {
	DB     *sql.DB
	Logger *zap.Logger
}

type itemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Section     model.Section   `json:"section"`
	ImageURL    string          `json:"imageUrl"`
}

func (r itemRequest) input() store.ItemInput {
	return store.ItemInput{
		Name:        r.Name,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Section:     r.Section,
		ImageURL:    r.ImageURL,
	}
}

type removeStockRequest struct {
	Quantity    int    `json:"quantity"`
	PerformedBy string `json:"performedBy"`
	Reason      string `json:"reason"`
}

// List handles GET /api/inventoryitems?section=&search=.
func (h *ItemsHandler) List(c *gin.Context) {
	filter := store.ItemFilter{
		Section: model.Section(c.Query("section")),
		Search:  c.Query("search"),
	}
	if filter.Section != "" && !filter.Section.Valid() {
		jsonError(c, http.StatusBadRequest, "invalid section")
		return
	}

	items, err := store.ListInventoryItems(c.Request.Context(), h.DB, ownerID(c), filter)
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	c.JSON(http.StatusOK, items)
}

// Create handles POST /api/inventoryitems.
func (h *ItemsHandler) Create(c *gin.Context) {
	var req itemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := store.CreateInventoryItem(c.Request.Context(), h.DB, ownerID(c), req.input())
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Get handles GET /api/inventoryitems/:id.
func (h *ItemsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := store.GetInventoryItem(c.Request.Context(), h.DB, id, ownerID(c))
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Update handles PUT /api/inventoryitems/:id.
func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req itemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := store.UpdateInventoryItem(c.Request.Context(), h.DB, id, ownerID(c), req.input())
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/inventoryitems/:id.
func (h *ItemsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := store.DeleteInventoryItem(c.Request.Context(), h.DB, id, ownerID(c)); err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveStock handles POST /api/inventoryitems/:id/remove.
func (h *ItemsHandler) RemoveStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req removeStockRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := store.RemoveStock(c.Request.Context(), h.DB, id, ownerID(c), req.Quantity, req.PerformedBy, req.Reason)
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}

	h.Logger.Info("stock removed",
		zap.Stringer("item_id", id),
		zap.Int("quantity", req.Quantity),
		zap.Int("remaining", item.Quantity))
	c.JSON(http.StatusOK, item)
}

// Logs handles GET /api/inventoryitems/:id/logs.
func (h *ItemsHandler) Logs(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	logs, err := store.ListItemLogs(c.Request.Context(), h.DB, id, ownerID(c))
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	if logs == nil {
		logs = []model.InventoryLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// UploadImage handles PUT /api/inventoryitems/:id/image with a multipart
// "image" field.
func (h *ItemsHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	// Leave room for multipart framing around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imaging.MaxUploadSize+64<<10)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(c, http.StatusRequestEntityTooLarge, "image larger than 5 MB")
			return
		}
		jsonError(c, http.StatusBadRequest, "image file required")
		return
	}
	file, err := fh.Open()
	if err != nil {
		jsonError(c, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	img, err := imaging.Normalize(file)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		jsonError(c, http.StatusRequestEntityTooLarge, err.Error())
		return
	case errors.Is(err, imaging.ErrUnsupported):
		jsonError(c, http.StatusBadRequest, "image must be JPEG or PNG")
		return
	case err != nil:
		storeError(c, h.Logger, err)
		return
	}

	ctx := c.Request.Context()
	if err := store.SetItemImage(ctx, h.DB, id, ownerID(c), img.Data, img.MIME); err != nil {
		storeError(c, h.Logger, err)
		return
	}

	item, err := store.GetInventoryItem(ctx, h.DB, id, ownerID(c))
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetImage handles GET /api/inventoryitems/:id/image.
func (h *ItemsHandler) GetImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	data, mime, err := store.GetItemImage(c.Request.Context(), h.DB, id, ownerID(c))
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, mime, data)
}
