package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// PurchasesHandler serves purchase endpoints.
type PurchasesHandler struct {
	DB     *sql.DB
	Logger *zap.Logger
}

type purchaseRequest struct {
	PurchasedBy   string                `json:"purchasedBy"`
	PurchaseDate  purchaseDate          `json:"purchaseDate"`
	PurchaseItems []purchaseItemRequest `json:"purchaseItems"`
}

type purchaseItemRequest struct {
	ItemName    string          `json:"itemName"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Section     model.Section   `json:"section"`
}

// purchaseDate accepts an RFC 3339 timestamp or a bare 2006-01-02 date,
// which is read as midnight UTC.
type purchaseDate time.Time

func (d *purchaseDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("purchaseDate: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = purchaseDate(t)
		return nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return fmt.Errorf("purchaseDate %q: expected RFC 3339 or YYYY-MM-DD", s)
	}
	*d = purchaseDate(t)
	return nil
}

type statusRequest struct {
	Status model.PurchaseStatus `json:"status"`
}

// List handles GET /api/purchases.
func (h *PurchasesHandler) List(c *gin.Context) {
	purchases, err := store.ListPurchases(c.Request.Context(), h.DB, ownerID(c))
	h.respondList(c, purchases, err)
}

// ListActive handles GET /api/purchases/active.
func (h *PurchasesHandler) ListActive(c *gin.Context) {
	purchases, err := store.ListActivePurchases(c.Request.Context(), h.DB, ownerID(c))
	h.respondList(c, purchases, err)
}

func (h *PurchasesHandler) respondList(c *gin.Context, purchases []model.Purchase, err error) {
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	c.JSON(http.StatusOK, purchases)
}

// Create handles POST /api/purchases.
func (h *PurchasesHandler) Create(c *gin.Context) {
	var req purchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	in := store.PurchaseInput{PurchasedBy: req.PurchasedBy, PurchaseDate: time.Time(req.PurchaseDate)}
	for _, it := range req.PurchaseItems {
		in.Items = append(in.Items, store.PurchaseItemInput{
			ItemName:    it.ItemName,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Section:     it.Section,
		})
	}

	p, err := store.CreatePurchase(c.Request.Context(), h.DB, ownerID(c), in)
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Get handles GET /api/purchases/:id.
func (h *PurchasesHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := store.GetPurchase(c.Request.Context(), h.DB, id, ownerID(c))
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/purchases/:id.
func (h *PurchasesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := store.DeletePurchase(c.Request.Context(), h.DB, id, ownerID(c)); err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Complete handles POST /api/purchases/:id/complete.
func (h *PurchasesHandler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := store.CompletePurchase(c.Request.Context(), h.DB, id, ownerID(c))
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}

	h.Logger.Info("purchase completed",
		zap.Stringer("purchase_id", id),
		zap.Int("items", len(p.Items)))
	c.JSON(http.StatusOK, p)
}

// SetStatus handles PUT /api/purchases/:id/status.
func (h *PurchasesHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := store.SetPurchaseStatus(c.Request.Context(), h.DB, id, ownerID(c), req.Status)
	if err != nil {
		storeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
