package handler

import (
	"bytes"
	"net/http"

	"github.com/ThatoMphasane/thato/internal/dto"
	"github.com/ThatoMphasane/thato/internal/infra"
	"github.com/ThatoMphasane/thato/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	svc      service.InventoryService
	products service.ProductService
	lowStock int
}

func NewInventoryHandler(svc service.InventoryService, products service.ProductService, lowStock int) *InventoryHandler {
	return &InventoryHandler{svc: svc, products: products, lowStock: lowStock}
}

// AdjustStock is the delta path: {type: "sale"|"restock", quantity}. Sales
// fail with a conflict when stock would go negative.
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InventoryReport streams the current stock as a PDF.
func (h *InventoryHandler) InventoryReport(c *gin.Context) {
	products, err := h.products.ListRecords(c.Request.Context())
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	var buf bytes.Buffer
	if err := infra.WriteInventoryReport(&buf, products, h.lowStock); err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="inventory.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
