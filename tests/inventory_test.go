package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ThatoMphasane/thato/internal/dto"
	"github.com/ThatoMphasane/thato/internal/handler"
	"github.com/ThatoMphasane/thato/internal/model"
	"github.com/ThatoMphasane/thato/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func inventoryTestRouter(products *stubProductRepo, movements *stubMovementRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	invSvc := service.NewInventoryService(products, movements, nil, nil, 10)
	prodSvc := service.NewProductService(products, movements, nil, nil, 10)
	h := handler.NewInventoryHandler(invSvc, prodSvc, 10)

	r := gin.New()
	r.PATCH("/api/products/:id/stock", h.AdjustStock)
	r.GET("/api/products/:id/movements", h.ListMovements)
	r.GET("/api/reports/inventory", h.InventoryReport)
	return r
}

// ── Tests: stock adjustment ──────────────────────────────────────────────────

func TestSale_DecrementsStock(t *testing.T) {
	repo := newStubProductRepo()
	seedProduct(t, repo, "Tea", "10.50", 20)
	r := inventoryTestRouter(repo, newStubMovementRepo())

	w := doJSON(r, http.MethodPatch, "/api/products/1/stock", dto.AdjustStockRequest{Type: "sale", Quantity: 5}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProductResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 15, resp.Quantity)
}

func TestSale_Overdraw_Conflict(t *testing.T) {
	repo := newStubProductRepo()
	seedProduct(t, repo, "Tea", "10.50", 3)
	r := inventoryTestRouter(repo, newStubMovementRepo())

	w := doJSON(r, http.MethodPatch, "/api/products/1/stock", dto.AdjustStockRequest{Type: "sale", Quantity: 5}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")

	// The failed sale must not have touched the stored quantity.
	stored, err := repo.FindByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)
}

func TestSale_ExactStock_DrainsToZero(t *testing.T) {
	repo := newStubProductRepo()
	seedProduct(t, repo, "Tea", "10.50", 5)
	r := inventoryTestRouter(repo, newStubMovementRepo())

	w := doJSON(r, http.MethodPatch, "/api/products/1/stock", dto.AdjustStockRequest{Type: "sale", Quantity: 5}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProductResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Quantity)
}

func TestRestock_IncrementsStock(t *testing.T) {
	repo := newStubProductRepo()
	seedProduct(t, repo, "Tea", "10.50", 2)
	r := inventoryTestRouter(repo, newStubMovementRepo())

	w := doJSON(r, http.MethodPatch, "/api/products/1/stock", dto.AdjustStockRequest{Type: "restock", Quantity: 8}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProductResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Quantity)
}

func TestAdjustStock_UnknownType_Rejected(t *testing.T) {
	repo := newStubProductRepo()
	seedProduct(t, repo, "Tea", "10.50", 20)
	r := inventoryTestRouter(repo, newStubMovementRepo())

	w := doJSON(r, http.MethodPatch, "/api/products/1/stock", map[string]interface{}{"type": "steal", "quantity": 5}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustStock_ZeroQuantity_Rejected(t *testing.T) {
	repo := newStubProductRepo()
	seedProduct(t, repo, "Tea", "10.50", 20)
	r := inventoryTestRouter(repo, newStubMovementRepo())

	w := doJSON(r, http.MethodPatch, "/api/products/1/stock", map[string]interface{}{"type": "sale", "quantity": 0}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustStock_NotFound(t *testing.T) {
	r := inventoryTestRouter(newStubProductRepo(), newStubMovementRepo())

	w := doJSON(r, http.MethodPatch, "/api/products/42/stock", dto.AdjustStockRequest{Type: "sale", Quantity: 1}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ── Tests: movement audit trail ──────────────────────────────────────────────

func TestMovements_RecordedPerAdjustment(t *testing.T) {
	repo := newStubProductRepo()
	movements := newStubMovementRepo()
	seedProduct(t, repo, "Tea", "10.50", 20)
	r := inventoryTestRouter(repo, movements)

	doJSON(r, http.MethodPatch, "/api/products/1/stock", dto.AdjustStockRequest{Type: "sale", Quantity: 5}, "")
	doJSON(r, http.MethodPatch, "/api/products/1/stock", dto.AdjustStockRequest{Type: "restock", Quantity: 10}, "")

	w := doJSON(r, http.MethodGet, "/api/products/1/movements", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp []dto.StockMovementResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	// Newest first.
	assert.Equal(t, model.MovementRestock, resp[0].Type)
	assert.Equal(t, 10, resp[0].Delta)
	assert.Equal(t, model.MovementSale, resp[1].Type)
	assert.Equal(t, -5, resp[1].Delta)
	assert.Equal(t, 20, resp[1].PrevQuantity)
	assert.Equal(t, 15, resp[1].NewQuantity)
}

func TestMovements_FailedSaleLeavesNoTrace(t *testing.T) {
	repo := newStubProductRepo()
	movements := newStubMovementRepo()
	seedProduct(t, repo, "Tea", "10.50", 2)
	r := inventoryTestRouter(repo, movements)

	doJSON(r, http.MethodPatch, "/api/products/1/stock", dto.AdjustStockRequest{Type: "sale", Quantity: 5}, "")

	recorded, err := movements.ListByProduct(context.Background(), 1)
	assert.NoError(t, err)
	assert.Empty(t, recorded)
}

// ── Tests: PDF report ────────────────────────────────────────────────────────

func TestInventoryReport_ReturnsPDF(t *testing.T) {
	repo := newStubProductRepo()
	seedProduct(t, repo, "Tea", "10.50", 20)
	seedProduct(t, repo, "Coffee", "15.00", 3)
	r := inventoryTestRouter(repo, newStubMovementRepo())

	w := doJSON(r, http.MethodGet, "/api/reports/inventory", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inventory.pdf")
	assert.True(t, bytesHavePDFHeader(w.Body.Bytes()))
}

func bytesHavePDFHeader(b []byte) bool {
	return len(b) > 4 && string(b[:5]) == "%PDF-"
}
