package handler

import (
	"net/http"

	"github.com/ThatoMphasane/thato/internal/apierror"
	"github.com/ThatoMphasane/thato/internal/dto"
	"github.com/ThatoMphasane/thato/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update serves the legacy dual-body PUT route: a full record replaces every
// field and echoes the updated product; a bare {quantity} body writes just the
// quantity and answers {id, newQuantity}. Anything in between is rejected.
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	switch {
	case req.IsQuantityOnly():
		resp, err := h.svc.SetQuantity(c.Request.Context(), id, *req.Quantity)
		if err != nil {
			respondError(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, resp)
	case req.IsFullRecord():
		resp, err := h.svc.Update(c.Request.Context(), id, req)
		if err != nil {
			respondError(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("Body must be either a full product record or {quantity}"))
	}
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Product deleted successfully"})
}
