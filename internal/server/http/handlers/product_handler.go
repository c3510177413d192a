package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/marketplace/internal/server/http/dto"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	facade ProductFacade
}

func NewProductHandler(facade ProductFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), CurrentPrincipal(c), usecase.CreateProductInput{
		Title: req.Title,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "product not found"})
		return
	}
	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Update handles PUT /api/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "product not found"})
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	product, err := h.facade.UpdateProduct(c.Request.Context(), CurrentPrincipal(c), id, usecase.UpdateProductInput{
		Title: req.Title,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "product not found"})
		return
	}
	if err := h.facade.DeleteProduct(c.Request.Context(), CurrentPrincipal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/products with optional sellerId filter.
func (h *ProductHandler) List(c *gin.Context) {
	var sellerID *int64
	if raw := c.Query("sellerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "sellerId must be an integer")
			return
		}
		sellerID = &id
	}

	products, err := h.facade.Products(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, resp)
}
