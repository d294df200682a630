package handler

import (
	"fmt"
	"net/http"

	"github.com/Pesokrava/reviews_app/internal/delivery/http/request"
	"github.com/Pesokrava/reviews_app/internal/delivery/http/response"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
	"github.com/Pesokrava/reviews_app/internal/usecase/product"
)

const productsPath = "/products"

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Title *string `json:"title" example:"desk"`
}

// List handles GET /products
// @Summary List products
// @Description Get every product
// @Tags Products
// @Produce json
// @Success 200 {array} domain.Product
// @Header 200 {string} Location "/products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Getting all product resources")

	products, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Collection(w, productsPath, products)
}

// GetByID handles GET /products/{id}
// @Summary Get a product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Header 200 {string} ETag "Quoted product ID"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 "Product not found"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	h.logger.Infof("Getting product resource with id = %d", id)

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.OK(w, productLocation(p.ID), p.ID, p)
}

// Create handles POST /products
// @Summary Create a new product
// @Tags Products
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Product details"
// @Success 201 {object} domain.Product
// @Header 201 {string} Location "/products/{id}"
// @Failure 400 {object} map[string]string "Invalid request body or missing title"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.logger.Info("Posting product resource")

	p, err := h.service.Create(r.Context(), req.Title)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Created(w, productLocation(p.ID), p.ID, p)
}

func productLocation(id int64) string {
	return fmt.Sprintf("%s/%d", productsPath, id)
}
