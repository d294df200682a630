package handler

import (
	"fmt"
	"net/http"

	"github.com/Pesokrava/reviews_app/internal/delivery/http/request"
	"github.com/Pesokrava/reviews_app/internal/delivery/http/response"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
	"github.com/Pesokrava/reviews_app/internal/usecase/review"
)

const reviewsPath = "/reviews"

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	service *review.Service
	logger  *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  log,
	}
}

// ReviewRequest is the body of both review creation and replacement
type ReviewRequest struct {
	ProductID int64  `json:"productId" example:"1"`
	Text      string `json:"text" example:"Great desk"`
	Rating    int    `json:"rating" example:"5"`
}

// List handles GET /reviews
// @Summary List reviews
// @Description Page of reviews sorted by rating, highest first. An empty page is reported as 404.
// @Tags Reviews
// @Produce json
// @Param page query int false "Zero-based page index" default(0)
// @Param size query int false "Page size" default(10)
// @Param productId query int false "Only reviews of this product"
// @Param showDeleted query bool false "List deleted reviews instead of live ones" default(false)
// @Success 200 {object} domain.Page[domain.Review]
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 404 "No reviews on this page"
// @Router /reviews [get]
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := request.GetPageParams(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pagination parameters")
		return
	}

	filter, err := request.GetReviewFilter(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid filter parameters")
		return
	}

	h.logger.Info("Getting all review resources")

	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Collection(w, reviewsPath, result)
}

// GetByID handles GET /reviews/{id}
// @Summary Get a review by ID
// @Description Deleted reviews are returned too, with isDeleted set
// @Tags Reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} domain.Review
// @Failure 400 {object} map[string]string "Invalid review ID"
// @Failure 404 "Review not found"
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	h.logger.Infof("Getting review resource with id = %d", id)

	rv, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.OK(w, reviewLocation(rv.ID), rv.ID, rv)
}

// Create handles POST /reviews
// @Summary Create a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param review body ReviewRequest true "Review details"
// @Success 201 {object} domain.Review
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 406 "Rating outside 0..5 or product does not exist"
// @Router /reviews [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.logger.Info("Posting review resource")

	rv, err := h.service.Create(r.Context(), req.ProductID, req.Text, req.Rating)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Created(w, reviewLocation(rv.ID), rv.ID, rv)
}

// Update handles PUT /reviews/{id}
// @Summary Replace a review
// @Description Replaces productId, text and rating. The deleted flag is kept.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path int true "Review ID"
// @Param review body ReviewRequest true "Review details"
// @Success 200 {object} domain.Review
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 "Review not found"
// @Failure 406 "Rating outside 0..5 or product does not exist"
// @Router /reviews/{id} [put]
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req ReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.logger.Infof("Updating review resource with id = %d", id)

	rv, err := h.service.Update(r.Context(), id, req.ProductID, req.Text, req.Rating)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.OK(w, reviewLocation(rv.ID), rv.ID, rv)
}

// Delete handles DELETE /reviews/{id}
// @Summary Soft-delete a review
// @Tags Reviews
// @Param id path int true "Review ID"
// @Success 202 "Deletion accepted"
// @Failure 400 {object} map[string]string "Invalid review ID"
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid review ID")
		return
	}

	h.logger.Infof("Deleting review resource with id = %d", id)

	if err := h.service.SoftDelete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Accepted(w)
}

// DeleteAll handles DELETE /reviews
// @Summary Soft-delete every review
// @Tags Reviews
// @Success 202 "Deletion accepted"
// @Router /reviews [delete]
func (h *ReviewHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Deleting all review resources")

	if err := h.service.SoftDeleteAll(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Accepted(w)
}

func reviewLocation(id int64) string {
	return fmt.Sprintf("%s/%d", reviewsPath, id)
}
