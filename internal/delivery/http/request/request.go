package request

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Pesokrava/reviews_app/internal/domain"
)

const maxRequestBodySize = 1 << 20 // 1MB

const (
	defaultPage = 0
	defaultSize = 10
)

// DecodeJSON decodes JSON request body into the provided struct with size limit
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()

	limitedReader := io.LimitReader(r.Body, maxRequestBodySize)

	if err := json.NewDecoder(limitedReader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

// GetIDParam extracts an integer identifier from the URL. Zero and negative
// values parse and are left to the lookup to reject.
func GetIDParam(r *http.Request, key string) (int64, error) {
	param := chi.URLParam(r, key)
	if param == "" {
		return 0, fmt.Errorf("missing parameter: %s", key)
	}

	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q: %w", param, err)
	}

	return id, nil
}

// GetIntQuery extracts an integer query parameter, defaultValue when absent
func GetIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return intValue, nil
}

// GetBoolQuery extracts a boolean query parameter, defaultValue when absent
func GetBoolQuery(r *http.Request, key string, defaultValue bool) (bool, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}

	return boolValue, nil
}

// GetOptionalInt64Query extracts an int64 query parameter, nil when absent
func GetOptionalInt64Query(r *http.Request, key string) (*int64, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}

	return &intValue, nil
}

// GetPageParams extracts zero-based page and size, defaulting to 0 and 10.
// Size has no upper bound.
func GetPageParams(r *http.Request) (domain.PageRequest, error) {
	page, err := GetIntQuery(r, "page", defaultPage)
	if err != nil {
		return domain.PageRequest{}, err
	}

	size, err := GetIntQuery(r, "size", defaultSize)
	if err != nil {
		return domain.PageRequest{}, err
	}

	if page < 0 {
		return domain.PageRequest{}, fmt.Errorf("page must not be negative")
	}
	if size < 1 {
		return domain.PageRequest{}, fmt.Errorf("size must be at least one")
	}

	req := domain.PageRequest{Page: page, Size: size}
	if !req.Valid() {
		return domain.PageRequest{}, fmt.Errorf("page %d of size %d is out of range", page, size)
	}

	return req, nil
}

// GetReviewFilter extracts the productId and showDeleted listing filters
func GetReviewFilter(r *http.Request) (domain.ReviewFilter, error) {
	productID, err := GetOptionalInt64Query(r, "productId")
	if err != nil {
		return domain.ReviewFilter{}, err
	}

	showDeleted, err := GetBoolQuery(r, "showDeleted", false)
	if err != nil {
		return domain.ReviewFilter{}, err
	}

	return domain.ReviewFilter{ProductID: productID, ShowDeleted: showDeleted}, nil
}
