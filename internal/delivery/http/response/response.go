package response

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Error writes an error response
func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// Status writes a bodiless response
func Status(w http.ResponseWriter, statusCode int) {
	w.WriteHeader(statusCode)
}

// Resource sets the Location and ETag headers of a single resource.
// The ETag is the quoted decimal identifier.
func Resource(w http.ResponseWriter, location string, id int64) {
	w.Header().Set("Location", location)
	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(id, 10)))
}

// OK writes a 200 response for a single resource
func OK(w http.ResponseWriter, location string, id int64, data any) {
	Resource(w, location, id)
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 response for a newly created resource
func Created(w http.ResponseWriter, location string, id int64, data any) {
	Resource(w, location, id)
	JSON(w, http.StatusCreated, data)
}

// Collection writes a 200 response for a collection resource
func Collection(w http.ResponseWriter, location string, data any) {
	w.Header().Set("Location", location)
	JSON(w, http.StatusOK, data)
}

// Accepted writes a bodiless 202 response
func Accepted(w http.ResponseWriter) {
	Status(w, http.StatusAccepted)
}
