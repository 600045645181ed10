package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"alumnihub/internal/common"
)

type apiResponse struct {
	Success    bool               `json:"success"`
	Data       interface{}        `json:"data,omitempty"`
	Error      string             `json:"error,omitempty"`
	Pagination *common.Pagination `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func ok(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data})
}

func created(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: data})
}

func paged(w http.ResponseWriter, data interface{}, p common.Pagination) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data, Pagination: &p})
}

// fail maps the error taxonomy onto HTTP statuses uniformly.
func fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch common.CodeOf(err) {
	case common.CodeInvalidOperation:
		status = http.StatusBadRequest
	case common.CodeConflict:
		status = http.StatusConflict
	case common.CodeNotFound:
		status = http.StatusNotFound
	case common.CodeUnauthorized:
		status = http.StatusUnauthorized
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		msg = "internal server error"
	}
	writeJSON(w, status, apiResponse{Success: false, Error: msg})
}
