package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/services"
)

const maxBodyBytes = 1 << 20

type apiError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    fieldErrors `json:"data"`
}

// fieldErrors encodes as a JSON object whose keys keep the validation order.
type fieldErrors []services.FieldError

func (fields fieldErrors) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			buffer.WriteByte(',')
		}
		key, err := json.Marshal(field.Field)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}{field.Code, field.Message})
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.Write(value)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	var validationError *services.ValidationError
	switch {
	case errors.As(err, &validationError):
		writeJSON(w, http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: validationError.Message,
			Data:    fieldErrors(validationError.Fields),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, apiError{Code: http.StatusBadRequest, Message: "Failed to authenticate."})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, apiError{Code: http.StatusNotFound, Message: "The requested resource wasn't found."})
	case errors.Is(err, services.ErrForbidden):
		writeJSON(w, http.StatusForbidden, apiError{Code: http.StatusForbidden, Message: "You are not allowed to perform this request."})
	case errors.Is(err, services.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, apiError{Code: http.StatusUnauthorized, Message: "The request requires valid record authorization token."})
	default:
		slog.Error("handling request", "error", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Code: http.StatusInternalServerError, Message: "Something went wrong while processing your request."})
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	var buffer bytes.Buffer
	if _, err := buffer.ReadFrom(http.MaxBytesReader(w, r.Body, maxBodyBytes)); err != nil {
		return nil, &services.ValidationError{Message: "Failed to read the request body."}
	}
	return buffer.Bytes(), nil
}
