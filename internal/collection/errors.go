package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxErrorBody = 64 << 10

// Error is a failed API call. Status is 0 when the server could not be reached.
type Error struct {
	Status  int
	Message string
	// Fields lists field errors in the order the server reported them.
	Fields []FieldError
	Err    error
}

type FieldError struct {
	Name    string
	Code    string
	Message string
}

func (apiError *Error) Error() string {
	if apiError.Status == 0 {
		if apiError.Err != nil {
			return apiError.Message + ": " + apiError.Err.Error()
		}
		return apiError.Message
	}
	return fmt.Sprintf("%d: %s", apiError.Status, apiError.Message)
}

func (apiError *Error) Unwrap() error {
	return apiError.Err
}

// StatusOf returns the HTTP status carried by err, or -1 when err is not an
// API error.
func StatusOf(err error) int {
	var apiError *Error
	if errors.As(err, &apiError) {
		return apiError.Status
	}
	return -1
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func parseError(resp *http.Response) error {
	apiError := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return apiError
	}

	var envelope struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiError
	}
	if envelope.Message != "" {
		apiError.Message = envelope.Message
	}
	apiError.Fields = parseFieldErrors(envelope.Data)
	return apiError
}

// parseFieldErrors walks the data object token by token so that the field
// order of the response survives. Malformed entries keep their place with an
// empty message.
func parseFieldErrors(data json.RawMessage) []FieldError {
	if len(data) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	if token, err := decoder.Token(); err != nil || token != json.Delim('{') {
		return nil
	}

	var fields []FieldError
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return fields
		}
		name, ok := token.(string)
		if !ok {
			return fields
		}
		var detail struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return fields
		}
		if json.Unmarshal(raw, &detail) != nil {
			var message string
			json.Unmarshal(raw, &message)
			detail.Code, detail.Message = "", message
		}
		fields = append(fields, FieldError{Name: name, Code: detail.Code, Message: detail.Message})
	}
	return fields
}
