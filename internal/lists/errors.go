package lists

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/collection"
)

// Display messages carried by Result.Error.
const (
	MessageNoConnection = "No connection to the server."
	MessageNotFound     = "Entry not found."
	MessageForbidden    = "Not authorized for this action."
	MessageInvalidInput = "Invalid input."
	MessageUnknown      = "An unknown error occurred."

	MessageSignedOut      = "Not signed in."
	MessageMissingEntry   = "Entry is not loaded."
	MessageNothingToClear = "Nothing to clear."
	MessageNothingToAdd   = "Nothing to add."
)

// NormalizeError maps an error from the remote collection API to a message
// for display. It returns "" only for a nil error.
func NormalizeError(err error) string {
	if err == nil {
		return ""
	}

	var apiError *collection.Error
	if errors.As(err, &apiError) {
		if apiError == nil {
			return MessageUnknown
		}
		switch apiError.Status {
		case 0:
			return MessageNoConnection
		case http.StatusNotFound:
			return MessageNotFound
		case http.StatusForbidden:
			return MessageForbidden
		case http.StatusBadRequest:
			if len(apiError.Fields) > 0 {
				first := apiError.Fields[0]
				if first.Name != "" && first.Message != "" {
					return first.Name + ": " + first.Message
				}
			}
			return MessageInvalidInput
		}
		if apiError.Message != "" {
			return apiError.Message
		}
		return MessageUnknown
	}

	var netError net.Error
	var urlError *url.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netError) || errors.As(err, &urlError) {
		return MessageNoConnection
	}

	if message := err.Error(); message != "" {
		return message
	}
	return MessageUnknown
}
