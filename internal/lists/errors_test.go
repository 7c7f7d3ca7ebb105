package lists_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/collection"
	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
)

func TestNormalizeError(t *testing.T) {
	var nilAPIError *collection.Error

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "unreachable server", err: &collection.Error{Message: "failed to reach the server", Err: errors.New("connection refused")}, want: lists.MessageNoConnection},
		{name: "url error", err: &url.Error{Op: "Get", URL: "http://localhost", Err: errors.New("dial tcp")}, want: lists.MessageNoConnection},
		{name: "deadline", err: fmt.Errorf("listing: %w", context.DeadlineExceeded), want: lists.MessageNoConnection},
		{name: "not found", err: &collection.Error{Status: 404, Message: "The requested resource wasn't found."}, want: lists.MessageNotFound},
		{name: "wrapped not found", err: fmt.Errorf("deleting: %w", &collection.Error{Status: 404}), want: lists.MessageNotFound},
		{name: "forbidden", err: &collection.Error{Status: 403}, want: lists.MessageForbidden},
		{
			name: "validation uses first field",
			err: &collection.Error{Status: 400, Fields: []collection.FieldError{
				{Name: "title", Code: "validation_required", Message: "Cannot be blank."},
				{Name: "status", Code: "validation_invalid_value", Message: "Invalid value."},
			}},
			want: "title: Cannot be blank.",
		},
		{name: "validation without fields", err: &collection.Error{Status: 400, Message: "Failed to create record."}, want: lists.MessageInvalidInput},
		{name: "validation with empty field message", err: &collection.Error{Status: 400, Fields: []collection.FieldError{{Name: "title"}}}, want: lists.MessageInvalidInput},
		{
			name: "validation with malformed first field",
			err: &collection.Error{Status: 400, Fields: []collection.FieldError{
				{Name: "title"},
				{Name: "body", Message: "x"},
			}},
			want: lists.MessageInvalidInput,
		},
		{name: "other status", err: &collection.Error{Status: 500, Message: "Something went wrong."}, want: "Something went wrong."},
		{name: "other status without message", err: &collection.Error{Status: 502}, want: lists.MessageUnknown},
		{name: "plain error", err: errors.New("boom"), want: "boom"},
		{name: "empty message", err: errors.New(""), want: lists.MessageUnknown},
		{name: "typed nil", err: nilAPIError, want: lists.MessageUnknown},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := lists.NormalizeError(test.err); got != test.want {
				t.Errorf("NormalizeError() = %q, want %q", got, test.want)
			}
		})
	}
}
