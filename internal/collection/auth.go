package collection

import (
	"context"
	"net/http"
	"net/url"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/models"
)

type AuthResponse struct {
	Token  string      `json:"token"`
	Record models.User `json:"record"`
}

// AuthWithPassword logs in and keeps the returned token on the client.
func (client *Client) AuthWithPassword(ctx context.Context, identity, password string) (AuthResponse, error) {
	var response AuthResponse
	body := map[string]string{"identity": identity, "password": password}
	if err := client.doRequest(ctx, http.MethodPost, "/api/collections/users/auth-with-password", nil, body, &response); err != nil {
		return AuthResponse{}, err
	}
	client.SetToken(response.Token)
	return response, nil
}

// AuthRefresh exchanges the current token for a fresh one.
func (client *Client) AuthRefresh(ctx context.Context) (AuthResponse, error) {
	var response AuthResponse
	if err := client.doRequest(ctx, http.MethodPost, "/api/collections/users/auth-refresh", nil, nil, &response); err != nil {
		return AuthResponse{}, err
	}
	client.SetToken(response.Token)
	return response, nil
}

func (client *Client) UpdateUser(ctx context.Context, id string, fields map[string]any) (models.User, error) {
	var user models.User
	err := client.doRequest(ctx, http.MethodPatch, "/api/collections/users/records/"+url.PathEscape(id), nil, fields, &user)
	return user, err
}
