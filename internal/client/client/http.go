package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/respond"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

// HTTPClient calls the JSON API under baseURL.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	token   string
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Token() string { return c.token }

func (c *HTTPClient) SetToken(token string) { c.token = token }

func (c *HTTPClient) Register(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	req := validation.RegisterRequest{Username: username, Email: email, Password: string(password)}
	var res authResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return res.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (*models.User, error) {
	req := validation.LoginRequest{Username: username, Password: string(password)}
	var res authResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", req, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return res.User, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/@me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return mapStatus(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func mapStatus(resp *http.Response) error {
	var er respond.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)
	msg := er.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	default:
		return fmt.Errorf("server error %d: %s", resp.StatusCode, msg)
	}
}
