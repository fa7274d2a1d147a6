// Package client is the Go counterpart of the browser frontend: a REST client
// plus a state manager that mirrors products and users, applies optimistic
// mutations with rollback on server rejection, and persists a denormalized
// copy to the local store.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ThatoMphasane/thato/internal/apierror"
	"github.com/ThatoMphasane/thato/internal/dto"

	"github.com/guonaihong/gout"
)

// Client wraps the REST surface of the backend.
type Client struct {
	base  string
	token string
}

func New(baseURL string) *Client { return &Client{base: baseURL} }

// SetToken attaches the session token issued by login to later requests.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) headers() gout.H {
	h := gout.H{"Content-Type": "application/json"}
	if c.token != "" {
		h["Authorization"] = "Bearer " + c.token
	}
	return h
}

// decode maps the response status onto the shared sentinels and unmarshals
// 2xx bodies into out.
func decode(code int, body []byte, out interface{}) error {
	switch {
	case code >= 200 && code < 300:
		if out == nil || len(body) == 0 {
			return nil
		}
		return json.Unmarshal(body, out)
	case code == http.StatusNotFound:
		return apierror.ErrNotFound
	case code == http.StatusUnauthorized:
		return apierror.ErrInvalidCredentials
	case code == http.StatusConflict:
		return apierror.ErrInsufficientStock
	default:
		var apiErr apierror.APIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Detail != "" {
			if apiErr.Detail == "Username already exists" {
				return apierror.ErrDuplicateUsername
			}
			return fmt.Errorf("server rejected request (%d): %s", code, apiErr.Detail)
		}
		return fmt.Errorf("server rejected request (%d)", code)
	}
}

// ListProducts fetches the full catalog with a bounded retry of 3 attempts.
func (c *Client) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	var (
		code int
		body []byte
	)
	err := gout.GET(c.base+"/api/products").
		WithContext(ctx).
		SetHeader(c.headers()).
		Code(&code).
		BindBody(&body).
		F().Retry().Attempt(3).WaitTime(50 * time.Millisecond).MaxWaitTime(time.Second).
		Do()
	if err != nil {
		return nil, err
	}
	var out []dto.ProductResponse
	if err := decode(code, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	var (
		code int
		body []byte
	)
	err := gout.GET(c.base+"/api/users").
		WithContext(ctx).
		SetHeader(c.headers()).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, err
	}
	var out []dto.UserResponse
	if err := decode(code, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	var (
		code int
		body []byte
	)
	err := gout.POST(c.base+"/api/products").
		WithContext(ctx).
		SetHeader(c.headers()).
		SetJSON(req).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, err
	}
	var out dto.ProductResponse
	if err := decode(code, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var (
		code int
		body []byte
	)
	err := gout.PUT(fmt.Sprintf("%s/api/products/%d", c.base, id)).
		WithContext(ctx).
		SetHeader(c.headers()).
		SetJSON(req).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, err
	}
	var out dto.ProductResponse
	if err := decode(code, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetQuantity uses the legacy quantity-only PUT body.
func (c *Client) SetQuantity(ctx context.Context, id uint, quantity int) (*dto.QuantityUpdateResponse, error) {
	var (
		code int
		body []byte
	)
	err := gout.PUT(fmt.Sprintf("%s/api/products/%d", c.base, id)).
		WithContext(ctx).
		SetHeader(c.headers()).
		SetJSON(gout.H{"quantity": quantity}).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, err
	}
	var out dto.QuantityUpdateResponse
	if err := decode(code, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustStock uses the delta path; movementType is "sale" or "restock".
func (c *Client) AdjustStock(ctx context.Context, id uint, movementType string, quantity int) (*dto.ProductResponse, error) {
	var (
		code int
		body []byte
	)
	err := gout.PATCH(fmt.Sprintf("%s/api/products/%d/stock", c.base, id)).
		WithContext(ctx).
		SetHeader(c.headers()).
		SetJSON(dto.AdjustStockRequest{Type: movementType, Quantity: quantity}).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, err
	}
	var out dto.ProductResponse
	if err := decode(code, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	var (
		code int
		body []byte
	)
	err := gout.DELETE(fmt.Sprintf("%s/api/products/%d", c.base, id)).
		WithContext(ctx).
		SetHeader(c.headers()).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return err
	}
	return decode(code, body, nil)
}

func (c *Client) CreateUser(ctx context.Context, username, password string) error {
	var (
		code int
		body []byte
	)
	err := gout.POST(c.base+"/api/users").
		WithContext(ctx).
		SetHeader(c.headers()).
		SetJSON(dto.CreateUserRequest{Username: username, Password: password}).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return err
	}
	return decode(code, body, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id uint, username, password string) (*dto.UserResponse, error) {
	var (
		code int
		body []byte
	)
	err := gout.PUT(fmt.Sprintf("%s/api/users/%d", c.base, id)).
		WithContext(ctx).
		SetHeader(c.headers()).
		SetJSON(dto.UpdateUserRequest{Username: username, Password: password}).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, err
	}
	var out dto.UserResponse
	if err := decode(code, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	var (
		code int
		body []byte
	)
	err := gout.DELETE(fmt.Sprintf("%s/api/users/%d", c.base, id)).
		WithContext(ctx).
		SetHeader(c.headers()).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return err
	}
	return decode(code, body, nil)
}

func (c *Client) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var (
		code int
		body []byte
	)
	err := gout.POST(c.base+"/api/auth/login").
		WithContext(ctx).
		SetHeader(c.headers()).
		SetJSON(dto.LoginRequest{Username: username, Password: password}).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, err
	}
	var out dto.LoginResponse
	if err := decode(code, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InventoryReport downloads the PDF stock report.
func (c *Client) InventoryReport(ctx context.Context) ([]byte, error) {
	var (
		code int
		body []byte
	)
	err := gout.GET(c.base+"/api/reports/inventory").
		WithContext(ctx).
		SetHeader(c.headers()).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("report download failed (%d)", code)
	}
	return body, nil
}
