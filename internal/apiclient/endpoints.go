package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"pharmapos/domain"
)

// Login posts the flattened login form. On success the session cookie is
// kept in the jar and any issued bearer token is remembered.
func (c *Client) Login(ctx context.Context, form map[string]string) error {
	env, err := c.call(ctx, http.MethodPost, "/api/login", form, "Login failed")
	if err != nil {
		return err
	}
	if env.Token != "" {
		c.token = env.Token
	}
	return nil
}

// CheckSession reports the backend's logged_in flag.
func (c *Client) CheckSession(ctx context.Context) (bool, error) {
	env, status, err := c.do(ctx, http.MethodGet, "/api/check_session", nil)
	if err != nil {
		return false, err
	}
	if env == nil {
		return false, &Error{Status: status, Message: "Session check failed"}
	}
	return env.LoggedIn, nil
}

// Logout asks the backend to drop the session. The response is not inspected.
func (c *Client) Logout(ctx context.Context) error {
	c.token = ""
	_, _, err := c.do(ctx, http.MethodGet, "/api/logout", nil)
	return err
}

func (c *Client) Summary(ctx context.Context) (domain.Summary, error) {
	var s domain.Summary
	env, err := c.call(ctx, http.MethodGet, "/api/summary", nil, "Failed to load summary")
	if err != nil {
		return s, err
	}
	return s, decodeData(env, &s)
}

func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var s domain.DashboardStats
	env, err := c.call(ctx, http.MethodGet, "/api/dashboard-stats", nil, "Failed to load dashboard stats")
	if err != nil {
		return s, err
	}
	return s, decodeData(env, &s)
}

func (c *Client) Medicines(ctx context.Context) ([]domain.Medicine, error) {
	env, err := c.call(ctx, http.MethodGet, "/api/medicines", nil, "Failed to load medicines")
	if err != nil {
		return nil, err
	}
	medicines := []domain.Medicine{}
	return medicines, decodeData(env, &medicines)
}

// AddMedicine creates a medicine and returns the id assigned by the backend
// (zero when the backend does not report one).
func (c *Client) AddMedicine(ctx context.Context, in domain.MedicineInput) (int64, error) {
	env, err := c.call(ctx, http.MethodPost, "/api/medicines/add", in, "Failed to add")
	if err != nil {
		return 0, err
	}
	return env.ID, nil
}

func (c *Client) UpdateMedicine(ctx context.Context, m domain.Medicine) error {
	_, err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/medicines/%d", m.ID), m, "Update failed")
	return err
}

func (c *Client) DeleteMedicine(ctx context.Context, id int64) error {
	_, err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/medicines/%d", id), nil, "Delete failed")
	return err
}

// CreateSale submits a bill and returns the new sale id.
func (c *Client) CreateSale(ctx context.Context, req domain.SaleRequest) (int64, error) {
	env, err := c.call(ctx, http.MethodPost, "/api/sales/create", req, "Sale failed")
	if err != nil {
		return 0, err
	}
	return env.SaleID, nil
}

func (c *Client) Sales(ctx context.Context) ([]domain.SaleHeader, error) {
	env, err := c.call(ctx, http.MethodGet, "/api/sales", nil, "Failed to get sales")
	if err != nil {
		return nil, err
	}
	sales := []domain.SaleHeader{}
	return sales, decodeData(env, &sales)
}

func (c *Client) Sale(ctx context.Context, id int64) (domain.SaleDetail, error) {
	var d domain.SaleDetail
	env, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/sales/%d", id), nil, "Failed to load sale")
	if err != nil {
		return d, err
	}
	return d, decodeData(env, &d)
}

// Register creates a backend user. Only admins may do this.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (int64, error) {
	env, err := c.call(ctx, http.MethodPost, "/api/register", req, "Registration failed")
	if err != nil {
		return 0, err
	}
	return env.UserID, nil
}
