package client

import (
	"context"
	"net/http"

	"provision-store/internal/models"
	"provision-store/internal/services"
)

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getWithRetry(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Bills(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	if err := c.getWithRetry(ctx, "/bills", &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (c *Client) Stats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.getWithRetry(ctx, "/dashboard/stats", &stats)
	return stats, err
}

func (c *Client) CreateProduct(ctx context.Context, input services.ProductInput) (models.Product, error) {
	var product models.Product
	err := c.do(ctx, http.MethodPost, "/products", input, &product)
	return product, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, input services.ProductInput) (models.Product, error) {
	var product models.Product
	err := c.do(ctx, http.MethodPut, "/products/"+id, input, &product)
	return product, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

func (c *Client) CreateBill(ctx context.Context, input services.BillInput) (models.Bill, error) {
	var bill models.Bill
	err := c.do(ctx, http.MethodPost, "/bills", input, &bill)
	return bill, err
}

func (c *Client) UpdateBill(ctx context.Context, id string, input services.BillInput) (models.Bill, error) {
	var bill models.Bill
	err := c.do(ctx, http.MethodPut, "/bills/"+id, input, &bill)
	return bill, err
}

func (c *Client) DeleteBill(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bills/"+id, nil, nil)
}

// Login exchanges the operator credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
