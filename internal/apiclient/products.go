package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"kasirinaja/frontend/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.doJSON(ctx, token, http.MethodGet, "/products", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, token string, id string) (domain.Product, error) {
	var resp struct {
		Product domain.Product `json:"product"`
	}
	err := c.doJSON(ctx, token, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &resp)
	return resp.Product, err
}

func (c *Client) CreateProduct(ctx context.Context, token string, req domain.ProductCreateRequest) (domain.Product, error) {
	var resp struct {
		Product domain.Product `json:"product"`
	}
	err := c.doJSON(ctx, token, http.MethodPost, "/products", nil, req, &resp)
	return resp.Product, err
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	var resp struct {
		Product domain.Product `json:"product"`
	}
	err := c.doJSON(ctx, token, http.MethodPut, "/products/"+url.PathEscape(id), nil, req, &resp)
	return resp.Product, err
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id string) error {
	return c.doJSON(ctx, token, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil)
}

// AdjustStock applies a signed relative change to the product's stock.
func (c *Client) AdjustStock(ctx context.Context, token string, id string, quantity int) error {
	return c.doJSON(ctx, token, http.MethodPatch, "/products/"+url.PathEscape(id)+"/stock", nil, domain.StockAdjustRequest{Quantity: quantity}, nil)
}
