package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopfront/shopfront/internal/domain/catalog"
	"github.com/shopfront/shopfront/internal/port/outbound"
)

// ListProducts returns all products from the backend.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.doRequest(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns one product by id. Unknown ids yield an error
// matching ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (*catalog.Product, error) {
	var product catalog.Product
	path := fmt.Sprintf("/products/%d", id)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Compile-time check that Client implements the catalog port.
var _ outbound.CatalogAPI = (*Client)(nil)
