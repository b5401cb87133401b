// AngelaMos | 2026
// catalog.go

package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/condoview/api/internal/config"
	"github.com/condoview/api/internal/core"
)

type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Stock       int      `json:"stock"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CatalogClient proxies the external product catalog. Every call goes through
// getJSON so the whole surface shares one calling convention: build path,
// issue GET, decode, map status.
type CatalogClient struct {
	http    *http.Client
	baseURL string
}

func NewCatalogClient(cfg config.LookupConfig) *CatalogClient {
	return &CatalogClient{
		http:    &http.Client{Timeout: cfg.ClientTimeout},
		baseURL: cfg.CatalogBaseURL,
	}
}

func (c *CatalogClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+path,
		nil,
	)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("catalog request: %w", core.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog request: upstream status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}

	return nil
}

func (c *CatalogClient) Products(
	ctx context.Context,
	limit, skip int,
) (*ProductPage, error) {
	path := fmt.Sprintf("/products?limit=%d&skip=%d", limit, skip)

	var page ProductPage
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *CatalogClient) ProductsByCategory(
	ctx context.Context,
	category string,
) (*ProductPage, error) {
	path := "/products/category/" + url.PathEscape(category)

	var page ProductPage
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *CatalogClient) SearchProducts(
	ctx context.Context,
	query string,
) (*ProductPage, error) {
	path := "/products/search?q=" + url.QueryEscape(query)

	var page ProductPage
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *CatalogClient) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
