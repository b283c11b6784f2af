package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type pageCountResponse struct {
	Pages int `json:"pages"`
}

// Client talks to the product backend API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Products(ctx context.Context, page int) ([]Product, error) {
	if page < 0 {
		page = 0
	}
	q := make(url.Values)
	q.Set("page", strconv.Itoa(page))

	var products []Product
	if err := c.getJSON(ctx, "/products?"+q.Encode(), "products page "+strconv.Itoa(page), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) PageCount(ctx context.Context) (int, error) {
	var resp pageCountResponse
	if err := c.getJSON(ctx, "/products/pages", "page count", &resp); err != nil {
		return 0, err
	}
	return resp.Pages, nil
}

func (c *Client) Product(ctx context.Context, id int64) (Product, error) {
	var product Product
	path := "/products/" + strconv.FormatInt(id, 10)
	if err := c.getJSON(ctx, path, "product "+strconv.FormatInt(id, 10), &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "/categories", "categories", &names); err != nil {
		return nil, err
	}
	return names, nil
}

// AllProducts fetches every page concurrently and returns the products in page order.
func (c *Client) AllProducts(ctx context.Context) ([]Product, error) {
	pages, err := c.PageCount(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]Product, pages)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for page := 0; page < pages; page++ {
		g.Go(func() error {
			products, err := c.Products(gctx, page)
			if err != nil {
				return err
			}
			results[page] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Product
	for _, products := range results {
		all = append(all, products...)
	}
	return all, nil
}

func (c *Client) ProductsOfCategory(ctx context.Context, category string) ([]Product, error) {
	all, err := c.AllProducts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCategory(all, category), nil
}

func (c *Client) getJSON(ctx context.Context, path, resource string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s request failed: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("get %s failed with status %d: %s", resource, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
