// Package shopify is a minimal read-only client for the shop admin REST API.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shoprag/internal/cleaner"
	"shoprag/internal/domain"
)

const apiVersion = "2024-07"

// Config holds shop credentials and client settings.
type Config struct {
	Shop        string // shop domain, e.g. my-store.myshopify.com
	AccessToken string
	PageSize    int
	Timeout     time.Duration
	// BaseURL overrides the https://<shop>/admin/api/<version> prefix.
	// Used by tests.
	BaseURL string
}

// Client fetches catalog items and policy pages. A single failed call aborts
// the whole fetch; there is no retry logic.
type Client struct {
	shop     string
	token    string
	pageSize int
	baseURL  string
	client   *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize == 0 {
		pageSize = 50
	}
	base := cfg.BaseURL
	if base == "" && cfg.Shop != "" {
		base = fmt.Sprintf("https://%s/admin/api/%s", cfg.Shop, apiVersion)
	}
	return &Client{
		shop:     cfg.Shop,
		token:    cfg.AccessToken,
		pageSize: pageSize,
		baseURL:  base,
		client:   &http.Client{Timeout: timeout},
	}
}

type product struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	BodyHTML string `json:"body_html"`
}

type policy struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FetchDocuments retrieves one page of catalog items plus all policy pages
// and normalizes each into a Document. It fails fast when credentials are
// missing.
func (c *Client) FetchDocuments(ctx context.Context) ([]domain.Document, error) {
	if c.shop == "" {
		return nil, fmt.Errorf("%w: shop domain is not set", domain.ErrMissingConfig)
	}
	if c.token == "" {
		return nil, fmt.Errorf("%w: shop access token is not set", domain.ErrMissingConfig)
	}

	var prodResp struct {
		Products []product `json:"products"`
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("fields", "id,title,handle,body_html,tags,variants")
	if err := c.getJSON(ctx, "/products.json", params, &prodResp); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	var polResp struct {
		Policies []policy `json:"policies"`
	}
	if err := c.getJSON(ctx, "/policies.json", nil, &polResp); err != nil {
		return nil, fmt.Errorf("fetch policies: %w", err)
	}

	docs := make([]domain.Document, 0, len(prodResp.Products)+len(polResp.Policies))
	for _, p := range prodResp.Products {
		docs = append(docs, domain.Document{
			Type:      domain.TypeProduct,
			ShopID:    strconv.FormatInt(p.ID, 10),
			SourceURL: "/products/" + p.Handle,
			Title:     p.Title,
			BodyText:  cleaner.Clean(p.BodyHTML),
		})
	}
	for _, p := range polResp.Policies {
		docs = append(docs, domain.Document{
			Type:      domain.TypePolicy,
			ShopID:    c.shop,
			SourceURL: "/policies/" + policySlug(p.Title),
			Title:     p.Title,
			BodyText:  cleaner.Clean(p.Body),
		})
	}
	return docs, nil
}

func policySlug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s failed: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
