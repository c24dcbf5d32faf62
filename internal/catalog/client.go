package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/config"
)

// Prices is the batched result of one catalog query: everything the cart
// validator needs to re-price a checkout, keyed by catalog identifier.
type Prices struct {
	Products          map[string]ProductPrice
	Bundles           map[string]BundlePrice
	SubscriptionPrice *float64
}

type ProductPrice struct {
	ID    string
	Name  string
	Price float64
}

type BundlePrice struct {
	ID    string
	Name  string
	Price float64
}

type Client struct {
	queryURL   string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Sanity query client
func NewClient(cfg config.SanityConfig, logger *zap.Logger) *Client {
	return &Client{
		queryURL: fmt.Sprintf("https://%s.api.sanity.io/%s/data/query/%s",
			cfg.ProjectID, cfg.APIVersion, cfg.Dataset),
		token: cfg.Token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type queryRequest struct {
	Query  string                 `json:"query"`
	Params map[string]interface{} `json:"params,omitempty"`
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type cartPricesResult struct {
	Products []struct {
		ID    string  `json:"_id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"products"`
	Shop struct {
		Bundles []struct {
			ID    string  `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"bundles"`
		SubscriptionPrice *float64 `json:"subscriptionPrice"`
	} `json:"shop"`
}

// CartPrices fetches current prices for the given product IDs and bundle
// slugs in a single query, together with the subscription price. The
// placeholder keeps the GROQ "in" filters valid when a list is empty.
func (c *Client) CartPrices(ctx context.Context, productIDs, bundleSlugs []string) (*Prices, error) {
	if len(productIDs) == 0 {
		productIDs = []string{emptyIDPlaceholder}
	}
	if len(bundleSlugs) == 0 {
		bundleSlugs = []string{emptyIDPlaceholder}
	}

	raw, err := c.query(ctx, CartPricesQuery, map[string]interface{}{
		"productIds":  productIDs,
		"bundleSlugs": bundleSlugs,
	})
	if err != nil {
		return nil, err
	}

	var result cartPricesResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart prices: %w", err)
	}

	prices := &Prices{
		Products:          make(map[string]ProductPrice, len(result.Products)),
		Bundles:           make(map[string]BundlePrice, len(result.Shop.Bundles)),
		SubscriptionPrice: result.Shop.SubscriptionPrice,
	}
	for _, p := range result.Products {
		prices.Products[p.ID] = ProductPrice{ID: p.ID, Name: p.Name, Price: p.Price}
	}
	for _, b := range result.Shop.Bundles {
		prices.Bundles[b.ID] = BundlePrice{ID: b.ID, Name: b.Name, Price: b.Price}
	}

	return prices, nil
}

// query executes a GROQ query against the Sanity HTTP API
func (c *Client) query(ctx context.Context, query string, params map[string]interface{}) (json.RawMessage, error) {
	jsonData, err := json.Marshal(queryRequest{Query: query, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sanity API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var queryResp queryResponse
	if err := json.Unmarshal(body, &queryResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return queryResp.Result, nil
}
