package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout = 30 * time.Second

	accountsGetPath             = "/accounts/get"
	transactionsSyncPath        = "/transactions/sync"
	institutionsGetByIDPath     = "/institutions/get_by_id"
	itemPublicTokenExchangePath = "/item/public_token/exchange"
	processorTokenCreatePath    = "/processor/token/create"
	linkTokenCreatePath         = "/link/token/create"
)

var environments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

// Client handles communication with the aggregator REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a client for the named environment; unknown names fall
// back to sandbox.
func NewClient(clientID, secret, environment string) *Client {
	baseURL, ok := environments[environment]
	if !ok {
		baseURL = environments["sandbox"]
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
	}
}

// WithBaseURL points the client at another host, such as a test server.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

func (c *Client) AccountsGet(ctx context.Context, accessToken string) (*AccountsGetResponse, error) {
	var resp AccountsGetResponse
	if err := c.post(ctx, accountsGetPath, map[string]string{"access_token": accessToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) TransactionsSync(ctx context.Context, req TransactionsSyncRequest) (*TransactionsSyncResponse, error) {
	var resp TransactionsSyncResponse
	if err := c.post(ctx, transactionsSyncPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) InstitutionsGetByID(ctx context.Context, institutionID string, countryCodes []string) (*Institution, error) {
	req := institutionsGetByIDRequest{InstitutionID: institutionID, CountryCodes: countryCodes}

	var resp institutionsGetByIDResponse
	if err := c.post(ctx, institutionsGetByIDPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Institution, nil
}

func (c *Client) ItemPublicTokenExchange(ctx context.Context, publicToken string) (*ItemPublicTokenExchangeResponse, error) {
	var resp ItemPublicTokenExchangeResponse
	if err := c.post(ctx, itemPublicTokenExchangePath, itemPublicTokenExchangeRequest{PublicToken: publicToken}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.New("public token exchange returned no access token")
	}
	return &resp, nil
}

func (c *Client) ProcessorTokenCreate(ctx context.Context, accessToken, accountID, processor string) (string, error) {
	req := processorTokenCreateRequest{AccessToken: accessToken, AccountID: accountID, Processor: processor}

	var resp processorTokenCreateResponse
	if err := c.post(ctx, processorTokenCreatePath, req, &resp); err != nil {
		return "", err
	}
	if resp.ProcessorToken == "" {
		return "", errors.New("processor token response was empty")
	}
	return resp.ProcessorToken, nil
}

func (c *Client) LinkTokenCreate(ctx context.Context, req LinkTokenCreateRequest) (*LinkTokenCreateResponse, error) {
	var resp LinkTokenCreateResponse
	if err := c.post(ctx, linkTokenCreatePath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// post sends a JSON body with the client credentials in headers and decodes
// the response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PLAID-CLIENT-ID", c.clientID)
	req.Header.Set("PLAID-SECRET", c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(respBody, &apiErr.Response)
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
