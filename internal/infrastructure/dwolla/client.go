package dwolla

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
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	sandboxURL    = "https://api-sandbox.dwolla.com"
	productionURL = "https://api.dwolla.com"

	mediaType      = "application/vnd.dwolla.v1.hal+json"
	defaultTimeout = 30 * time.Second
)

var ErrMissingLocation = errors.New("response has no Location header")

// Client talks to the payments processor. Access tokens come from the
// client-credentials grant and are cached by the oauth2 transport.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

func NewClient(key, secret, environment string) *Client {
	baseURL := sandboxURL
	if environment == "production" {
		baseURL = productionURL
	}
	return newClient(key, secret, baseURL)
}

func newClient(key, secret, baseURL string) *Client {
	creds := clientcredentials.Config{
		ClientID:     key,
		ClientSecret: secret,
		TokenURL:     baseURL + "/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	base := &http.Client{
		Timeout:   defaultTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	httpClient := creds.Client(ctx)
	httpClient.Timeout = defaultTimeout

	return &Client{httpClient: httpClient, baseURL: baseURL}
}

func (c *Client) CreateCustomer(ctx context.Context, customer NewCustomer) (string, error) {
	if customer.Type == "" {
		customer.Type = "personal"
	}
	return c.create(ctx, c.baseURL+"/customers", customer)
}

// AddFundingSource authorizes on-demand debits and then attaches the bank
// behind processorToken to the customer.
func (c *Client) AddFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error) {
	auth, err := c.createOnDemandAuthorization(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create on-demand authorization: %w", err)
	}

	req := fundingSourceRequest{
		Links:      map[string]link{"on-demand-authorization": auth},
		PlaidToken: processorToken,
		Name:       bankName,
	}
	return c.create(ctx, fmt.Sprintf("%s/customers/%s/funding-sources", c.baseURL, customerID), req)
}

func (c *Client) CreateTransfer(ctx context.Context, transfer NewTransfer) (string, error) {
	req := transferRequest{
		Links: map[string]link{
			"source":      {Href: transfer.SourceFundingSourceURL},
			"destination": {Href: transfer.DestinationFundingSourceURL},
		},
		Amount: money{Currency: "USD", Value: transfer.Amount.StringFixed(2)},
	}
	return c.create(ctx, c.baseURL+"/transfers", req)
}

func (c *Client) createOnDemandAuthorization(ctx context.Context) (link, error) {
	resp, body, err := c.do(ctx, c.baseURL+"/on-demand-authorizations", nil)
	if err != nil {
		return link{}, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return link{}, apiError(resp.StatusCode, body)
	}

	var auth onDemandAuthorization
	if err := json.Unmarshal(body, &auth); err != nil {
		return link{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	self, ok := auth.Links["self"]
	if !ok || self.Href == "" {
		return link{}, errors.New("on-demand authorization has no self link")
	}
	return self, nil
}

// create POSTs a resource and returns its URL from the Location header.
func (c *Client) create(ctx context.Context, url string, payload any) (string, error) {
	resp, body, err := c.do(ctx, url, payload)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated {
		return "", apiError(resp.StatusCode, body)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", ErrMissingLocation
	}
	return location, nil
}

func (c *Client) do(ctx context.Context, url string, payload any) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mediaType)
	req.Header.Set("Accept", mediaType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp, body, nil
}

func apiError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	_ = json.Unmarshal(body, &apiErr.Response)
	return apiErr
}
