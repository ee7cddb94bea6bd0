package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	ProviderName = "paddle"

	productionBaseURL = "https://api.paddle.com"
	sandboxBaseURL    = "https://sandbox-api.paddle.com"

	// maxListPages bounds one reconciliation pass; the caller re-invokes
	// rather than the client looping forever on a busy account.
	maxListPages = 10
)

// BaseURLForEnv picks the provider host; anything other than "production"
// stays on the sandbox.
func BaseURLForEnv(env string) string {
	if env == "production" {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// Client talks to the provider's transactions API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(env, apiKey string) *Client {
	return &Client{
		BaseURL: BaseURLForEnv(env),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type transactionListResponse struct {
	Data []TransactionData `json:"data"`
	Meta struct {
		Pagination struct {
			HasMore bool   `json:"has_more"`
			Next    string `json:"next"`
		} `json:"pagination"`
	} `json:"meta"`
}

// FindTransactionForAppointment scans completed transactions for one whose
// custom data references appointmentID and returns its transaction id. Empty
// id and nil error means no match within the page bound.
func (c *Client) FindTransactionForAppointment(ctx context.Context, appointmentID string) (string, error) {
	url := c.BaseURL + "/transactions?status=completed&per_page=200"

	for page := 0; page < maxListPages && url != ""; page++ {
		list, err := c.listPage(ctx, url)
		if err != nil {
			return "", err
		}
		for i := range list.Data {
			if list.Data[i].AppointmentID() == appointmentID {
				return list.Data[i].ID, nil
			}
		}
		if !list.Meta.Pagination.HasMore {
			break
		}
		url = list.Meta.Pagination.Next
	}
	return "", nil
}

func (c *Client) listPage(ctx context.Context, url string) (*transactionListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider transactions list: unexpected status %d", resp.StatusCode)
	}

	var list transactionListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("provider transactions list: decode: %w", err)
	}
	return &list, nil
}
