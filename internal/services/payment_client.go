package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Sajan6491/nextgen-ecommerce/internal/models"
)

// PaymentClient charges through the payment service over HTTP. It satisfies
// PaymentGateway so checkout and travel booking stay agnostic about where the
// gateway runs.
type PaymentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPaymentClient creates an HTTP gateway client
func NewPaymentClient(baseURL string) *PaymentClient {
	return &PaymentClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Charge posts the request to the payment service and decodes the outcome
func (pc *PaymentClient) Charge(ctx context.Context, req *models.ChargeRequest) (*models.ChargeResult, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	url := fmt.Sprintf("%s/api/payments/process", pc.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := pc.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make charge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("charge request failed with status: %d", resp.StatusCode)
	}

	var result models.ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode charge response: %w", err)
	}

	return &result, nil
}
