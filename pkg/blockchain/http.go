package blockchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/config"
)

// HTTPNotifier posts audit events to the chain-logger gateway which signs and
// submits them on the configured network.
type HTTPNotifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPNotifier builds a notifier against the configured endpoint.
func NewHTTPNotifier(cfg config.BlockchainConfig) (*HTTPNotifier, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("blockchain endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPNotifier{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type notifyRequest struct {
	ProfileID   string         `json:"profile_id"`
	InventoryID string         `json:"inventory_id"`
	Action      string         `json:"action"`
	Data        map[string]any `json:"data,omitempty"`
}

type notifyResponse struct {
	TxHash string `json:"tx_hash"`
}

func (n *HTTPNotifier) Notify(ctx context.Context, profileID string, itemID uuid.UUID, action string, payload map[string]any) (string, error) {
	body, err := json.Marshal(notifyRequest{
		ProfileID:   profileID,
		InventoryID: itemID.String(),
		Action:      action,
		Data:        payload,
	})
	if err != nil {
		return "", fmt.Errorf("encode notify payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post audit event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chain logger returned status %d", resp.StatusCode)
	}

	var decoded notifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode notify response: %w", err)
	}
	return decoded.TxHash, nil
}
