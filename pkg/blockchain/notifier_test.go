package blockchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/pkg/config"
)

func TestHTTPNotifierPostsEvent(t *testing.T) {
	var got notifyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(notifyResponse{TxHash: "0xabc"})
	}))
	defer server.Close()

	notifier, err := NewHTTPNotifier(config.BlockchainConfig{Endpoint: server.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	itemID := uuid.New()
	txHash, err := notifier.Notify(context.Background(), "profile-1", itemID, ActionItemCreated, map[string]any{"total": 5})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if txHash != "0xabc" {
		t.Fatalf("expected tx hash 0xabc, got %q", txHash)
	}
	if got.ProfileID != "profile-1" || got.InventoryID != itemID.String() || got.Action != ActionItemCreated {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestHTTPNotifierRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier, err := NewHTTPNotifier(config.BlockchainConfig{Endpoint: server.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	if _, err := notifier.Notify(context.Background(), "profile-1", uuid.New(), ActionItemUpdated, nil); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestNewHTTPNotifierRequiresEndpoint(t *testing.T) {
	if _, err := NewHTTPNotifier(config.BlockchainConfig{}); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	called chan struct{}
	action string
}

func (r *recordingNotifier) Notify(_ context.Context, _ string, _ uuid.UUID, action string, _ map[string]any) (string, error) {
	r.mu.Lock()
	r.action = action
	r.mu.Unlock()
	close(r.called)
	return "0xdef", nil
}

func TestAsyncNotifyDispatchesInBackground(t *testing.T) {
	inner := &recordingNotifier{called: make(chan struct{})}
	async := NewAsync(inner, nil, time.Second)

	type result struct {
		action  string
		payload map[string]any
		txHash  string
	}
	results := make(chan result, 1)
	async.OnResult = func(_ context.Context, _ uuid.UUID, action string, payload map[string]any, txHash string) {
		results <- result{action: action, payload: payload, txHash: txHash}
	}

	payload := map[string]any{"reservation_id": uuid.NewString()}
	txHash, err := async.Notify(context.Background(), "profile-1", uuid.New(), ActionCountersChanged, payload)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if txHash != "" {
		t.Fatalf("async notify should return empty hash, got %q", txHash)
	}

	select {
	case <-inner.called:
	case <-time.After(2 * time.Second):
		t.Fatal("inner notifier was never called")
	}

	select {
	case got := <-results:
		if got.txHash != "0xdef" {
			t.Fatalf("expected 0xdef, got %q", got.txHash)
		}
		if got.action != ActionCountersChanged {
			t.Fatalf("unexpected action %q", got.action)
		}
		if got.payload["reservation_id"] != payload["reservation_id"] {
			t.Fatalf("payload was not forwarded: %+v", got.payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnResult was never called")
	}
}

func TestNoopReturnsEmptyHash(t *testing.T) {
	txHash, err := NewNoop().Notify(context.Background(), "p", uuid.New(), ActionItemCreated, nil)
	if err != nil {
		t.Fatalf("noop notify: %v", err)
	}
	if txHash != "" {
		t.Fatalf("expected empty hash, got %q", txHash)
	}
}
