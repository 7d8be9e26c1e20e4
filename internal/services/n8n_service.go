package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/example/hienmauto/internal/models"
)

// N8NEndpoints holds the webhook URLs mirroring order mutations into the
// automation pipeline. Empty URLs disable the corresponding notification.
type N8NEndpoints struct {
	Add        string
	UpdateOne  string
	UpdateBulk string
	Delete     string
	Stats      string
}

// N8NService delivers best-effort notifications to the n8n workflows. Webhook
// delivery is telemetry, not a source of truth: failures are logged by callers
// and never fail the surrounding operation.
type N8NService struct {
	endpoints N8NEndpoints
	codec     *SheetCodec
	client    *http.Client
}

// NewN8NService creates a new N8NService.
func NewN8NService(endpoints N8NEndpoints, codec *SheetCodec, timeout time.Duration) *N8NService {
	return &N8NService{
		endpoints: endpoints,
		codec:     codec,
		client:    &http.Client{Timeout: timeout},
	}
}

// NotifyOrdersCreated mirrors a batch of new orders to the create webhook.
func (s *N8NService) NotifyOrdersCreated(orders []models.Order) error {
	return s.send(http.MethodPost, s.endpoints.Add, s.payloads(orders))
}

// NotifyOrderUpdated mirrors a single changed order. The consumer expects an
// array even for one record.
func (s *N8NService) NotifyOrderUpdated(order models.Order) error {
	return s.send(http.MethodPost, s.endpoints.UpdateOne, s.payloads([]models.Order{order}))
}

// NotifyOrdersUpdated mirrors a bulk change.
func (s *N8NService) NotifyOrdersUpdated(orders []models.Order) error {
	return s.send(http.MethodPost, s.endpoints.UpdateBulk, s.payloads(orders))
}

// NotifyOrdersDeleted announces removed or cancelled orders. The n8n workflow
// is configured for HTTP DELETE with a JSON body; consumers must keep that
// convention.
func (s *N8NService) NotifyOrdersDeleted(orders []models.Order) error {
	return s.send(http.MethodDelete, s.endpoints.Delete, s.payloads(orders))
}

// FetchStats pulls the dispatched-orders feed. The workflow has returned a
// bare array, {"data": […]} and {"orders": […]} at different times; all three
// shapes are accepted.
func (s *N8NService) FetchStats(ctx context.Context) ([]map[string]any, error) {
	if s.endpoints.Stats == "" {
		log.Println("[N8N] stats webhook URL not configured")
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoints.Stats, nil)
	if err != nil {
		return nil, fmt.Errorf("build stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats webhook returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stats response: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Data   []map[string]any `json:"data"`
		Orders []map[string]any `json:"orders"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("unmarshal stats response: %w", err)
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	if wrapped.Orders != nil {
		return wrapped.Orders, nil
	}

	return []map[string]any{}, nil
}

func (s *N8NService) payloads(orders []models.Order) []map[string]any {
	mapped := make([]map[string]any, 0, len(orders))
	for _, order := range orders {
		mapped = append(mapped, s.codec.WebhookPayload(order))
	}
	return mapped
}

func (s *N8NService) send(method, url string, payload any) error {
	if url == "" {
		log.Println("[N8N] webhook URL not configured")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
