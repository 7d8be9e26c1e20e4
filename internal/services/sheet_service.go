package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/example/hienmauto/internal/models"
)

// SheetService talks to the order spreadsheet through its two channels: the
// published CSV export (read) and the Apps Script proxy (write). The proxy's
// responses are opaque by contract, so every write is fire-and-forget: the
// boolean results below mean "the request was issued", not "the sheet changed".
// Callers must rely on a later refetch to learn the true state.
type SheetService struct {
	csvURL    string
	scriptURL string
	codec     *SheetCodec
	client    *http.Client
	deleteGap time.Duration
}

// NewSheetService constructs a SheetService with a bounded HTTP timeout.
func NewSheetService(csvURL, scriptURL string, codec *SheetCodec, timeout, deleteGap time.Duration) *SheetService {
	return &SheetService{
		csvURL:    csvURL,
		scriptURL: scriptURL,
		codec:     codec,
		client:    &http.Client{Timeout: timeout},
		deleteGap: deleteGap,
	}
}

// FetchOrders downloads and parses the sheet, newest row first. Any transport
// or HTTP failure degrades to an empty list; the caller shows "no data"
// instead of an error.
func (s *SheetService) FetchOrders(ctx context.Context) []models.Order {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.csvURL, nil)
	if err != nil {
		log.Printf("[Sheet] failed to build CSV request: %v", err)
		return []models.Order{}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Sheet] CSV fetch failed: %v", err)
		return []models.Order{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Sheet] CSV fetch returned status %d", resp.StatusCode)
		return []models.Order{}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[Sheet] CSV read failed: %v", err)
		return []models.Order{}
	}

	orders := ParseOrdersCSV(string(body), s.codec)

	// Newest appended row first.
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}

	return orders
}

// AddOrders appends encoded rows via the proxy's add action.
func (s *SheetService) AddOrders(ctx context.Context, orders []models.Order) bool {
	rows := make([][]any, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, s.codec.EncodeRow(order))
	}

	return s.post(ctx, map[string]any{"action": "add", "data": rows})
}

// UpdateBatch rewrites the rows of already-persisted orders, addressed by row
// index. Orders without a row index cannot be updated remotely and are skipped.
func (s *SheetService) UpdateBatch(ctx context.Context, orders []models.Order) bool {
	updates := make([]map[string]any, 0, len(orders))
	for _, order := range orders {
		if !order.Persisted() {
			continue
		}
		updates = append(updates, map[string]any{
			"id":   order.RowIndex,
			"data": s.codec.EncodeRow(order),
		})
	}
	if len(updates) == 0 {
		return true
	}

	return s.post(ctx, map[string]any{"action": "updateBatch", "data": updates})
}

// DeleteBatch removes rows one call at a time, in strictly descending row
// order so earlier deletes cannot shift the indices of later ones, with a
// short pause between calls.
func (s *SheetService) DeleteBatch(ctx context.Context, rowIndexes []int) bool {
	sorted := make([]int, len(rowIndexes))
	copy(sorted, rowIndexes)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	for _, rowIndex := range sorted {
		if !s.post(ctx, map[string]any{"action": "delete", "id": rowIndex}) {
			return false
		}

		select {
		case <-time.After(s.deleteGap):
		case <-ctx.Done():
			return false
		}
	}

	return true
}

// post issues a write to the proxy. The text/plain content type avoids a CORS
// preflight on the Apps Script side; status and body are not trusted.
func (s *SheetService) post(ctx context.Context, payload any) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Sheet] failed to marshal write payload: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.scriptURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("[Sheet] failed to build write request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Sheet] write dispatch failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return true
}
