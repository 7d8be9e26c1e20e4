package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/example/hienmauto/internal/models"
)

// OrderSyncService owns the in-memory order list and keeps it eventually
// consistent with the spreadsheet despite the fire-and-forget write contract.
// Every mutation follows the same sequence: apply optimistically, dispatch the
// proxy write, mirror to the matching webhook, wait a settle delay for the
// unobservable server-side processing, then refetch the whole sheet and
// replace the list.
//
// Mutation sequences are serialized end to end, and every refetch snapshot
// carries a monotonic issue number so a slow refetch can never overwrite a
// newer one.
type OrderSyncService struct {
	sheet        *SheetService
	n8n          *N8NService
	updateSettle time.Duration
	deleteSettle time.Duration

	// opMu serializes full mutation sequences (optimistic update through
	// final refetch). Reads and manual refreshes do not take it.
	opMu sync.Mutex

	mu         sync.RWMutex
	orders     []models.Order
	appliedSeq uint64

	issueSeq atomic.Uint64
	busy     atomic.Int32
}

// NewOrderSyncService constructs the sync layer.
func NewOrderSyncService(sheet *SheetService, n8n *N8NService, updateSettle, deleteSettle time.Duration) *OrderSyncService {
	return &OrderSyncService{
		sheet:        sheet,
		n8n:          n8n,
		updateSettle: updateSettle,
		deleteSettle: deleteSettle,
	}
}

// Orders returns a snapshot copy of the current list, newest first.
func (s *OrderSyncService) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]models.Order, len(s.orders))
	copy(snapshot, s.orders)
	return snapshot
}

// Loading reports whether a mutation sequence is in its network/settle phase.
func (s *OrderSyncService) Loading() bool {
	return s.busy.Load() > 0
}

// Refresh re-ingests the sheet and replaces the list. Snapshots are applied in
// issue order: if a newer refetch has already landed, this result is discarded
// and the newer list is returned instead.
func (s *OrderSyncService) Refresh(ctx context.Context) []models.Order {
	seq := s.issueSeq.Add(1)
	snapshot := s.sheet.FetchOrders(ctx)

	s.mu.Lock()
	if seq > s.appliedSeq {
		s.orders = snapshot
		s.appliedSeq = seq
	}
	current := make([]models.Order, len(s.orders))
	copy(current, s.orders)
	s.mu.Unlock()

	return current
}

// BulkUpdate changes status and/or template of the identified orders. The
// local list reflects the change immediately; remote state catches up through
// the settle-and-refetch cycle. A cancellation status routes to the delete
// webhook instead of the update webhooks.
func (s *OrderSyncService) BulkUpdate(ctx context.Context, ids []string, status, templateStatus string) int {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	s.mu.Lock()
	var changed []models.Order
	for i := range s.orders {
		if _, ok := idSet[s.orders[i].ID]; !ok {
			continue
		}
		if status != "" {
			s.orders[i].Status = status
		}
		if templateStatus != "" {
			s.orders[i].TemplateStatus = templateStatus
		}
		changed = append(changed, s.orders[i])
	}
	s.mu.Unlock()

	if len(changed) == 0 {
		return 0
	}

	s.busy.Add(1)
	defer s.busy.Add(-1)

	if !s.sheet.UpdateBatch(ctx, changed) {
		log.Printf("[Sync] batch update dispatch failed for %d orders", len(changed))
	}

	if isCancellation(status) {
		if err := s.n8n.NotifyOrdersDeleted(changed); err != nil {
			log.Printf("[Sync] delete webhook failed: %v", err)
		}
	} else if len(changed) == 1 {
		if err := s.n8n.NotifyOrderUpdated(changed[0]); err != nil {
			log.Printf("[Sync] update webhook failed: %v", err)
		}
	} else {
		if err := s.n8n.NotifyOrdersUpdated(changed); err != nil {
			log.Printf("[Sync] bulk update webhook failed: %v", err)
		}
	}

	s.settle(ctx, s.updateSettle)
	s.Refresh(ctx)

	return len(changed)
}

// BulkDelete removes the identified orders locally, then deletes their sheet
// rows. Orders that never reached the sheet have nothing to delete remotely;
// if only such orders are removed, the network phase is skipped entirely.
func (s *OrderSyncService) BulkDelete(ctx context.Context, ids []string) int {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	s.mu.Lock()
	kept := s.orders[:0]
	var removed []models.Order
	for _, order := range s.orders {
		if _, ok := idSet[order.ID]; ok {
			removed = append(removed, order)
		} else {
			kept = append(kept, order)
		}
	}
	s.orders = kept
	s.mu.Unlock()

	var rowIndexes []int
	for _, order := range removed {
		if order.Persisted() {
			rowIndexes = append(rowIndexes, order.RowIndex)
		}
	}

	if len(rowIndexes) == 0 {
		return len(removed)
	}

	s.busy.Add(1)
	defer s.busy.Add(-1)

	if !s.sheet.DeleteBatch(ctx, rowIndexes) {
		log.Printf("[Sync] batch delete dispatch failed for rows %v", rowIndexes)
	}

	s.settle(ctx, s.deleteSettle)
	s.Refresh(ctx)

	return len(removed)
}

// Create appends orders to the sheet and prepends them to the local list. The
// proxy cannot report the assigned row index, so new orders stay unpersisted
// until the next natural refetch; there is no forced refetch here.
func (s *OrderSyncService) Create(ctx context.Context, orders []models.Order) ([]models.Order, bool) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	for i := range orders {
		orders[i].RowIndex = 0
		if orders[i].ID == "" {
			orders[i].ID = GeneratedIDPrefix + uuid.NewString()
		}
		if orders[i].CreatedAt == "" {
			orders[i].CreatedAt = LocalTimeString()
		}
		if orders[i].Status == "" {
			orders[i].Status = defaultSheetStatus
		}
		if orders[i].Platform == "" {
			orders[i].Platform = s.sheet.codec.MatchPlatform("")
		}
	}

	ok := s.sheet.AddOrders(ctx, orders)

	if err := s.n8n.NotifyOrdersCreated(orders); err != nil {
		log.Printf("[Sync] create webhook failed: %v", err)
	}

	s.mu.Lock()
	s.orders = append(append([]models.Order{}, orders...), s.orders...)
	s.mu.Unlock()

	return orders, ok
}

func (s *OrderSyncService) settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

func isCancellation(status string) bool {
	return status != "" && strings.Contains(strings.ToLower(status), "hủy")
}
