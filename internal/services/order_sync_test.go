package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hienmauto/internal/models"
)

type syncFixture struct {
	sync      *OrderSyncService
	script    *scriptRecorder
	updateOne *webhookRecorder
	bulk      *webhookRecorder
	deleted   *webhookRecorder
	added     *webhookRecorder

	csvMu   sync.Mutex
	csvBody string

	servers []*httptest.Server
}

func (f *syncFixture) setCSV(body string) {
	f.csvMu.Lock()
	f.csvBody = body
	f.csvMu.Unlock()
}

func (f *syncFixture) close() {
	for _, server := range f.servers {
		server.Close()
	}
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	f := &syncFixture{
		script:    &scriptRecorder{},
		updateOne: &webhookRecorder{},
		bulk:      &webhookRecorder{},
		deleted:   &webhookRecorder{},
		added:     &webhookRecorder{},
	}

	csvServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f.csvMu.Lock()
		body := f.csvBody
		f.csvMu.Unlock()
		io.WriteString(w, body)
	}))
	scriptServer := httptest.NewServer(f.script.handler())
	addServer := httptest.NewServer(f.added.handler())
	oneServer := httptest.NewServer(f.updateOne.handler())
	bulkServer := httptest.NewServer(f.bulk.handler())
	delServer := httptest.NewServer(f.deleted.handler())
	f.servers = []*httptest.Server{csvServer, scriptServer, addServer, oneServer, bulkServer, delServer}
	t.Cleanup(f.close)

	codec := NewSheetCodec(nil)
	sheet := NewSheetService(csvServer.URL, scriptServer.URL, codec, time.Second, 0)
	n8n := NewN8NService(N8NEndpoints{
		Add:        addServer.URL,
		UpdateOne:  oneServer.URL,
		UpdateBulk: bulkServer.URL,
		Delete:     delServer.URL,
	}, codec, time.Second)

	f.sync = NewOrderSyncService(sheet, n8n, time.Millisecond, time.Millisecond)
	return f
}

func TestRefreshLoadsSheet(t *testing.T) {
	f := newSyncFixture(t)
	f.setCSV("header\nDH001,,,,,,,A,,100\nDH002,,,,,,,B,,200\n")

	orders := f.sync.Refresh(context.Background())
	require.Len(t, orders, 2)
	assert.Equal(t, "DH002", orders[0].ID)
	assert.Equal(t, orders, f.sync.Orders())
}

func TestBulkUpdateSingleOrderRoutesToUpdateOne(t *testing.T) {
	f := newSyncFixture(t)
	f.setCSV("header\nDH001,,,,,,,A,,100,Đã gửi hàng\nDH002,,,,,,,B,,200\n")
	f.sync.Refresh(context.Background())

	n := f.sync.BulkUpdate(context.Background(), []string{"DH001"}, "Đã gửi hàng", "")
	assert.Equal(t, 1, n)

	require.Len(t, f.updateOne.recorded(), 1)
	assert.Empty(t, f.bulk.recorded())
	assert.Empty(t, f.deleted.recorded())

	payloads := f.script.recorded()
	require.Len(t, payloads, 1)
	assert.Equal(t, "updateBatch", payloads[0]["action"])
}

func TestBulkUpdateManyRoutesToBulkWebhook(t *testing.T) {
	f := newSyncFixture(t)
	f.setCSV("header\nDH001,,,,,,,A,,100\nDH002,,,,,,,B,,200\n")
	f.sync.Refresh(context.Background())

	n := f.sync.BulkUpdate(context.Background(), []string{"DH001", "DH002"}, "Đã gửi hàng", "")
	assert.Equal(t, 2, n)

	calls := f.bulk.recorded()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].body, 2)
	assert.Empty(t, f.updateOne.recorded())
	assert.Empty(t, f.deleted.recorded())
}

func TestBulkUpdateCancellationRoutesToDeleteWebhook(t *testing.T) {
	f := newSyncFixture(t)
	f.setCSV("header\nDH001,,,,,,,A,,100\n")
	f.sync.Refresh(context.Background())

	n := f.sync.BulkUpdate(context.Background(), []string{"DH001"}, "Khách hủy đơn", "")
	assert.Equal(t, 1, n)

	require.Len(t, f.deleted.recorded(), 1, "a cancellation status announces a deletion")
	assert.Empty(t, f.updateOne.recorded())
	assert.Empty(t, f.bulk.recorded())

	// The row itself is rewritten, not removed.
	payloads := f.script.recorded()
	require.Len(t, payloads, 1)
	assert.Equal(t, "updateBatch", payloads[0]["action"])
}

func TestBulkUpdateNoMatches(t *testing.T) {
	f := newSyncFixture(t)
	f.setCSV("header\nDH001,,,,,,,A,,100\n")
	f.sync.Refresh(context.Background())

	n := f.sync.BulkUpdate(context.Background(), []string{"missing"}, "Đã gửi hàng", "")
	assert.Equal(t, 0, n)
	assert.Empty(t, f.script.recorded(), "no matches, no network")
}

func TestBulkDeleteRemovesLocallyAndRemotely(t *testing.T) {
	f := newSyncFixture(t)
	f.setCSV("header\nDH001,,,,,,,A,,100\nDH002,,,,,,,B,,200\nDH003,,,,,,,C,,300\n")
	f.sync.Refresh(context.Background())

	// Subsequent refetches no longer contain the deleted rows.
	f.setCSV("header\nDH002,,,,,,,B,,200\n")

	n := f.sync.BulkDelete(context.Background(), []string{"DH001", "DH003"})
	assert.Equal(t, 2, n)

	payloads := f.script.recorded()
	require.Len(t, payloads, 2)
	assert.Equal(t, "delete", payloads[0]["action"])
	assert.Equal(t, float64(4), payloads[0]["id"], "higher row index deleted first")
	assert.Equal(t, float64(2), payloads[1]["id"])

	orders := f.sync.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "DH002", orders[0].ID)
}

func TestBulkDeleteUnpersistedSkipsNetwork(t *testing.T) {
	f := newSyncFixture(t)

	created, ok := f.sync.Create(context.Background(), []models.Order{{CustomerName: "Mới"}})
	require.True(t, ok)
	require.Len(t, created, 1)

	f.script.mu.Lock()
	f.script.payloads = nil
	f.script.mu.Unlock()

	n := f.sync.BulkDelete(context.Background(), []string{created[0].ID})
	assert.Equal(t, 1, n)
	assert.Empty(t, f.script.recorded(), "an order that never reached the sheet has no row to delete")
	assert.Empty(t, f.sync.Orders())
}

func TestCreatePrependsAndGeneratesID(t *testing.T) {
	f := newSyncFixture(t)
	f.setCSV("header\nDH001,,,,,,,A,,100\n")
	f.sync.Refresh(context.Background())

	created, ok := f.sync.Create(context.Background(), []models.Order{{CustomerName: "Trần E", TotalAmount: 500}})
	require.True(t, ok)
	require.Len(t, created, 1)

	assert.True(t, strings.HasPrefix(created[0].ID, GeneratedIDPrefix))
	assert.False(t, created[0].Persisted(), "a new order has no row index until the next refetch")
	assert.Equal(t, "Đã in bill", created[0].Status)
	assert.Equal(t, "Shopee", created[0].Platform)

	orders := f.sync.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, created[0].ID, orders[0].ID, "new orders go to the top of the list")

	require.Len(t, f.added.recorded(), 1)

	payloads := f.script.recorded()
	require.Len(t, payloads, 1)
	assert.Equal(t, "add", payloads[0]["action"])
}

func TestStaleRefreshDiscarded(t *testing.T) {
	f := newSyncFixture(t)
	f.setCSV("header\nDH001,,,,,,,A,,100\n")

	// Simulate an old in-flight refetch landing after a newer one: the newer
	// snapshot was issued and applied later, so the older result must not win.
	stale := f.sync.issueSeq.Add(1)

	f.sync.Refresh(context.Background())
	require.Len(t, f.sync.Orders(), 1)

	staleSnapshot := []models.Order{}
	f.sync.mu.Lock()
	if stale > f.sync.appliedSeq {
		f.sync.orders = staleSnapshot
		f.sync.appliedSeq = stale
	}
	f.sync.mu.Unlock()

	assert.Len(t, f.sync.Orders(), 1, "the stale empty snapshot must be discarded")
}

func TestLoadingFlagDuringMutation(t *testing.T) {
	f := newSyncFixture(t)
	f.setCSV("header\nDH001,,,,,,,A,,100\n")
	f.sync.Refresh(context.Background())

	assert.False(t, f.sync.Loading())
	done := make(chan struct{})
	go func() {
		f.sync.BulkUpdate(context.Background(), []string{"DH001"}, "Đã gửi hàng", "")
		close(done)
	}()
	<-done
	assert.False(t, f.sync.Loading(), "flag clears once the sequence finishes")
}
