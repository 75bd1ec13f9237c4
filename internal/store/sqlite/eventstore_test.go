package sqlite_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store/sqlite"
)

func setupTestDB(t *testing.T) (*sqlite.Store, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "eventstore-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	tmpFile.Close()

	db, err := sqlite.OpenDB(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("open database: %v", err)
	}

	store, err := sqlite.NewStore(db, "testsvc", nil)
	if err != nil {
		db.Close()
		os.Remove(tmpFile.Name())
		t.Fatalf("create store: %v", err)
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		db.Close()
		os.Remove(tmpFile.Name())
		t.Fatalf("ensure schema: %v", err)
	}

	return store, func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}
}

func mustDrain(t *testing.T, cur domain.Cursor) []domain.Envelope {
	t.Helper()
	envs, err := domain.Drain(context.Background(), cur)
	if err != nil {
		t.Fatalf("drain cursor: %v", err)
	}
	return envs
}

func TestStore_AppendAndReadStream(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	err := store.Append(ctx, "Orders", "order-1", 0, []domain.AppendEvent{
		{EventType: "OrderPlaced", Data: []byte(`{"sku":"abc"}`)},
	}, nil)
	if err != nil {
		t.Fatalf("append first event: %v", err)
	}

	events, err := store.ReadStream(ctx, "Orders", "order-1", nil, 0, 10)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType != "OrderPlaced" || events[0].Version != 1 {
		t.Errorf("unexpected first event: %+v", events[0])
	}

	err = store.Append(ctx, "Orders", "order-1", 1, []domain.AppendEvent{
		{EventType: "OrderShipped", Data: []byte(`{}`)},
	}, nil)
	if err != nil {
		t.Fatalf("append second event: %v", err)
	}

	events, err = store.ReadStream(ctx, "Orders", "order-1", nil, 0, 10)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].EventType != "OrderShipped" || events[1].Version != 2 {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}

func TestStore_Append_PersistsNamespaceAndFiltersOnRead(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	err := store.Append(ctx, "Orders", "order-ns", 0, []domain.AppendEvent{
		{Namespace: "billing", EventType: "InvoiceIssued", Data: []byte(`{}`)},
		{Namespace: "shipping", EventType: "LabelPrinted", Data: []byte(`{}`)},
	}, nil)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := store.ReadStream(ctx, "Orders", "order-ns", nil, 0, 10)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(all) != 2 || all[0].Namespace != "billing" || all[1].Namespace != "shipping" {
		t.Fatalf("unexpected events: %+v", all)
	}

	billing := "billing"
	filtered, err := store.ReadStream(ctx, "Orders", "order-ns", &billing, 0, 10)
	if err != nil {
		t.Fatalf("read stream with namespace filter: %v", err)
	}
	if len(filtered) != 1 || filtered[0].EventType != "InvoiceIssued" {
		t.Fatalf("filtered = %+v, want only InvoiceIssued", filtered)
	}
}

func TestStore_ConcurrencyConflict(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	err := store.Append(ctx, "Orders", "order-2", 0, []domain.AppendEvent{
		{EventType: "OrderPlaced", Data: []byte(`{}`)},
	}, nil)
	if err != nil {
		t.Fatalf("append first event: %v", err)
	}

	err = store.Append(ctx, "Orders", "order-2", 0, []domain.AppendEvent{
		{EventType: "OrderShipped", Data: []byte(`{}`)},
	}, nil)

	var conflict *domain.ConcurrencyConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConcurrencyConflictError, got %v", err)
	}
	if conflict.ExpectedVersion != 0 || conflict.ActualVersion != 1 {
		t.Errorf("unexpected conflict details: %+v", conflict)
	}
}

func TestStore_ReadAllForwards(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := store.Append(ctx, "Orders", "order-"+string(rune('a'+i)), 0, []domain.AppendEvent{
			{EventType: "OrderPlaced", Data: []byte(`{}`)},
		}, nil)
		if err != nil {
			t.Fatalf("append event %d: %v", i, err)
		}
	}

	cur := store.ReadAllForwards(ctx, nil, nil, 0, 2)
	events := mustDrain(t, cur)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].GlobalPosition <= events[i-1].GlobalPosition {
			t.Errorf("positions not strictly increasing at %d", i)
		}
	}
}

func TestStore_GetStreamHeader(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	header, err := store.GetStreamHeader(ctx, "Orders", "order-missing")
	if err != nil {
		t.Fatalf("get header: %v", err)
	}
	if header != nil {
		t.Fatalf("expected nil header for unknown stream, got %+v", header)
	}

	err = store.Append(ctx, "Orders", "order-3", 0, []domain.AppendEvent{
		{EventType: "OrderPlaced", Data: []byte(`{}`)},
	}, nil)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	header, err = store.GetStreamHeader(ctx, "Orders", "order-3")
	if err != nil {
		t.Fatalf("get header: %v", err)
	}
	if header == nil || header.LastVersion != 1 {
		t.Fatalf("expected header with LastVersion 1, got %+v", header)
	}
}

func TestStore_ReadStream_Empty(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	events, err := store.ReadStream(ctx, "Orders", "order-missing", nil, 0, 10)
	if err != nil {
		t.Fatalf("read empty stream: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected 0 events for non-existent stream, got %d", len(events))
	}
}
