package domain_test

import (
	"context"
	"testing"

	"github.com/cacack/go-eventstore/internal/domain"
)

func TestSliceCursor_Iterates(t *testing.T) {
	envs := []domain.Envelope{
		{GlobalPosition: 1},
		{GlobalPosition: 2},
		{GlobalPosition: 3},
	}
	cur := domain.NewSliceCursor(envs)
	got, err := domain.Drain(context.Background(), cur)
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	for i, e := range got {
		if e.GlobalPosition != int64(i+1) {
			t.Errorf("got[%d].GlobalPosition = %d, want %d", i, e.GlobalPosition, i+1)
		}
	}
}

func TestSliceCursor_EmptyIsNoop(t *testing.T) {
	cur := domain.NewSliceCursor(nil)
	got, err := domain.Drain(context.Background(), cur)
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(got) = %d, want 0", len(got))
	}
}

func TestSliceCursor_RespectsCancellation(t *testing.T) {
	envs := []domain.Envelope{{GlobalPosition: 1}, {GlobalPosition: 2}}
	cur := domain.NewSliceCursor(envs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if cur.Next(ctx) {
		t.Error("Next() after cancellation = true, want false")
	}
	if cur.Err() == nil {
		t.Error("expected Err() to report the cancellation")
	}
}
