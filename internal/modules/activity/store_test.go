package activity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data    map[string]string
	getErr  error
	setErr  error
	setHits int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.data[key], nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.setHits++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func TestStoreRoundTrip(t *testing.T) {
	kv := newFakeKV()
	store := NewStore(kv, nil)
	ctx := context.Background()

	ts := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	store.Append(ctx, Entry{Message: "Added manga \"Berserk\"", Timestamp: ts})

	entries := store.Load(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "Added manga \"Berserk\"", entries[0].Message)
	assert.True(t, entries[0].Timestamp.Equal(ts))
}

func TestStoreNewestFirst(t *testing.T) {
	kv := newFakeKV()
	store := NewStore(kv, nil)
	ctx := context.Background()

	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		store.Append(ctx, Entry{
			Message:   fmt.Sprintf("event %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}

	entries := store.Load(ctx)
	require.Len(t, entries, 3)
	assert.Equal(t, "event 2", entries[0].Message)
	assert.Equal(t, "event 1", entries[1].Message)
	assert.Equal(t, "event 0", entries[2].Message)
}

func TestStoreBounded(t *testing.T) {
	kv := newFakeKV()
	store := NewStore(kv, nil)
	ctx := context.Background()

	for i := 0; i < MaxEntries+20; i++ {
		store.Append(ctx, Entry{Message: fmt.Sprintf("event %d", i), Timestamp: time.Now()})
	}

	entries := store.Load(ctx)
	require.Len(t, entries, MaxEntries)
	// newest kept, oldest evicted
	assert.Equal(t, fmt.Sprintf("event %d", MaxEntries+19), entries[0].Message)
	assert.Equal(t, "event 20", entries[MaxEntries-1].Message)
}

func TestStoreLoadEmpty(t *testing.T) {
	store := NewStore(newFakeKV(), nil)
	entries := store.Load(context.Background())
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestStoreLoadUnparsable(t *testing.T) {
	kv := newFakeKV()
	kv.data[StorageKey] = "{not json"
	store := NewStore(kv, nil)

	assert.Empty(t, store.Load(context.Background()))

	// a fresh append starts the log over
	store.Append(context.Background(), Entry{Message: "restart", Timestamp: time.Now()})
	entries := store.Load(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, "restart", entries[0].Message)
}

func TestStoreLoadDropsBlankRecords(t *testing.T) {
	kv := newFakeKV()
	kv.data[StorageKey] = `[{"message":"","ts":"2026-08-29T10:00:00Z"},{"message":"kept","ts":"2026-08-29T10:01:00Z"},{"message":"   ","ts":"2026-08-29T10:02:00Z"}]`
	store := NewStore(kv, nil)

	entries := store.Load(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}

func TestStoreLoadBadTimestampDefaultsToNow(t *testing.T) {
	kv := newFakeKV()
	kv.data[StorageKey] = `[{"message":"odd clock","ts":"yesterday-ish"}]`
	store := NewStore(kv, nil)

	before := time.Now()
	entries := store.Load(context.Background())
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Timestamp.Before(before.Add(-time.Second)))
}

func TestStoreAbsorbsKVFailures(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	store := NewStore(kv, nil)

	assert.Empty(t, store.Load(context.Background()))

	kv.getErr = nil
	kv.setErr = errors.New("connection refused")
	store.Append(context.Background(), Entry{Message: "lost", Timestamp: time.Now()})
	assert.Empty(t, store.Load(context.Background()))
}
