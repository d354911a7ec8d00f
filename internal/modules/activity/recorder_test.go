package activity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T, kv *fakeKV, targetURL string) *Recorder {
	t.Helper()
	store := NewStore(kv, nil)
	notifier := NewNotifier(NewResolver(func() (string, error) { return targetURL, nil }), nil)
	return NewRecorder(store, notifier)
}

func TestRecordPersistsAndNotifies(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	kv := newFakeKV()
	rec := newTestRecorder(t, kv, srv.URL)

	entry := rec.Record(context.Background(), "Added manga \"Berserk\"", Options{IdentityName: "xcnya"})

	require.NotNil(t, entry)
	assert.Equal(t, "Added manga \"Berserk\"", entry.Message)
	assert.Equal(t, 1, hits)

	entries := NewStore(kv, nil).Load(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, "Added manga \"Berserk\"", entries[0].Message)
}

func TestRecordEmptyMessageIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("webhook called for empty message")
	}))
	defer srv.Close()

	kv := newFakeKV()
	rec := newTestRecorder(t, kv, srv.URL)

	assert.Nil(t, rec.Record(context.Background(), "", Options{}))
	assert.Nil(t, rec.Record(context.Background(), "   \t  ", Options{}))
	assert.Zero(t, kv.setHits)
}

func TestRecordTrimsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	rec := newTestRecorder(t, newFakeKV(), srv.URL)
	entry := rec.Record(context.Background(), "  trimmed  ", Options{})
	require.NotNil(t, entry)
	assert.Equal(t, "trimmed", entry.Message)
}

func TestRecordSurvivesUnreachableWebhook(t *testing.T) {
	kv := newFakeKV()
	rec := newTestRecorder(t, kv, "http://127.0.0.1:1/webhook")

	entry := rec.Record(context.Background(), "Updated post \"Hello\"", Options{IdentityEmail: "me@example.com"})

	// local log still written, caller unaffected
	require.NotNil(t, entry)
	entries := NewStore(kv, nil).Load(context.Background())
	require.Len(t, entries, 1)
}

func TestRecordSkipLocal(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	kv := newFakeKV()
	rec := newTestRecorder(t, kv, srv.URL)

	entry := rec.Record(context.Background(), "transient", Options{SkipLocal: true})
	require.NotNil(t, entry)
	assert.Zero(t, kv.setHits)
	assert.Equal(t, 1, hits)
}
