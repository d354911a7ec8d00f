package proxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"anime":[]}`))
	}))
	defer srv.Close()

	svc := NewService(func(string) (string, error) { return srv.URL, nil }, nil, nil)

	body, err := svc.Fetch(context.Background(), "anime")
	require.NoError(t, err)
	assert.Equal(t, `{"anime":[]}`, body)
}

func TestFetchUnknownSource(t *testing.T) {
	svc := NewService(func(string) (string, error) { return "", nil }, nil, nil)

	_, err := svc.Fetch(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestFetchSourceLookupError(t *testing.T) {
	boom := errors.New("settings unavailable")
	svc := NewService(func(string) (string, error) { return "", boom }, nil, nil)

	_, err := svc.Fetch(context.Background(), "anime")
	assert.ErrorIs(t, err, boom)
}

func TestFetchUpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := NewService(func(string) (string, error) { return srv.URL, nil }, nil, nil)

	_, err := svc.Fetch(context.Background(), "anime")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFetchUnreachableUpstream(t *testing.T) {
	svc := NewService(func(string) (string, error) { return "http://127.0.0.1:1/feed", nil }, nil, nil)

	_, err := svc.Fetch(context.Background(), "anime")
	assert.ErrorIs(t, err, ErrUpstream)
}
