package activity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureServer(t *testing.T, status int) (*httptest.Server, *[]string) {
	t.Helper()
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func TestNotifyPayloadShape(t *testing.T) {
	srv, bodies := captureServer(t, http.StatusNoContent)

	n := NewNotifier(NewResolver(func() (string, error) { return srv.URL, nil }), nil)
	n.Notify(context.Background(), "Added manga \"Berserk\"", "xcnya", nil)

	require.Len(t, *bodies, 1)
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte((*bodies)[0]), &payload))

	lines := strings.Split(payload["content"], "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Added manga \"Berserk\"", lines[0])
	assert.Equal(t, "xcnya", lines[1])

	_, err := time.Parse("2006/01/02 15:04:05", lines[2])
	assert.NoError(t, err)
}

func TestNotifyAnonymousLabel(t *testing.T) {
	srv, bodies := captureServer(t, http.StatusOK)

	n := NewNotifier(NewResolver(func() (string, error) { return srv.URL, nil }), nil)
	n.Notify(context.Background(), "Liked post \"Hello\"", "  ", nil)

	require.Len(t, *bodies, 1)
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte((*bodies)[0]), &payload))
	assert.Equal(t, "anonymous", strings.Split(payload["content"], "\n")[1])
}

func TestNotifyTargetOverride(t *testing.T) {
	srv, bodies := captureServer(t, http.StatusOK)

	// resolver would panic the test if consulted
	n := NewNotifier(NewResolver(func() (string, error) {
		t.Fatal("resolver consulted despite override")
		return "", nil
	}), nil)

	target := srv.URL
	n.Notify(context.Background(), "msg", "me", &target)
	assert.Len(t, *bodies, 1)
}

func TestNotifyEmptyOverrideIsNoop(t *testing.T) {
	srv, bodies := captureServer(t, http.StatusOK)

	n := NewNotifier(NewResolver(func() (string, error) { return srv.URL, nil }), nil)
	empty := "   "
	n.Notify(context.Background(), "msg", "me", &empty)
	assert.Empty(t, *bodies)
}

func TestNotifySwallowsFailures(t *testing.T) {
	// unreachable target: must not panic or block beyond the client timeout
	url := "http://127.0.0.1:1/webhook"
	n := NewNotifier(NewResolver(func() (string, error) { return url, nil }), nil)
	n.Notify(context.Background(), "msg", "me", nil)

	// rejecting target: also absorbed
	srv, _ := captureServer(t, http.StatusForbidden)
	target := srv.URL
	n.Notify(context.Background(), "msg", "me", &target)
}
