package activity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverUsesConfiguredTarget(t *testing.T) {
	r := NewResolver(func() (string, error) {
		return "https://hooks.example.com/abc", nil
	})
	assert.Equal(t, "https://hooks.example.com/abc", r.Target())
}

func TestResolverFallsBackOnError(t *testing.T) {
	r := NewResolver(func() (string, error) {
		return "", errors.New("settings unavailable")
	})
	assert.Equal(t, DefaultNotifyURL, r.Target())
}

func TestResolverFallsBackOnEmptyValue(t *testing.T) {
	r := NewResolver(func() (string, error) { return "   ", nil })
	assert.Equal(t, DefaultNotifyURL, r.Target())
}

func TestResolverNilLookup(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, DefaultNotifyURL, r.Target())
}

func TestResolverLooksUpAtMostOnce(t *testing.T) {
	calls := 0
	r := NewResolver(func() (string, error) {
		calls++
		return "https://hooks.example.com/abc", nil
	})

	for i := 0; i < 5; i++ {
		r.Target()
	}
	assert.Equal(t, 1, calls)
}

func TestResolverDoesNotRetryFailedLookup(t *testing.T) {
	calls := 0
	r := NewResolver(func() (string, error) {
		calls++
		return "", errors.New("boom")
	})

	assert.Equal(t, DefaultNotifyURL, r.Target())
	assert.Equal(t, DefaultNotifyURL, r.Target())
	assert.Equal(t, 1, calls)
}
