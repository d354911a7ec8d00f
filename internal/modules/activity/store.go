package activity

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	pkgredis "github.com/imok-coding/otakulib/internal/pkg/redis"
	"go.uber.org/zap"
)

const (
	// StorageKey is the key the serialized activity log lives under.
	StorageKey = "mangaLibraryActivityLog"
	// MaxEntries bounds the persisted log; the oldest entries are evicted.
	MaxEntries = 100
)

// KV is the minimal key-value surface the store needs. Backed by Redis in
// production and by a map fake in tests.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type redisKV struct{ rc *pkgredis.Client }

// NewRedisKV adapts the application Redis client to the store's KV surface.
func NewRedisKV(rc *pkgredis.Client) KV {
	return redisKV{rc: rc}
}

func (r redisKV) Get(ctx context.Context, key string) (string, error) {
	return r.rc.Get(ctx, key)
}

func (r redisKV) Set(ctx context.Context, key, value string) error {
	return r.rc.Set(ctx, key, value, 0)
}

// storedEntry is the wire form of an Entry: ts is ISO-8601.
type storedEntry struct {
	Message string `json:"message"`
	TS      string `json:"ts"`
}

// Store is an append-only, capacity-bounded activity log persisted as a
// JSON array under StorageKey, newest-first.
type Store struct {
	kv     KV
	logger *zap.Logger
}

func NewStore(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// Load reads the persisted log. Malformed records are discarded; a missing
// or unparsable log yields an empty sequence. Never returns an error.
func (s *Store) Load(ctx context.Context) []Entry {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("activity log read failed", zap.Error(err))
		return []Entry{}
	}
	if strings.TrimSpace(raw) == "" {
		return []Entry{}
	}

	var stored []storedEntry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("activity log unparsable, starting empty", zap.Error(err))
		return []Entry{}
	}

	entries := make([]Entry, 0, len(stored))
	for _, rec := range stored {
		if strings.TrimSpace(rec.Message) == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, rec.TS)
		if err != nil {
			ts = time.Now()
		}
		entries = append(entries, Entry{Message: rec.Message, Timestamp: ts})
	}
	return entries
}

// Append prepends the entry, truncates to MaxEntries and persists the
// result. Persistence failures are logged and absorbed.
func (s *Store) Append(ctx context.Context, entry Entry) {
	entries := append([]Entry{entry}, s.Load(ctx)...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	stored := make([]storedEntry, len(entries))
	for i, e := range entries {
		stored[i] = storedEntry{
			Message: e.Message,
			TS:      e.Timestamp.Format(time.RFC3339),
		}
	}

	data, err := json.Marshal(stored)
	if err != nil {
		s.logger.Warn("activity log serialize failed", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Warn("activity log persist failed", zap.Error(err))
	}
}
