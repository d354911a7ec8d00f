package activity

import (
	"context"
	"strings"
	"time"
)

// Options tweak a single Record call. The zero value persists locally and
// resolves the identity label to "anonymous".
type Options struct {
	IdentityName   string
	IdentityEmail  string
	TargetOverride *string
	SkipLocal      bool
}

// Recorder is the one public contract surrounding code uses to log an
// action: persist locally, then notify the webhook, swallowing notifier
// failures.
type Recorder struct {
	store    *Store
	notifier *Notifier
}

func NewRecorder(store *Store, notifier *Notifier) *Recorder {
	return &Recorder{store: store, notifier: notifier}
}

// Record logs an action. An empty or whitespace-only message is a no-op
// returning nil. Local persistence happens before notification; the
// notifier is awaited but its failures never reach the caller.
func (r *Recorder) Record(ctx context.Context, message string, opts Options) *Entry {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}

	entry := Entry{Message: message, Timestamp: time.Now()}

	if !opts.SkipLocal {
		r.store.Append(ctx, entry)
	}

	label := opts.IdentityName
	if label == "" {
		label = opts.IdentityEmail
	}
	r.notifier.Notify(ctx, message, label, opts.TargetOverride)

	return &entry
}
