package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers activity messages to the resolved webhook target.
// Delivery is best effort: every failure is logged and absorbed.
type Notifier struct {
	resolver *Resolver
	client   *http.Client
	logger   *zap.Logger
}

func NewNotifier(resolver *Resolver, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		resolver: resolver,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

type notifyPayload struct {
	Content string `json:"content"`
}

// Notify posts a three-line activity message to the webhook. A nil target
// uses the resolver; a non-nil empty target makes the call a silent no-op.
func (n *Notifier) Notify(ctx context.Context, message, identityLabel string, target *string) {
	url := ""
	if target != nil {
		url = strings.TrimSpace(*target)
	} else if n.resolver != nil {
		url = n.resolver.Target()
	}
	if url == "" {
		return
	}

	if strings.TrimSpace(identityLabel) == "" {
		identityLabel = "anonymous"
	}
	content := fmt.Sprintf("%s\n%s\n%s",
		message,
		identityLabel,
		time.Now().Format("2006/01/02 15:04:05"),
	)

	body, err := json.Marshal(notifyPayload{Content: content})
	if err != nil {
		n.logger.Warn("activity notify encode failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("activity notify request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("activity notify failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("activity notify rejected", zap.Int("status", resp.StatusCode))
	}
}
