package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aquarius/internal/config"
)

const userAgent = "Aquarius-Go/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyStageCompleted(ctx context.Context, stage string, processed, failed int) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		stageOutcomes: cfg.Notifications.StageOutcomes,
		errors:        cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	stageOutcomes bool
	errors        bool
}

func (n *ntfyService) NotifyStageCompleted(ctx context.Context, stage string, processed, failed int) error {
	if !n.stageOutcomes {
		return nil
	}
	data := payload{
		title:   "Aquarius - Stage Complete",
		message: fmt.Sprintf("%s: %d processed, %d failed", stage, processed, failed),
		tags:    []string{"aquarius", "stage", "completed"},
	}
	if failed > 0 {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors || err == nil {
		return nil
	}
	data := payload{
		title:    "Aquarius - Error",
		message:  fmt.Sprintf("%s: %v", contextLabel, err),
		tags:     []string{"aquarius", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "Aquarius - Test",
		message: "Notifications are configured correctly",
		tags:    []string{"aquarius", "test"},
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// NewNoop returns a notification service that discards everything.
func NewNoop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) NotifyStageCompleted(context.Context, string, int, int) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error             { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
