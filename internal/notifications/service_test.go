package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquarius/internal/config"
	"aquarius/internal/notifications"
)

type received struct {
	title    string
	priority string
	body     string
}

func newTopicServer(t *testing.T, sink *[]received) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*sink = append(*sink, received{
			title:    r.Header.Get("Title"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func configWithTopic(topic string) *config.Config {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = topic
	return &cfg
}

func TestStageCompletedNotification(t *testing.T) {
	var sink []received
	server := newTopicServer(t, &sink)
	service := notifications.NewService(configWithTopic(server.URL))

	if err := service.NotifyStageCompleted(context.Background(), "accession", 3, 0); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sink))
	}
	if sink[0].body != "accession: 3 processed, 0 failed" {
		t.Fatalf("unexpected body %q", sink[0].body)
	}
	if sink[0].priority != "" {
		t.Fatalf("clean run should not raise priority, got %q", sink[0].priority)
	}

	if err := service.NotifyStageCompleted(context.Background(), "accession", 2, 1); err != nil {
		t.Fatalf("notify with failures: %v", err)
	}
	if sink[1].priority != "high" {
		t.Fatalf("failures should raise priority, got %q", sink[1].priority)
	}
}

func TestErrorNotificationRespectsToggle(t *testing.T) {
	var sink []received
	server := newTopicServer(t, &sink)

	cfg := configWithTopic(server.URL)
	cfg.Notifications.Errors = false
	service := notifications.NewService(cfg)
	if err := service.NotifyError(context.Background(), errors.New("boom"), "accession"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink) != 0 {
		t.Fatal("disabled error notifications should not send")
	}
}

func TestUnconfiguredServiceIsNoop(t *testing.T) {
	service := notifications.NewService(configWithTopic(""))
	if err := service.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop service should never fail: %v", err)
	}
}
