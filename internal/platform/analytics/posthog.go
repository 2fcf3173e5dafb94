// Package analytics forwards product events to PostHog. An empty API key yields a
// client that silently drops everything.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

const defaultEndpoint = "https://eu.i.posthog.com"

// Tracker records a named event for a user.
type Tracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}

// PosthogClient wraps posthog.Client so callers need not care whether it was configured.
type PosthogClient struct {
	client posthog.Client
	logger *slog.Logger
}

var _ Tracker = (*PosthogClient)(nil)

// NewPosthogClient creates the client. endpoint may be empty.
func NewPosthogClient(apiKey, endpoint string, logger *slog.Logger) *PosthogClient {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClient{logger: logger}
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &PosthogClient{logger: logger}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &PosthogClient{client: client, logger: logger}
}

func (w *PosthogClient) IsInitialized() bool {
	return w != nil && w.client != nil
}

func (w *PosthogClient) Enqueue(distinctID string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	w.logger.Debug("Enqueueing event", slog.String("distinct_id", distinctID), slog.String("event", event))
	if err := w.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil {
		w.logger.Warn("Failed to enqueue posthog event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (w *PosthogClient) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.client.Close(); err != nil {
		w.logger.Warn("Failed to close posthog client", slog.String("error", err.Error()))
	}
}
