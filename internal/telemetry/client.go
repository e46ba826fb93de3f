package telemetry

import (
	"io"
	"time"

	"github.com/posthog/posthog-go"
)

// Client is the capability interface for the telemetry sink. Implementations
// must never block or fail the main flow; absence of a sink is expressed by
// injecting NoopClient, not by presence checks at call sites.
type Client interface {
	// Capture sends an event for the given distinct identifier.
	Capture(distinctID, event string, properties map[string]any)

	// Identify tags the distinct identifier with person properties.
	Identify(distinctID string, properties map[string]any)

	// Close flushes pending events and closes the client.
	Close() error
}

// enqueuer is the subset of the PostHog client used here; it exists so tests
// can substitute a capturing fake.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient delivers events to PostHog asynchronously.
type PostHogClient struct {
	client enqueuer
}

// NewPostHogClient builds a telemetry client. An empty API key yields a
// NoopClient so callers never branch on configuration.
func NewPostHogClient(apiKey, endpoint string) (Client, error) {
	if apiKey == "" {
		return NewNoopClient(), nil
	}

	cfg := posthog.Config{
		BatchSize: 10,
		Interval:  time.Second,
		// Transport warnings must not leak into application output.
		Logger: quietLogger{},
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	client, err := posthog.NewWithConfig(apiKey, cfg)
	if err != nil {
		return nil, err
	}
	return &PostHogClient{client: client}, nil
}

func (c *PostHogClient) Capture(distinctID, event string, properties map[string]any) {
	if c.client == nil || distinctID == "" {
		return
	}
	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: props,
	})
}

func (c *PostHogClient) Identify(distinctID string, properties map[string]any) {
	if c.client == nil || distinctID == "" {
		return
	}
	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	_ = c.client.Enqueue(posthog.Identify{
		DistinctId: distinctID,
		Properties: props,
	})
}

func (c *PostHogClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// NoopClient discards everything. Injected when no sink is configured or the
// sink is unavailable.
type NoopClient struct{}

func NewNoopClient() *NoopClient { return &NoopClient{} }

func (*NoopClient) Capture(string, string, map[string]any) {}

func (*NoopClient) Identify(string, map[string]any) {}

func (*NoopClient) Close() error { return nil }

var (
	_ Client = (*PostHogClient)(nil)
	_ Client = (*NoopClient)(nil)
)

// quietLogger suppresses PostHog client logs.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
