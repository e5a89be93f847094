// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/admissions/internal/auth"
	"github.com/tomtom215/admissions/internal/ingest"
	"github.com/tomtom215/admissions/internal/logging"
	"github.com/tomtom215/admissions/internal/metrics"
	"github.com/tomtom215/admissions/internal/models"
)

// Config holds Bus settings.
type Config struct {
	// OutputBuffer is the per-subscriber channel buffer.
	OutputBuffer int64

	// CloseTimeout is how long the router waits for in-flight handlers.
	CloseTimeout time.Duration

	// RetryMaxRetries applies to every handler.
	RetryMaxRetries int
}

// DefaultConfig returns production defaults for the Bus.
func DefaultConfig() Config {
	return Config{
		OutputBuffer:    256,
		CloseTimeout:    10 * time.Second,
		RetryMaxRetries: 3,
	}
}

type handlerReg struct {
	name  string
	topic string
	fn    message.NoPublishHandlerFunc
}

// Bus publishes domain events and runs their handlers.
type Bus struct {
	cfg    Config
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu          sync.Mutex
	handlers    []handlerReg
	running     chan struct{}
	runningOnce sync.Once
}

// NewBus creates a Bus with the logging handlers for both topics registered.
func NewBus(cfg Config) *Bus {
	if cfg.OutputBuffer <= 0 {
		cfg.OutputBuffer = DefaultConfig().OutputBuffer
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = DefaultConfig().CloseTimeout
	}

	logger := watermill.NewSlogLogger(logging.NewSlogLogger())

	b := &Bus{
		cfg: cfg,
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.OutputBuffer,
		}, logger),
		logger:  logger,
		running: make(chan struct{}),
	}

	b.Handle("log-admission-created", TopicAdmissionCreated, logCreated)
	b.Handle("log-admissions-reloaded", TopicAdmissionsReloaded, logReloaded)
	return b
}

// Handle registers a consumer. Handlers added after Serve starts take
// effect on the next restart of the router.
func (b *Bus) Handle(name, topic string, fn message.NoPublishHandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handlerReg{name: name, topic: topic, fn: counted(topic, fn)})
}

// counted records a handled event once fn succeeds.
func counted(topic string, fn message.NoPublishHandlerFunc) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		if err := fn(msg); err != nil {
			return err
		}
		metrics.RecordEvent(topic, "handled")
		return nil
	}
}

// Running is closed once the router has subscribed every handler for the
// first time. Events published before then are dropped.
func (b *Bus) Running() <-chan struct{} {
	return b.running
}

// Serve implements suture.Service. Each call builds a fresh router over the
// shared pub/sub, so a supervisor restart re-subscribes cleanly.
func (b *Bus) Serve(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: b.cfg.CloseTimeout}, b.logger)
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}

	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      b.cfg.RetryMaxRetries,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     time.Second,
			Multiplier:      2,
			Logger:          b.logger,
		}.Middleware,
	)

	b.mu.Lock()
	for _, h := range b.handlers {
		router.AddConsumerHandler(h.name, h.topic, b.pubsub, h.fn)
	}
	b.mu.Unlock()

	go func() {
		select {
		case <-router.Running():
			b.runningOnce.Do(func() { close(b.running) })
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture logs.
func (b *Bus) String() string {
	return "event-bus"
}

// Close shuts down the pub/sub. Call after the router has stopped.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// PublishCreated publishes admission.created.
func (b *Bus) PublishCreated(ctx context.Context, a models.Admission) error {
	return b.publish(ctx, TopicAdmissionCreated, AdmissionCreated{Admission: a})
}

// PublishReloaded publishes admissions.reloaded. It satisfies ingest.Publisher.
func (b *Bus) PublishReloaded(ctx context.Context, stats ingest.Stats) error {
	return b.publish(ctx, TopicAdmissionsReloaded, reloadedFromStats(stats))
}

func (b *Bus) publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		msg.Metadata.Set(MetadataActor, claims.Username)
	}

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.RecordEvent(topic, "published")
	return nil
}

var _ ingest.Publisher = (*Bus)(nil)
