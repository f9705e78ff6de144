// Package notify announces diploma requests to the teams that issue them.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sotadiploma/internal/diplomalog/models"
	"sotadiploma/internal/platform/database"
	"sotadiploma/internal/platform/kafka/producer"
	"sotadiploma/internal/summit"
	"sotadiploma/pkg/requestcontext"
)

const EventDiplomaRequested = "diploma.requested"

// DiplomaRequested is the event body written for each new log entry.
type DiplomaRequested struct {
	EventID     string                  `json:"eventId"`
	EventType   string                  `json:"eventType"`
	OccurredAt  time.Time               `json:"occurredAt"`
	RequestID   string                  `json:"requestId,omitempty"`
	EntryID     string                  `json:"entryId"`
	CallSign    string                  `json:"callSign"`
	Mail        string                  `json:"mail"`
	Name        string                  `json:"name"`
	Category    string                  `json:"category"`
	Rank        string                  `json:"rank"`
	Activations map[summit.Region]int64 `json:"activations"`
	CreatedOn   string                  `json:"createdOn"`
	Language    string                  `json:"language"`
}

func newEvent(ctx context.Context, e *models.Entry) DiplomaRequested {
	return DiplomaRequested{
		EventID:     uuid.NewString(),
		EventType:   EventDiplomaRequested,
		OccurredAt:  requestcontext.Now(ctx).UTC(),
		RequestID:   requestcontext.RequestID(ctx),
		EntryID:     e.ID,
		CallSign:    e.CallSign,
		Mail:        e.Mail,
		Name:        e.Name,
		Category:    string(e.Category),
		Rank:        string(e.Rank),
		Activations: e.Activations,
		CreatedOn:   database.FormatDate(e.CreatedOn),
		Language:    e.Language,
	}
}

// Sink is the transport a KafkaPublisher writes to.
type Sink interface {
	Publish(ctx context.Context, msg producer.Message) error
}

// KafkaPublisher writes one DiplomaRequested event per entry, keyed by call
// sign so the requests of one operator stay ordered.
type KafkaPublisher struct {
	sink   Sink
	topic  string
	logger *slog.Logger
}

type Option func(*KafkaPublisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

func NewKafkaPublisher(sink Sink, topic string, opts ...Option) (*KafkaPublisher, error) {
	if sink == nil {
		return nil, errors.New("kafka sink is required")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	p := &KafkaPublisher{
		sink:   sink,
		topic:  topic,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *KafkaPublisher) PublishRequested(ctx context.Context, e *models.Entry) error {
	event := newEvent(ctx, e)
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", EventDiplomaRequested, err)
	}
	err = p.sink.Publish(ctx, producer.Message{
		Topic: p.topic,
		Key:   []byte(e.CallSign),
		Value: body,
		Headers: map[string]string{
			"event_type": EventDiplomaRequested,
			"event_id":   event.EventID,
		},
	})
	if err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "diploma request published", "entry_id", e.ID, "topic", p.topic)
	return nil
}

// LogPublisher writes the event to the log. It is used when no brokers are
// configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishRequested(ctx context.Context, e *models.Entry) error {
	event := newEvent(ctx, e)
	p.logger.InfoContext(ctx, "diploma request pending review",
		"event_id", event.EventID,
		"entry_id", event.EntryID,
		"call_sign", event.CallSign,
		"category", event.Category,
		"rank", event.Rank,
		"language", event.Language,
	)
	return nil
}
