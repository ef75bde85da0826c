package events

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTopic  string = "rack-planner.events"
	defaultSource string = "rack-planner"
)

// Writer is the interface to be implemented by the underlying writer.
type Writer interface {
	Write(ctx context.Context, topic string, m Message) error
	Close(ctx context.Context) error
}

// EventProducer is a wrapper around a Writer with the buffer.
// It has a buffer to store pending events to not block the caller if the writer takes time to write the event.
type EventProducer struct {
	buffer           *buffer
	startConsumingCh chan any
	doneCh           chan any
	stoppedCh        chan any
	writer           Writer
	topic            string
	source           string
}

func NewEventProducer(w Writer, opts ...ProducerOptions) *EventProducer {
	ep := &EventProducer{
		buffer:           newBuffer(),
		startConsumingCh: make(chan any, 1),
		doneCh:           make(chan any),
		stoppedCh:        make(chan any),
		writer:           w,
		topic:            defaultTopic,
		source:           defaultSource,
	}

	for _, o := range opts {
		o(ep)
	}

	go ep.run()
	return ep
}

func (ep *EventProducer) Write(ctx context.Context, kind string, body io.Reader) error {
	d, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	if err := ep.buffer.PushBack(&message{
		Kind: kind,
		Data: d,
	}); err != nil {
		return err
	}

	// wake up the consumer without blocking the caller
	select {
	case ep.startConsumingCh <- struct{}{}:
	default:
	}

	return nil
}

// WriteAudit serializes the audit event and queues it.
func (ep *EventProducer) WriteAudit(ctx context.Context, e AuditEvent) error {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return ep.Write(ctx, AuditMessageKind, bytes.NewReader(data))
}

// Pending returns the number of messages not yet handed to the writer.
func (ep *EventProducer) Pending() int {
	return ep.buffer.Size()
}

func (ep *EventProducer) Close() error {
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(closeCtx)
	g.Go(func() error {
		close(ep.doneCh)
		<-ep.stoppedCh
		return ep.writer.Close(ctx)
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("event producer closed with error: %s", err)
		return err
	}

	zap.S().Named("event producer").Info("event producer closed")

	return nil
}

func (ep *EventProducer) run() {
	defer close(ep.stoppedCh)
	for {
		msg := ep.buffer.Pop()
		if msg == nil {
			select {
			case <-ep.startConsumingCh:
				continue
			case <-ep.doneCh:
				return
			}
		}

		m := Message{
			ID:     uuid.NewString(),
			Source: ep.source,
			Kind:   msg.Kind,
			Time:   time.Now().UTC(),
			Data:   json.RawMessage(msg.Data),
		}

		if err := ep.writer.Write(context.TODO(), ep.topic, m); err != nil {
			zap.S().Named("event_producer").Errorw("failed to send message", "error", err, "id", m.ID, "kind", m.Kind)
		}
	}
}
