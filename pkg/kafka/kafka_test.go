package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rentals/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("5").
		WithValue(map[string]int{"vehicle_id": 5}).
		WithEventType("booking.created").
		WithSource("bookings").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.GetEventID() == "" {
		t.Errorf("event id should be generated")
	}
	if msg.Headers[HeaderTimestamp] == "" {
		t.Errorf("timestamp header should be set")
	}
	if string(msg.Value) != `{"vehicle_id":5}` {
		t.Errorf("unexpected value: %s", msg.Value)
	}
}

func TestMessageBuilder_EncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	if msg.GetRetryCount() != 12 {
		t.Errorf("retry count = %d, want 12", msg.GetRetryCount())
	}
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "rentals.booking-events", "", logger.Discard())

	var seen []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		seen = append(seen, msg.Topic)
		return next(ctx, msg)
	})

	msg, _ := NewMessage().WithKey("5").WithValue("payload").WithEventType("booking.created").Build()
	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(w.messages) != 1 {
		t.Fatalf("expected 1 message written, got %d", len(w.messages))
	}
	if string(w.messages[0].Key) != "5" {
		t.Errorf("unexpected key: %s", w.messages[0].Key)
	}
	if header(w.messages[0], HeaderEventType) != "booking.created" {
		t.Errorf("event type header missing")
	}
	if len(seen) != 1 || seen[0] != "rentals.booking-events" {
		t.Errorf("middleware should see the producer topic, got %v", seen)
	}
}

func TestProducer_RejectsInvalid(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "topic", "", logger.Discard())

	if err := p.Publish(context.Background(), Message{Value: []byte("x")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}

	_ = p.Close()
	if err := p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
}

func TestProducer_FailureGoesToDLQ(t *testing.T) {
	writeErr := errors.New("leader not available")
	w := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	p := newProducer(w, dlq, "topic", "topic.dlq", logger.Discard())

	msg, _ := NewMessage().WithKey("5").WithValue("payload").Build()
	err := p.Publish(context.Background(), msg)
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected original error, got %v", err)
	}

	if len(dlq.messages) != 1 {
		t.Fatalf("expected 1 DLQ message, got %d", len(dlq.messages))
	}
	if header(dlq.messages[0], HeaderOriginalTopic) != "topic" {
		t.Errorf("original topic header missing")
	}
	if _, ok := msg.Headers[HeaderDLQError]; ok {
		t.Errorf("caller's headers must not be modified")
	}
}

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		r.cancel()
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		messages: []kafka.Message{{Key: []byte("5"), Value: []byte("{}"), Offset: 7}},
		cancel:   cancel,
	}

	attempts := 0
	handler := func(ctx context.Context, msg Message) error {
		attempts++
		if attempts < 3 {
			return NewTransientError("broker busy", nil)
		}
		return nil
	}

	c := newConsumer(reader, nil, "topic", "group", 3, handler, logger.Discard())
	err := c.Start(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if len(reader.committed) != 1 || reader.committed[0] != 7 {
		t.Errorf("offset should be committed once, got %v", reader.committed)
	}
}

func TestConsumer_PermanentErrorGoesToDLQ(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		messages: []kafka.Message{{Key: []byte("5"), Value: []byte("not json"), Offset: 1}},
		cancel:   cancel,
	}
	dlq := &fakeWriter{}

	attempts := 0
	handler := func(ctx context.Context, msg Message) error {
		attempts++
		var v map[string]any
		return msg.DecodeValue(&v)
	}

	c := newConsumer(reader, dlq, "topic", "group", 3, handler, logger.Discard())
	_ = c.Start(ctx)

	if attempts != 1 {
		t.Errorf("permanent errors must not be retried, got %d attempts", attempts)
	}
	if len(dlq.messages) != 1 {
		t.Fatalf("expected DLQ message, got %d", len(dlq.messages))
	}
	if header(dlq.messages[0], HeaderDLQGroup) != "group" {
		t.Errorf("DLQ consumer group header missing")
	}
	if len(reader.committed) != 1 {
		t.Errorf("poison message should still be committed")
	}
}

func TestConsumer_UnsettledMessageIsNotCommitted(t *testing.T) {
	tests := []struct {
		name string
		dlq  Writer
	}{
		{"dlq write fails", &fakeWriter{err: errors.New("dlq broker down")}},
		{"no dlq configured", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			reader := &fakeReader{
				messages: []kafka.Message{
					{Key: []byte("5"), Value: []byte("{}"), Offset: 9},
					{Key: []byte("5"), Value: []byte("{}"), Offset: 10},
				},
				cancel: cancel,
			}
			handled := 0
			handler := func(ctx context.Context, msg Message) error {
				handled++
				return NewPermanentError("bad payload", nil)
			}

			c := newConsumer(reader, tt.dlq, "topic", "group", 3, handler, logger.Discard())
			err := c.Start(ctx)

			if !errors.Is(err, ErrMessageNotSettled) {
				t.Fatalf("expected ErrMessageNotSettled, got %v", err)
			}
			if len(reader.committed) != 0 {
				t.Errorf("offsets committed for an unsettled message: %v", reader.committed)
			}
			if handled != 1 || len(reader.messages) != 1 {
				t.Errorf("consumer should stop at the unsettled message, handled %d, %d left", handled, len(reader.messages))
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorType
	}{
		{nil, ErrorTypeUnknown},
		{NewTransientError("x", nil), ErrorTypeTransient},
		{NewPermanentError("x", nil), ErrorTypePermanent},
		{context.DeadlineExceeded, ErrorTypeTransient},
		{errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{errors.New("schema mismatch"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		if got := ClassifyError(tt.err); got != tt.want {
			t.Errorf("ClassifyError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepCtx(ctx, time.Hour) {
		t.Errorf("sleepCtx should stop on a cancelled context")
	}
}
