package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	marked []int64
}

func (f *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	f.marked = append(f.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (f *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return f.messages }

func newFakeClaim(values ...string) *fakeClaim {
	c := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(values))}
	for i, v := range values {
		c.messages <- &sarama.ConsumerMessage{Offset: int64(i), Value: []byte(v)}
	}
	close(c.messages)
	return c
}

func TestConsumeClaim_MarksAppliedEvents(t *testing.T) {
	var applied []string
	h := &consumerHandler{
		ctx:    context.Background(),
		logger: zaptest.NewLogger(t),
		fn: func(ctx context.Context, event *ProgressEvent) error {
			applied = append(applied, event.Step)
			return nil
		},
	}
	session := &fakeSession{}
	claim := newFakeClaim(
		`{"job_id":"abc123","status":"processing","progress":53.333333333333336,"step":"Translating subtitles..."}`,
		`not json`,
		`{"job_id":"abc123","status":"completed","progress":100,"step":"Completed!","output_path":"/outputs/abc123.mp4"}`,
	)

	if err := h.ConsumeClaim(session, claim); err != nil {
		t.Fatalf("ConsumeClaim failed: %v", err)
	}
	if len(applied) != 2 {
		t.Errorf("Expected 2 applied events, got %v", applied)
	}
	if len(session.marked) != 3 {
		t.Errorf("Expected all 3 offsets marked, got %v", session.marked)
	}
}

func TestConsumeClaim_FailedEventIsNotMarked(t *testing.T) {
	dbErr := errors.New("connection refused")
	h := &consumerHandler{
		ctx:    context.Background(),
		logger: zaptest.NewLogger(t),
		fn: func(ctx context.Context, event *ProgressEvent) error {
			if event.Status == "completed" {
				return dbErr
			}
			return nil
		},
	}
	session := &fakeSession{}
	claim := newFakeClaim(
		`{"job_id":"abc123","status":"processing","progress":90,"step":"Merging audio with video..."}`,
		`{"job_id":"abc123","status":"completed","progress":100,"step":"Completed!","output_path":"/outputs/abc123.mp4"}`,
	)

	if err := h.ConsumeClaim(session, claim); !errors.Is(err, dbErr) {
		t.Fatalf("Expected handler error, got %v", err)
	}
	if len(session.marked) != 1 || session.marked[0] != 0 {
		t.Errorf("Expected only offset 0 marked, got %v", session.marked)
	}
}
