package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"deepshop/models"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"
)

type fakeSender struct {
	sent     []string
	failures int
}

func (f *fakeSender) Send(ctx context.Context, text string) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("webhook down")
	}
	f.sent = append(f.sent, text)
	return nil
}

func orderCreatedMessage(t *testing.T) *sarama.ConsumerMessage {
	t.Helper()
	payload, err := json.Marshal(models.OrderEvent{
		EventType:   "order_created",
		OrderID:     "66f1a2b3c4d5e6f708091011",
		UserName:    "Rahim Uddin",
		TotalAmount: 2500,
	})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return &sarama.ConsumerMessage{Value: payload}
}

func TestHandleMessage_DeliversOrderCreated(t *testing.T) {
	sender := &fakeSender{}

	if err := handleMessage(orderCreatedMessage(t), sender, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("handleMessage failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0], "Rahim Uddin") {
		t.Errorf("message missing customer name:\n%s", sender.sent[0])
	}
}

func TestHandleMessage_SkipsOtherEventTypes(t *testing.T) {
	payload, _ := json.Marshal(models.OrderEvent{EventType: "order_status_changed"})
	sender := &fakeSender{}

	if err := handleMessage(&sarama.ConsumerMessage{Value: payload}, sender, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("handleMessage failed: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent = %d, want 0 for a skipped event", len(sender.sent))
	}
}

func TestHandleMessage_BadPayload(t *testing.T) {
	sender := &fakeSender{}
	err := handleMessage(&sarama.ConsumerMessage{Value: []byte("not-json")}, sender, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
}

func TestHandleWithRetry_RecoversWithinBudget(t *testing.T) {
	sender := &fakeSender{failures: 2}

	if err := handleWithRetry(orderCreatedMessage(t), sender, zaptest.NewLogger(t), 3); err != nil {
		t.Fatalf("handleWithRetry failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent = %d, want 1 after retries", len(sender.sent))
	}
}

func TestHandleWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	sender := &fakeSender{failures: 5}

	if err := handleWithRetry(orderCreatedMessage(t), sender, zaptest.NewLogger(t), 3); err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent = %d, want 0", len(sender.sent))
	}
}
