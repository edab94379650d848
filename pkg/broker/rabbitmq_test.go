package broker

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestNewMessage(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := newMessage(map[string]interface{}{"order_no": "abc", "total": "19.99"}, now)
	if err != nil {
		t.Fatalf("newMessage returned error: %v", err)
	}
	if msg.ContentType != "application/json" {
		t.Errorf("Expected JSON content type, got %s", msg.ContentType)
	}
	if msg.DeliveryMode != amqp.Persistent {
		t.Errorf("Expected persistent delivery")
	}
	if msg.MessageId == "" {
		t.Errorf("Expected a message id")
	}
	if !msg.Timestamp.Equal(now) {
		t.Errorf("Expected timestamp %v, got %v", now, msg.Timestamp)
	}
	var body map[string]string
	if err := json.Unmarshal(msg.Body, &body); err != nil || body["order_no"] != "abc" {
		t.Errorf("Expected encoded event body, got %s", msg.Body)
	}
}

func TestNewMessageRejectsUnencodable(t *testing.T) {
	if _, err := newMessage(func() {}, time.Now()); err == nil {
		t.Errorf("Expected error for unencodable event")
	}
}
