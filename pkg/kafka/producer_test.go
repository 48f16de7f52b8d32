package kafka

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:  []string{"localhost:9092", "localhost:9093"},
		ClientID: "riskscan",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %d", len(p.brokers))
	}
	if p.transport.ClientID != "riskscan" {
		t.Errorf("expected client id riskscan, got %q", p.transport.ClientID)
	}
	if p.transport.TLS != nil || p.transport.SASL != nil {
		t.Error("expected plaintext transport")
	}
	if len(p.writers) != 0 {
		t.Errorf("expected no writers before first publish, got %d", len(p.writers))
	}
}

func TestNewProducerSASL(t *testing.T) {
	tests := []struct {
		name      string
		mechanism string
		wantErr   bool
	}{
		{name: "plain", mechanism: "PLAIN"},
		{name: "default is plain", mechanism: ""},
		{name: "scram 256", mechanism: "SCRAM-SHA-256"},
		{name: "scram 512", mechanism: "SCRAM-SHA-512"},
		{name: "unknown", mechanism: "GSSAPI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(Config{
				Brokers:       []string{"kafka:9092"},
				SASLEnabled:   true,
				SASLMechanism: tt.mechanism,
				SASLUsername:  "user",
				SASLPassword:  "pass",
				TLS:           true,
			})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.transport.SASL == nil {
				t.Fatal("expected SASL mechanism")
			}
			if p.transport.TLS == nil {
				t.Fatal("expected TLS config")
			}
		})
	}

	cfg := Config{SASLEnabled: true, SASLUsername: "u", SASLPassword: "p"}
	mech, _ := cfg.mechanism()
	if _, ok := mech.(plain.Mechanism); !ok {
		t.Errorf("expected plain mechanism, got %T", mech)
	}
}

func TestProducerWriterPerTopic(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"kafka:9092"}})
	if err != nil {
		t.Fatal(err)
	}

	a := p.writer("scans")
	b := p.writer("scans")
	c := p.writer("audit")
	if a != b {
		t.Error("expected the same writer for the same topic")
	}
	if a == c {
		t.Error("expected distinct writers per topic")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(p.writers) != 0 {
		t.Error("expected writers to be released on close")
	}
}

func TestPublishNothing(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"unreachable:9092"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Publish(context.Background(), "scans"); err != nil {
		t.Fatalf("empty publish should be a no-op: %v", err)
	}
}

func TestMessageConversion(t *testing.T) {
	msg := Message{
		Key:     []byte("scan-123"),
		Value:   []byte(`{"verdict":"LOW_RISK"}`),
		Headers: map[string]string{"event-type": "riskscan.scan.completed"},
	}

	km := toKafka(msg)
	if string(km.Key) != "scan-123" {
		t.Errorf("expected key scan-123, got %s", km.Key)
	}
	if len(km.Headers) != 1 || km.Headers[0].Key != "event-type" {
		t.Fatalf("unexpected headers: %+v", km.Headers)
	}

	back := fromKafka(kafkago.Message{Key: km.Key, Value: km.Value, Headers: km.Headers})
	if back.Headers["event-type"] != "riskscan.scan.completed" {
		t.Errorf("header lost in conversion: %+v", back.Headers)
	}
	if string(back.Value) != string(msg.Value) {
		t.Errorf("value mismatch: %s", back.Value)
	}
}
