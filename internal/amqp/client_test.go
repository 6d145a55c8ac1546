package amqp

import (
	"strings"
	"testing"

	"expense-tracker/internal/core"
)

func TestTransactionEvent(t *testing.T) {
	tx := core.Transaction{
		ID:          "abcd1234",
		Description: "salary",
		Amount:      1500.5,
		Category:    "work",
		Date:        core.NewDate(2024, 1, 31),
		Type:        core.Income,
	}

	ev := NewTransactionEvent(EventCreated, tx)
	if ev.RoutingKey() != "transaction.created" {
		t.Fatalf("unexpected routing key %q", ev.RoutingKey())
	}
	if ev.Date != "2024-01-31" || ev.Type != "income" || ev.Amount != 1500.5 {
		t.Fatalf("unexpected event: %+v", ev)
	}

	body, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(body), `"kind":"created"`) {
		t.Fatalf("missing kind in %s", body)
	}

	back, err := TransactionEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != ev.ID || back.Kind != ev.Kind || !back.Timestamp.Equal(ev.Timestamp) {
		t.Fatalf("decoded event mismatch: %+v vs %+v", back, ev)
	}
}

func TestDeletedEvent(t *testing.T) {
	ev := NewDeletedEvent("abcd1234")
	if ev.RoutingKey() != "transaction.deleted" {
		t.Fatalf("unexpected routing key %q", ev.RoutingKey())
	}
	body, _ := ev.ToJSON()
	for _, field := range []string{`"description"`, `"category"`, `"date"`, `"type"`} {
		if strings.Contains(string(body), field) {
			t.Fatalf("deleted event should not carry %s: %s", field, body)
		}
	}
}

func TestTransactionEventFromJSONInvalid(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBindingKeyMatchesRoutingKeys(t *testing.T) {
	prefix := strings.TrimSuffix(bindingKey, "*")
	for _, kind := range []EventKind{EventCreated, EventUpdated, EventDeleted} {
		ev := &TransactionEvent{Kind: kind}
		key := ev.RoutingKey()
		if !strings.HasPrefix(key, prefix) || strings.Contains(strings.TrimPrefix(key, prefix), ".") {
			t.Fatalf("routing key %q is not matched by %q", key, bindingKey)
		}
	}
}
