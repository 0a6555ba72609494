package notify

import "testing"

func TestParsePayload(t *testing.T) {
	c := ParsePayload(`{"op":"UPDATE","id":42,"delivery_date":"2026-03-10","route_name":"Pelotas","status":"confirmado"}`)
	if c.Op != "UPDATE" || c.OrderID != 42 || c.DeliveryDate != "2026-03-10" || c.RouteName != "Pelotas" {
		t.Errorf("got %+v", c)
	}

	if c := ParsePayload("not json"); c.Op != "UNKNOWN" {
		t.Errorf("got %+v, want UNKNOWN op", c)
	}
}

type recorder struct {
	messages []interface{}
}

func (r *recorder) Broadcast(msgType string, payload interface{}) error {
	r.messages = append(r.messages, payload)
	return nil
}

func TestDeliverCollapsesRepeats(t *testing.T) {
	out := &recorder{}
	l := NewListener("", "orders_changed", out)

	l.Deliver(`{"op":"UPDATE","id":1}`)
	l.Deliver(`{"op":"UPDATE","id":1}`)
	l.Deliver(`{"op":"UPDATE","id":2}`)

	if len(out.messages) != 2 {
		t.Fatalf("broadcast %d messages, want 2", len(out.messages))
	}
	if c := out.messages[1].(OrderChange); c.OrderID != 2 {
		t.Errorf("second message = %+v", c)
	}
}
