package models

import "testing"

func TestNormalizeOrderStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want OrderStatus
	}{
		{"enviado", OrderStatusSent},
		{"Pendente", OrderStatusSent},
		{"CONFIRMADO", OrderStatusConfirmed},
		{"em_rota", OrderStatusOutForDelivery},
		{"Em Rota", OrderStatusOutForDelivery},
		{"saiu para entrega", OrderStatusOutForDelivery},
		{"Entregue", OrderStatusDelivered},
		{"concluído", OrderStatusDelivered},
		{"canceled", OrderStatusCancelled},
		{"Cancelado", OrderStatusCancelled},
		{"rascunho", OrderStatusDraft},
		{"whatever", OrderStatusUnknown},
		{"", OrderStatusUnknown},
	}
	for _, tt := range tests {
		if got := NormalizeOrderStatus(tt.raw); got != tt.want {
			t.Errorf("NormalizeOrderStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestCommittedStatuses(t *testing.T) {
	for _, s := range CommittedStatuses() {
		if !s.IsCommitted() {
			t.Errorf("%s should be committed", s)
		}
	}
	for _, s := range []OrderStatus{OrderStatusDraft, OrderStatusDelivered, OrderStatusCancelled, OrderStatusUnknown} {
		if s.IsCommitted() {
			t.Errorf("%s should not be committed", s)
		}
	}
	if !StatusIn(OrderStatusDelivered, PlanningStatuses()) {
		t.Error("delivered orders count for planning aggregates")
	}
	if StatusIn(OrderStatusCancelled, PlanningStatuses()) {
		t.Error("cancelled orders never count for planning")
	}
}

func TestRawAliasesRoundTrip(t *testing.T) {
	for _, raw := range RawAliases(CommittedStatuses()) {
		if !NormalizeOrderStatus(raw).IsCommitted() {
			t.Errorf("alias %q does not normalize to a committed status", raw)
		}
	}
}

func TestParseUnitType(t *testing.T) {
	tests := []struct {
		raw  string
		want UnitType
		ok   bool
	}{
		{"kg", UnitTypeKilogram, true},
		{"CX", UnitTypeBox, true},
		{"unidade", UnitTypeUnit, true},
		{"PACKAGE", UnitTypePackage, true},
		{"litre", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseUnitType(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseUnitType(%q) = %q,%v want %q,%v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
