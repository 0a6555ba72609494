package models

import (
	"strings"

	"github.com/xelth-com/freshroute/internal/utils"
)

// OrderStatus is the canonical order lifecycle state. Raw status strings
// are normalized once at ingestion; business logic only sees these values.
type OrderStatus string

const (
	OrderStatusDraft          OrderStatus = "draft"
	OrderStatusSent           OrderStatus = "sent"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusUnknown        OrderStatus = "unknown"
)

// statusAliases maps every historical spelling to its canonical status.
// Keys are stored in their raw lowercase form; lookups go through NormalizeKey.
var statusAliases = map[OrderStatus][]string{
	OrderStatusDraft:          {"draft", "rascunho"},
	OrderStatusSent:           {"sent", "enviado", "pendente", "pending", "novo", "new"},
	OrderStatusConfirmed:      {"confirmed", "confirmado", "aprovado", "approved"},
	OrderStatusOutForDelivery: {"out_for_delivery", "em_rota", "em rota", "saiu_para_entrega", "saiu para entrega", "in_transit"},
	OrderStatusDelivered:      {"delivered", "entregue", "concluido", "concluído"},
	OrderStatusCancelled:      {"cancelled", "canceled", "cancelado"},
}

var statusByKey = func() map[string]OrderStatus {
	m := make(map[string]OrderStatus)
	for status, aliases := range statusAliases {
		for _, a := range aliases {
			m[enumKey(a)] = status
		}
	}
	return m
}()

func enumKey(raw string) string {
	return utils.NormalizeKey(strings.ReplaceAll(raw, "_", " "))
}

// NormalizeOrderStatus maps a raw status string to the closed enum.
func NormalizeOrderStatus(raw string) OrderStatus {
	if s, ok := statusByKey[enumKey(raw)]; ok {
		return s
	}
	return OrderStatusUnknown
}

// CommittedStatuses consume inventory and route capacity.
func CommittedStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusSent, OrderStatusConfirmed, OrderStatusOutForDelivery}
}

// PlanningStatuses are the committed statuses plus delivered, for historical aggregates.
func PlanningStatuses() []OrderStatus {
	return append(CommittedStatuses(), OrderStatusDelivered)
}

// IsCommitted reports whether the status reserves stock and capacity.
func (s OrderStatus) IsCommitted() bool {
	switch s {
	case OrderStatusSent, OrderStatusConfirmed, OrderStatusOutForDelivery:
		return true
	}
	return false
}

// RawAliases returns every stored spelling of the given statuses, for SQL IN filters.
func RawAliases(statuses []OrderStatus) []string {
	var out []string
	for _, s := range statuses {
		out = append(out, statusAliases[s]...)
	}
	return out
}

// StatusIn reports whether s is one of statuses.
func StatusIn(s OrderStatus, statuses []OrderStatus) bool {
	for _, candidate := range statuses {
		if s == candidate {
			return true
		}
	}
	return false
}
