package domain

// OrderStatus enumerates lifecycle states for orders, in workflow order.
type OrderStatus string

const (
	StatusInService       OrderStatus = "atendimento"
	StatusAwaitingPayment OrderStatus = "pagamento"
	StatusPlaced          OrderStatus = "feito"
	StatusInPreparation   OrderStatus = "preparo"
	StatusReady           OrderStatus = "pronto"
	StatusCollected       OrderStatus = "coletado"
	StatusCompleted       OrderStatus = "finalizado"
)

// statusSequence is the closed workflow order. StatusCompleted is terminal.
var statusSequence = []OrderStatus{
	StatusInService,
	StatusAwaitingPayment,
	StatusPlaced,
	StatusInPreparation,
	StatusReady,
	StatusCollected,
	StatusCompleted,
}

var statusLabels = map[OrderStatus]string{
	StatusInService:       "Em Atendimento",
	StatusAwaitingPayment: "Aguardando Pagamento",
	StatusPlaced:          "Pedido Feito",
	StatusInPreparation:   "Em Preparo",
	StatusReady:           "Pronto",
	StatusCollected:       "Coletado",
	StatusCompleted:       "Finalizado",
}

// ParseOrderStatus resolves a raw status key, reporting whether it is known.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	for _, s := range statusSequence {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// AllStatuses returns the workflow sequence.
func AllStatuses() []OrderStatus {
	out := make([]OrderStatus, len(statusSequence))
	copy(out, statusSequence)
	return out
}

// Next returns the following status in the workflow. The terminal status
// returns itself.
func (s OrderStatus) Next() OrderStatus {
	for i, st := range statusSequence {
		if st == s {
			if i+1 < len(statusSequence) {
				return statusSequence[i+1]
			}
			return s
		}
	}
	return s
}

// Label returns the display name used in chat annotations.
func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsTerminal reports whether no transition leaves this status.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// FulfillmentType distinguishes delivery orders from pickup orders.
type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

// ParseFulfillmentType resolves a raw type value.
func ParseFulfillmentType(raw string) (FulfillmentType, bool) {
	switch FulfillmentType(raw) {
	case FulfillmentDelivery, FulfillmentPickup:
		return FulfillmentType(raw), true
	}
	return "", false
}
