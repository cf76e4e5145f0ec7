package domain

import "testing"

func TestStatusSequenceOrder(t *testing.T) {
	want := []OrderStatus{
		StatusInService,
		StatusAwaitingPayment,
		StatusPlaced,
		StatusInPreparation,
		StatusReady,
		StatusCollected,
		StatusCompleted,
	}
	got := AllStatuses()
	if len(got) != len(want) {
		t.Fatalf("expected %d statuses, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestNextAdvancesOneStep(t *testing.T) {
	seq := AllStatuses()
	for i := 0; i < len(seq)-1; i++ {
		if next := seq[i].Next(); next != seq[i+1] {
			t.Fatalf("%s.Next() = %s, expected %s", seq[i], next, seq[i+1])
		}
	}
}

func TestNextOnTerminalIsIdentity(t *testing.T) {
	if next := StatusCompleted.Next(); next != StatusCompleted {
		t.Fatalf("terminal status advanced to %s", next)
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range AllStatuses() {
		want := status == StatusCompleted
		if status.IsTerminal() != want {
			t.Fatalf("%s.IsTerminal() = %v, expected %v", status, status.IsTerminal(), want)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, status := range AllStatuses() {
		parsed, ok := ParseOrderStatus(string(status))
		if !ok || parsed != status {
			t.Fatalf("failed to parse %q", status)
		}
	}
	if _, ok := ParseOrderStatus("cancelado"); ok {
		t.Fatal("parsed a status outside the workflow")
	}
	if _, ok := ParseOrderStatus(""); ok {
		t.Fatal("parsed an empty status")
	}
}

func TestStatusLabels(t *testing.T) {
	cases := map[OrderStatus]string{
		StatusInService:       "Em Atendimento",
		StatusAwaitingPayment: "Aguardando Pagamento",
		StatusPlaced:          "Pedido Feito",
		StatusInPreparation:   "Em Preparo",
		StatusReady:           "Pronto",
		StatusCollected:       "Coletado",
		StatusCompleted:       "Finalizado",
	}
	for status, label := range cases {
		if got := status.Label(); got != label {
			t.Fatalf("%s label = %q, expected %q", status, got, label)
		}
	}
}

func TestParseFulfillmentType(t *testing.T) {
	if parsed, ok := ParseFulfillmentType("delivery"); !ok || parsed != FulfillmentDelivery {
		t.Fatal("failed to parse delivery")
	}
	if parsed, ok := ParseFulfillmentType("pickup"); !ok || parsed != FulfillmentPickup {
		t.Fatal("failed to parse pickup")
	}
	if _, ok := ParseFulfillmentType("drone"); ok {
		t.Fatal("parsed an unknown fulfillment type")
	}
}
