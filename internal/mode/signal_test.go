package mode

import "testing"

func TestSignalEmitsToAllSubscribersInOrder(t *testing.T) {
	var sig Signal[int]
	var got []int
	sig.Subscribe(func(v int) { got = append(got, v*1) })
	sig.Subscribe(func(v int) { got = append(got, v*2) })

	sig.Emit(5)

	if len(got) != 2 || got[0] != 5 || got[1] != 10 {
		t.Errorf("unexpected subscriber order/values: %v", got)
	}
}

func TestSignalHasSubscribers(t *testing.T) {
	var sig Signal[string]
	if sig.HasSubscribers() {
		t.Error("expected no subscribers initially")
	}
	sig.Subscribe(func(string) {})
	if !sig.HasSubscribers() {
		t.Error("expected HasSubscribers true after Subscribe")
	}
}
