package bus

import "testing"

func TestTriggerInOrder(t *testing.T) {
	b := New()
	var got []string
	b.On("save", "a", func(p any) { got = append(got, "a:"+p.(string)) })
	b.On("save", "b", func(p any) { got = append(got, "b:"+p.(string)) })

	b.Trigger("save", "x")

	if len(got) != 2 || got[0] != "a:x" || got[1] != "b:x" {
		t.Errorf("got %v", got)
	}
}

func TestOffRemovesOnlyOwner(t *testing.T) {
	b := New()
	calls := 0
	b.On("e", "a", func(any) { calls++ })
	b.On("e", "b", func(any) { calls += 10 })

	b.Off("e", "a")
	b.Trigger("e", nil)

	if calls != 10 {
		t.Errorf("calls = %d, want 10", calls)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestClear(t *testing.T) {
	var b Bus
	b.On("e", 1, func(any) { t.Error("handler should not run after Clear") })
	b.Clear()
	b.Trigger("e", nil)
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestReleaseDropsEveryEventOfOwner(t *testing.T) {
	b := New()
	calls := 0
	b.On("save", "a", func(any) { calls++ })
	b.On("close", "a", func(any) { calls++ })
	b.On("save", "b", func(any) { calls += 10 })

	b.Release("a")
	b.Trigger("save", nil)
	b.Trigger("close", nil)

	if calls != 10 {
		t.Errorf("calls = %d, want only b's handler", calls)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}
