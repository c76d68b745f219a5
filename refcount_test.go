package dxup

import "testing"

func TestRefcountDestroysOnlyWhenBothCountersZero(t *testing.T) {
	destroyed := 0
	r := newRefcount(func() { destroyed++ })

	r.addRefPrivate()
	r.Release() // public 1 -> 0, private still 1
	if destroyed != 0 {
		t.Fatalf("destroyed fired with a private reference still held")
	}

	r.releasePrivate() // private 1 -> 0, both zero now
	if destroyed != 1 {
		t.Fatalf("destroyed = %d, want 1", destroyed)
	}

	r.releasePrivate() // already dead, must not fire again
	if destroyed != 1 {
		t.Fatalf("onZero fired more than once: destroyed = %d", destroyed)
	}
}

func TestRefcountAddRefKeepsAlive(t *testing.T) {
	destroyed := 0
	r := newRefcount(func() { destroyed++ })

	r.AddRef() // public now 2
	r.Release()
	if destroyed != 0 {
		t.Fatalf("destroyed fired while a public reference remained")
	}
	r.Release()
	if destroyed != 1 {
		t.Fatalf("destroyed = %d, want 1 once both counters reach zero", destroyed)
	}
}
