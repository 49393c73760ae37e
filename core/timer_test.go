package core

import "testing"

func TestElapsedWraparound(t *testing.T) {
	testCases := []struct {
		now, since, want uint32
	}{
		{100, 40, 60},
		{0x00000010, 0xFFFFFFF0, 0x20},
		{0, 0xFFFFFFFF, 1},
		{5, 5, 0},
	}

	for _, tc := range testCases {
		if got := Elapsed(tc.now, tc.since); got != tc.want {
			t.Errorf("Elapsed(0x%08X, 0x%08X) = %d, want %d", tc.now, tc.since, got, tc.want)
		}
	}
}

func TestTickerTick(t *testing.T) {
	tk := NewTicker()
	for i := 0; i < 250; i++ {
		tk.Tick()
	}
	if got := tk.Now(); got != 250 {
		t.Errorf("Now() = %d, want 250", got)
	}
	if got := tk.Elapsed(200); got != 50 {
		t.Errorf("Elapsed(200) = %d, want 50", got)
	}
}

func TestTickerWraps(t *testing.T) {
	tk := NewTicker()
	tk.Set(0xFFFFFFFF)
	start := tk.Now()
	tk.Tick()
	tk.Tick()
	if got := tk.Now(); got != 1 {
		t.Errorf("Now() = %d after wrap, want 1", got)
	}
	if got := tk.Elapsed(start); got != 2 {
		t.Errorf("Elapsed across wrap = %d, want 2", got)
	}
}

func TestTickMicrosAccumulator(t *testing.T) {
	tk := NewTicker()

	tk.TickMicros(WDTIntervalUs)
	if tk.Now() != 0 || tk.Remainder() != 512 {
		t.Errorf("after 1 tick: ms=%d rem=%d, want 0/512", tk.Now(), tk.Remainder())
	}

	tk.TickMicros(WDTIntervalUs)
	if tk.Now() != 1 || tk.Remainder() != 24 {
		t.Errorf("after 2 ticks: ms=%d rem=%d, want 1/24", tk.Now(), tk.Remainder())
	}

	tk.Set(0)
	for i := 0; i < 125; i++ {
		tk.TickMicros(WDTIntervalUs)
	}
	if tk.Now() != 64 || tk.Remainder() != 0 {
		t.Errorf("after 125 ticks: ms=%d rem=%d, want 64/0", tk.Now(), tk.Remainder())
	}
}

func TestDelayMs(t *testing.T) {
	tk := NewTicker()
	polls := 0
	// Each idle call stands in for one timer interrupt
	tk.Idle = func() {
		polls++
		tk.Tick()
	}

	tk.DelayMs(10)
	if got := tk.Now(); got != 10 {
		t.Errorf("Now() = %d after DelayMs(10), want 10", got)
	}
	if polls != 10 {
		t.Errorf("idle called %d times, want 10", polls)
	}

	tk.DelayMs(0)
	if polls != 10 {
		t.Error("DelayMs(0) should return immediately")
	}
}

func TestCriticalRestoresOnPanic(t *testing.T) {
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		Critical(func() {
			panic("boom")
		})
	}()

	// A second section must be able to enter
	entered := false
	Critical(func() {
		entered = true
	})
	if !entered {
		t.Error("critical section not re-entered after panic")
	}
}

func TestSystemTick(t *testing.T) {
	TimerInit()
	SystemTick.Tick()
	SystemTick.Tick()
	if got := Millis(); got != 2 {
		t.Errorf("Millis() = %d, want 2", got)
	}
	TimerInit()
}
