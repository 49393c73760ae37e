// Package sim runs the LED firmware core on the host against an in-memory
// register bank, with the timer interrupt modelled either by a simulated
// clock or by a goroutine.
package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"ledfw/core"
)

// Transition is one observed change of an LED output.
type Transition struct {
	Name  string
	Pin   core.Pin
	Tick  uint32
	State core.LEDState
}

func (t Transition) String() string {
	return fmt.Sprintf("%8d ms  %-8s %s %s", t.Tick, t.Name, t.Pin, t.State)
}

// Simulator owns the simulated board.
type Simulator struct {
	Config    *BoardConfig
	Bank      *core.MemoryBank
	Ticker    *core.Ticker
	Resolver  *core.Resolver
	Scheduler *core.Scheduler

	// OnTransition is called for every output change seen after a poll.
	OnTransition func(Transition)

	names []string
	last  []core.LEDState
}

// New builds a simulator for cfg (nil means DefaultConfig) and runs the
// startup sequence: pin table, then scheduler init, then boot-time blinking.
func New(cfg *BoardConfig) (*Simulator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bank := core.NewMemoryBank()
	bank.Loopback = cfg.Loopback
	s := &Simulator{
		Config:   cfg,
		Bank:     bank,
		Ticker:   core.NewTicker(),
		Resolver: core.NewResolver(bank),
	}

	specs := cfg.Specs()
	table := make([]core.PinDefault, len(specs))
	for i, spec := range specs {
		table[i] = core.PinDefault{Pin: spec.Pin, Config: core.OutputLow}
	}
	s.Resolver.Init(table)

	s.Scheduler = core.NewScheduler(s.Resolver, s.Ticker, specs...)
	s.Scheduler.Init()

	s.names = make([]string, len(cfg.LEDs))
	s.last = make([]core.LEDState, len(cfg.LEDs))
	for i, led := range cfg.LEDs {
		s.names[i] = led.Name
		if led.Blink {
			s.Scheduler.StartBlinking(core.LEDHandle(i), led.OnMs, led.OffMs)
		}
	}
	s.observe()

	return s, nil
}

// interrupt runs one timer interrupt of the configured tick source.
func (s *Simulator) interrupt() {
	if s.Config.Tick == TickWDT {
		s.Ticker.TickMicros(core.WDTIntervalUs)
	} else {
		s.Ticker.Tick()
	}
}

// interruptPeriod is the wall-clock interrupt period for the realtime mode.
func (s *Simulator) interruptPeriod() time.Duration {
	if s.Config.Tick == TickWDT {
		return core.WDTIntervalUs * time.Microsecond
	}
	return time.Millisecond
}

// Step advances simulated time by ms milliseconds, polling the scheduler every
// PollMs. It does not depend on the wall clock.
func (s *Simulator) Step(ms uint32) {
	target := s.Ticker.Now() + ms
	nextPoll := s.Ticker.Now() + s.Config.PollMs

	for core.Elapsed(target, s.Ticker.Now()) != 0 {
		s.interrupt()
		if int32(s.Ticker.Now()-nextPoll) >= 0 {
			s.Poll()
			nextPoll += s.Config.PollMs
		}
	}
	s.Poll()
}

// Run advances simulated time by d, rounded down to whole milliseconds.
// Durations beyond the 32-bit tick range are rejected rather than truncated.
func (s *Simulator) Run(d time.Duration) error {
	ms, err := DurationMs(d)
	if err != nil {
		return err
	}
	s.Step(ms)
	return nil
}

// DurationMs converts d to a tick count.
func DurationMs(d time.Duration) (uint32, error) {
	ms := d.Milliseconds()
	if ms < 0 || ms > math.MaxUint32 {
		return 0, fmt.Errorf("duration %s out of range (0 to %d ms)", d, uint32(math.MaxUint32))
	}
	return uint32(ms), nil
}

// Poll is one iteration of the firmware main loop.
func (s *Simulator) Poll() {
	s.Scheduler.AdvanceAll()
	s.observe()
}

// observe reports LED state changes since the previous poll.
func (s *Simulator) observe() {
	now := s.Ticker.Now()
	for i := range s.last {
		h := core.LEDHandle(i)
		state := s.Scheduler.State(h)
		if state == s.last[i] {
			continue
		}
		s.last[i] = state
		if s.OnTransition != nil {
			pin, _ := s.Scheduler.Pin(h)
			s.OnTransition(Transition{Name: s.names[i], Pin: pin, Tick: now, State: state})
		}
	}
}

// RunRealtime drives the ticker from a goroutine at the hardware interrupt
// rate and polls the scheduler every PollMs of wall-clock time until ctx is
// done or duration has passed.
func (s *Simulator) RunRealtime(ctx context.Context, duration time.Duration) error {
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		isr := time.NewTicker(s.interruptPeriod())
		defer isr.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-isr.C:
				s.interrupt()
			}
		}
	}()

	poll := time.NewTicker(time.Duration(s.Config.PollMs) * time.Millisecond)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			<-done
			if ctx.Err() == context.DeadlineExceeded {
				return nil
			}
			return ctx.Err()
		case <-poll.C:
			s.Poll()
		}
	}
}

// Lookup returns the handle of the LED with the given config name.
func (s *Simulator) Lookup(name string) (core.LEDHandle, bool) {
	for i, n := range s.names {
		if n == name {
			return core.LEDHandle(i), true
		}
	}
	return core.NoLED, false
}
