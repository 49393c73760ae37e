package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a scheduler event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Pin       Pin    // LED pin
	Clock     uint32 // System tick at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtLEDOn      = 1 // LED driven on (Value1 = 1 if blinking)
	EvtLEDOff     = 2 // LED driven off (Value1 = 1 if blinking)
	EvtBlinkStart = 3 // start_blinking (Value1 = on ms, Value2 = off ms)
	EvtBlinkStop  = 4 // stop_blinking
	EvtPhase      = 5 // phase change by AdvanceAll (Value1 = elapsed ms)
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8        // Next write position
	timingEnabled  bool  = true // Always capture timing events

	// Async debug output channel
	debugChan    chan string
	debugDone    chan struct{}
	debugDropped uint32
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, a host serial port, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTimingEnabled turns capture into the timing ring on or off
func SetTimingEnabled(enabled bool) {
	timingEnabled = enabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter. While it runs, trace events
// are queued instead of written inline.
func InitAsyncDebug() {
	if debugChan != nil {
		return
	}
	debugChan = make(chan string, 16) // Buffer 16 messages
	debugDone = make(chan struct{})
	debugDropped = 0
	go debugOutputWorker(debugChan, debugDone, debugPrintln)
}

// StopAsyncDebug closes the channel and waits until every queued message
// has been written. Output is synchronous again afterwards.
func StopAsyncDebug() {
	if debugChan == nil {
		return
	}
	close(debugChan)
	<-debugDone
	debugChan = nil
	debugDone = nil
}

// AsyncDropped returns how many messages DebugAsync dropped on a full channel
// since InitAsyncDebug.
func AsyncDropped() uint32 {
	return debugDropped
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker(ch <-chan string, done chan<- struct{}, writer DebugWriter) {
	defer close(done)
	for msg := range ch {
		if writer != nil {
			writer(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
			// Channel full, drop message (non-blocking)
			debugDropped++
		}
	}
}

// RecordTiming captures a timing event in the ring buffer
// This is always non-blocking
func RecordTiming(eventType uint8, pin Pin, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Pin:       pin,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents returns the recorded events, oldest first
func TimingEvents() []TimingEvent {
	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// EventName returns the trace label for an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtLEDOn:
		return "LED_ON"
	case EvtLEDOff:
		return "LED_OFF"
	case EvtBlinkStart:
		return "BLINK_START"
	case EvtBlinkStop:
		return "BLINK_STOP"
	case EvtPhase:
		return "PHASE"
	default:
		return "UNKNOWN"
	}
}

// FormatEvent renders an event as a single trace line
func FormatEvent(evt TimingEvent) string {
	return "[TIMING] " + EventName(evt.EventType) +
		" pin=" + evt.Pin.String() +
		" clock=" + utoa(evt.Clock) +
		" v1=" + utoa(evt.Value1) +
		" v2=" + utoa(evt.Value2)
}

// DumpTimingRing outputs the timing ring buffer
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		debugPrintln(FormatEvent(evt))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}

// traceEvent records evt and prints it when debug output is on
func traceEvent(eventType uint8, pin Pin, clock, value1, value2 uint32) {
	RecordTiming(eventType, pin, clock, value1, value2)
	if !debugEnabled {
		return
	}
	msg := FormatEvent(TimingEvent{
		EventType: eventType,
		Pin:       pin,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	})
	if debugChan != nil {
		DebugAsync(msg)
	} else {
		DebugPrintln(msg)
	}
}
