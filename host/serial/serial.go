package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the trace console
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns a default configuration for the trace console
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100, // 100ms read timeout
	}
}

// LineWriter returns a function that writes s followed by CRLF to w.
// Write errors are counted in *errs when errs is non-nil.
func LineWriter(w io.Writer, errs *int) func(string) {
	return func(s string) {
		if _, err := io.WriteString(w, s+"\r\n"); err != nil && errs != nil {
			*errs++
		}
	}
}
