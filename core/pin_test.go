package core

import "testing"

func TestPinDecode(t *testing.T) {
	testCases := []struct {
		pin   Pin
		port  uint8
		index uint8
		mask  uint8
		name  string
	}{
		{IO10, 0, 0, 0x01, "P1.0"},
		{IO13, 0, 3, 0x08, "P1.3"},
		{IO16, 0, 6, 0x40, "P1.6"},
		{IO17, 0, 7, 0x80, "P1.7"},
		{IO20, 1, 0, 0x01, "P2.0"},
		{IO25, 1, 5, 0x20, "P2.5"},
		{IO27, 1, 7, 0x80, "P2.7"},
	}

	for _, tc := range testCases {
		if got := tc.pin.Port(); got != tc.port {
			t.Errorf("%s: Port() = %d, want %d", tc.name, got, tc.port)
		}
		if got := tc.pin.Index(); got != tc.index {
			t.Errorf("%s: Index() = %d, want %d", tc.name, got, tc.index)
		}
		if got := tc.pin.Mask(); got != tc.mask {
			t.Errorf("%s: Mask() = 0x%02X, want 0x%02X", tc.name, got, tc.mask)
		}
		if got := tc.pin.String(); got != tc.name {
			t.Errorf("String() = %q, want %q", got, tc.name)
		}
	}
}

func TestPinDecodeAllValid(t *testing.T) {
	for p := IO10; p <= IO27; p++ {
		if !p.Valid() {
			t.Fatalf("pin %d should be valid", p)
		}
		if p.Port() >= PortCount {
			t.Errorf("pin %d: port %d out of range", p, p.Port())
		}

		mask := p.Mask()
		if mask == 0 || mask&(mask-1) != 0 {
			t.Errorf("pin %d: mask 0x%02X is not a single bit", p, mask)
		}

		// Decoding is pure
		again := Pin(uint8(p))
		if again.Port() != p.Port() || again.Mask() != mask {
			t.Errorf("pin %d: decode not stable", p)
		}
	}
}

func TestPinInvalid(t *testing.T) {
	for _, p := range []Pin{Pin(0x10), Pin(0x18), Pin(0x20), Pin(0xFF)} {
		if p.Valid() {
			t.Errorf("pin 0x%02X should be invalid", uint8(p))
		}
	}
}

func TestPinAliases(t *testing.T) {
	if LEDRed != IO10 {
		t.Errorf("LEDRed = %d, want IO10", LEDRed)
	}
	if LEDGreen != IO16 {
		t.Errorf("LEDGreen = %d, want IO16", LEDGreen)
	}
}
