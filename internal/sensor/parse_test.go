package sensor

import (
	"testing"
	"time"
)

func TestParseMeasurement8Bit(t *testing.T) {
	now := time.Now()

	// contact supported + detected, 8-bit rate
	r, err := ParseMeasurement([]byte{0x06, 72}, now)
	if err != nil {
		t.Fatalf("ParseMeasurement: %v", err)
	}
	if r.BPM != 72 {
		t.Errorf("BPM: got %d, want 72", r.BPM)
	}
	if r.Contact != ContactDetected {
		t.Errorf("Contact: got %v, want %v", r.Contact, ContactDetected)
	}
	if r.At != now {
		t.Errorf("At: got %v, want %v", r.At, now)
	}
}

func TestParseMeasurement16Bit(t *testing.T) {
	r, err := ParseMeasurement([]byte{0x01, 0x2C, 0x01}, time.Now())
	if err != nil {
		t.Fatalf("ParseMeasurement: %v", err)
	}
	if r.BPM != 300 {
		t.Errorf("BPM: got %d, want 300", r.BPM)
	}
	if r.Contact != ContactUnknown {
		t.Errorf("Contact: got %v, want unknown (support flag clear)", r.Contact)
	}
}

func TestParseMeasurementContactLost(t *testing.T) {
	// contact supported but not detected
	r, err := ParseMeasurement([]byte{0x04, 0}, time.Now())
	if err != nil {
		t.Fatalf("ParseMeasurement: %v", err)
	}
	if r.Contact != ContactLost {
		t.Errorf("Contact: got %v, want %v", r.Contact, ContactLost)
	}
	if !r.Disconnected() {
		t.Error("expected Disconnected() for zero rate with contact lost")
	}
}

func TestParseMeasurementRRIntervals(t *testing.T) {
	// 8-bit rate + energy expended + two RR intervals of 1024 (1s) and 512 (0.5s)
	buf := []byte{
		0x18, 65, // flags, rate
		0x10, 0x00, // energy expended, skipped
		0x00, 0x04, // RR = 1024
		0x00, 0x02, // RR = 512
	}
	r, err := ParseMeasurement(buf, time.Now())
	if err != nil {
		t.Fatalf("ParseMeasurement: %v", err)
	}
	if len(r.RR) != 2 {
		t.Fatalf("RR count: got %d, want 2", len(r.RR))
	}
	if r.RR[0] != time.Second {
		t.Errorf("RR[0]: got %v, want 1s", r.RR[0])
	}
	if r.RR[1] != 500*time.Millisecond {
		t.Errorf("RR[1]: got %v, want 500ms", r.RR[1])
	}
}

func TestParseMeasurementShortPackets(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x00},
		{0x01, 0x48},       // 16-bit flag but only one rate byte
		{0x08, 72, 0x10},   // energy flag but one energy byte
	}
	for _, buf := range cases {
		if _, err := ParseMeasurement(buf, time.Now()); err == nil {
			t.Errorf("expected error for packet %v", buf)
		}
	}
}

func TestMockScriptDeterministic(t *testing.T) {
	at := time.Now()

	a := readingAt(10, at)
	b := readingAt(10, at)
	if a.BPM != b.BPM || a.Contact != b.Contact {
		t.Errorf("same tick produced different readings: %+v vs %+v", a, b)
	}

	// dropout window at the end of each dropEvery cycle
	drop := readingAt(mockDropEvery-1, at)
	if !drop.Disconnected() {
		t.Errorf("tick %d should be a dropout, got %+v", mockDropEvery-1, drop)
	}

	ok := readingAt(1, at)
	if ok.Disconnected() {
		t.Errorf("tick 1 should be connected, got %+v", ok)
	}
	if len(ok.RR) != 1 || ok.RR[0] <= 0 {
		t.Errorf("expected one positive RR interval, got %v", ok.RR)
	}
}
