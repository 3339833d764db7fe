package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pulsewatch.dev/internal/config"
	"pulsewatch.dev/internal/sensor"
	"pulsewatch.dev/internal/watchdog"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Sensor.Demo = true
	return New(cfg)
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func reading(bpm uint) watchdog.ReadingMsg {
	return watchdog.ReadingMsg{Reading: sensor.Reading{
		BPM:     bpm,
		Contact: sensor.ContactDetected,
		At:      time.Now(),
	}}
}

func TestReadingPublishesBadge(t *testing.T) {
	m := testModel(t)

	m = update(m, reading(72))
	if !m.haveFrame {
		t.Fatal("no frame after reading")
	}
	if m.frame.Text != "72" {
		t.Errorf("frame text: %q", m.frame.Text)
	}
	if m.surface == "" {
		t.Error("empty badge surface")
	}

	created, released := m.shared.icons.Stats()
	if created != 1 || released != 0 {
		t.Errorf("handles: created=%d released=%d", created, released)
	}

	m = update(m, reading(80))
	created, released = m.shared.icons.Stats()
	if created != 2 || released != 1 {
		t.Errorf("after second reading: created=%d released=%d", created, released)
	}
}

func TestReadingsRenderInArrivalOrder(t *testing.T) {
	m := testModel(t)

	for _, bpm := range []uint{60, 90, 75} {
		m = update(m, reading(bpm))
	}
	if m.frame.Text != "75" {
		t.Errorf("last frame text: %q, want the last reading", m.frame.Text)
	}
	if m.shared.history.Len() != 3 {
		t.Errorf("history: %d samples", m.shared.history.Len())
	}
}

func TestAlertThrottledInUpdateLoop(t *testing.T) {
	m := testModel(t)

	m = update(m, reading(160))
	firstAlert := m.lastAlert
	if firstAlert.IsZero() {
		t.Fatal("alert did not fire at 160")
	}

	// Within cooldown: the banner timestamp must not move.
	m = update(m, reading(170))
	if !m.lastAlert.Equal(firstAlert) {
		t.Error("alert fired again inside cooldown")
	}
}

func TestStateMsgUpdatesState(t *testing.T) {
	m := testModel(t)

	m = update(m, watchdog.StateMsg{State: watchdog.StateReconnecting})
	if m.state != watchdog.StateReconnecting {
		t.Errorf("state: %v", m.state)
	}
	if m.statusLabel() != "RECONNECTING" {
		t.Errorf("status label: %q", m.statusLabel())
	}
}

func TestFatalMsgQuitsAndClosesHandles(t *testing.T) {
	m := testModel(t)
	m = update(m, reading(70))

	next, cmd := m.Update(watchdog.FatalMsg{Err: errFake})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.FatalErr() == nil {
		t.Error("fatal error not recorded")
	}

	created, released := m.shared.icons.Stats()
	if created != released {
		t.Errorf("handle leak on shutdown: created=%d released=%d", created, released)
	}
}

func TestPauseSkipsRenderButKeepsHistory(t *testing.T) {
	m := testModel(t)
	m = update(m, reading(70))
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})

	m = update(m, reading(90))
	if m.frame.Text != "70" {
		t.Errorf("frame advanced while paused: %q", m.frame.Text)
	}
	if m.shared.history.Len() != 2 {
		t.Errorf("history stopped while paused: %d", m.shared.history.Len())
	}
}

func TestDisconnectedStatusLabel(t *testing.T) {
	m := testModel(t)
	m = update(m, watchdog.StateMsg{State: watchdog.StateConnected})

	m = update(m, watchdog.ReadingMsg{Reading: sensor.Reading{
		BPM: 0, Contact: sensor.ContactLost, At: time.Now(),
	}})
	if !m.frame.Disconnected {
		t.Error("frame not marked disconnected")
	}
	if m.statusLabel() != "DISCONNECTED" {
		t.Errorf("status label: %q", m.statusLabel())
	}
	if m.frame.Text != "0" {
		t.Errorf("text before disconnect timeout: %q", m.frame.Text)
	}
}

func TestBPMRing(t *testing.T) {
	r := NewBPMRing(4)
	for i := 1; i <= 6; i++ {
		r.Push(float64(i * 10))
	}

	vals := r.Values()
	if len(vals) != 4 {
		t.Fatalf("len: %d", len(vals))
	}
	want := []float64{30, 40, 50, 60}
	for i, v := range vals {
		if v != want[i] {
			t.Errorf("vals[%d]=%v, want %v", i, v, want[i])
		}
	}

	r.Push(0) // disconnected sample
	min, avg, peak := r.Stats()
	if min != 40 || peak != 60 {
		t.Errorf("min=%v peak=%v", min, peak)
	}
	if avg != 50 {
		t.Errorf("avg=%v", avg)
	}
}

var errFake = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "sensor gone" }
