package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glowlan/glowlan/internal/registry"
)

type stubSource struct {
	devices []registry.DeviceRecord
}

func (s *stubSource) Devices(ctx context.Context) ([]registry.DeviceRecord, error) {
	return s.devices, nil
}

func TestModel_DevicesMsg(t *testing.T) {
	m := NewModel(&stubSource{}, make(chan Update))

	next, _ := m.Update(devicesMsg([]registry.DeviceRecord{
		{ID: "CC:DD", SKU: "X9999", IP: "192.168.1.41"},
		{ID: "AA:BB", SKU: "H6159", IP: "192.168.1.40", LANCapable: true},
	}))
	m = next.(Model)

	if len(m.devices) != 2 {
		t.Fatalf("devices = %d, want 2", len(m.devices))
	}
	// Sorted by ID for a stable display
	if m.devices[0].ID != "AA:BB" {
		t.Errorf("first device = %s, want AA:BB", m.devices[0].ID)
	}

	view := m.View()
	for _, want := range []string{"AA:BB", "H6159", "192.168.1.40", "CC:DD"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_UpdateMsg(t *testing.T) {
	m := NewModel(&stubSource{}, make(chan Update))

	next, _ := m.Update(devicesMsg([]registry.DeviceRecord{
		{ID: "AA:BB", SKU: "H6159", IP: "192.168.1.40", LANCapable: true},
	}))
	m = next.(Model)

	next, _ = m.Update(updateMsg(Update{
		DeviceID: "AA:BB",
		Payload:  map[string]interface{}{"onOff": float64(1), "brightness": float64(80), "source": "LAN"},
	}))
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "brightness=80 onOff=1") {
		t.Errorf("View() missing rendered status, got:\n%s", view)
	}
	// The source tag is display noise, not status
	if strings.Contains(view, "source=") {
		t.Error("View() should not render the source tag")
	}
}

func TestModel_EmptyRegistryShowsScanning(t *testing.T) {
	m := NewModel(&stubSource{}, make(chan Update))

	if !strings.Contains(m.View(), "scanning for devices") {
		t.Error("View() should show the scanning hint while the registry is empty")
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := NewModel(&stubSource{}, make(chan Update))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key produced no command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("quit key command = %v, want tea.Quit", msg)
	}
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		want    string
	}{
		{
			name:    "sorted keys without source",
			payload: map[string]interface{}{"source": "LAN", "onOff": 1, "brightness": 100},
			want:    "brightness=100 onOff=1",
		},
		{
			name:    "only source",
			payload: map[string]interface{}{"source": "LAN"},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderStatus(tt.payload); got != tt.want {
				t.Errorf("renderStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
