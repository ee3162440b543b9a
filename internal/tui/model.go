package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glowlan/glowlan/internal/registry"
)

// DeviceSource provides registry snapshots. *lan.Controller satisfies it.
type DeviceSource interface {
	Devices(ctx context.Context) ([]registry.DeviceRecord, error)
}

// Update is one correlated status delivered to the watch view
type Update struct {
	DeviceID string
	Payload  map[string]interface{}
}

// Messages for async operations
type devicesMsg []registry.DeviceRecord
type updateMsg Update
type pollErrMsg struct{ err error }

// watchKeyMap defines key bindings for the watch screen
type watchKeyMap struct {
	Help key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Help, k.Quit},
	}
}

var defaultKeys = watchKeyMap{
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the live watch view: the current registry on top, the latest
// correlated status line per device underneath.
type Model struct {
	source  DeviceSource
	updates <-chan Update

	devices    []registry.DeviceRecord
	lastStatus map[string]string
	lastSeen   map[string]time.Time

	spin     spinner.Model
	help     help.Model
	keys     watchKeyMap
	width    int
	pollErr  error
	quitting bool
}

// NewModel creates the watch model. Updates arriving on the channel are
// rendered as they come; the registry is re-polled once per second.
func NewModel(source DeviceSource, updates <-chan Update) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		source:     source,
		updates:    updates,
		lastStatus: make(map[string]string),
		lastSeen:   make(map[string]time.Time),
		spin:       sp,
		help:       help.New(),
		keys:       defaultKeys,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.pollDevices(), m.waitForUpdate())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case devicesMsg:
		m.devices = msg
		sort.Slice(m.devices, func(i, j int) bool { return m.devices[i].ID < m.devices[j].ID })
		m.pollErr = nil
		return m, m.pollDevices()

	case pollErrMsg:
		m.pollErr = msg.err
		return m, m.pollDevices()

	case updateMsg:
		m.lastStatus[msg.DeviceID] = renderStatus(msg.Payload)
		m.lastSeen[msg.DeviceID] = time.Now()
		return m, m.waitForUpdate()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("glowlan watch"))
	b.WriteString("\n\n")

	if m.pollErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("registry unavailable: %v", m.pollErr)))
		b.WriteString("\n\n")
	}

	if len(m.devices) == 0 {
		b.WriteString(fmt.Sprintf("%s scanning for devices...\n", m.spin.View()))
	} else {
		for _, d := range m.devices {
			marker := okStyle.Render("●")
			if !d.LANCapable {
				marker = warnStyle.Render("●")
			}
			b.WriteString(fmt.Sprintf("%s %s  %s  %s\n",
				marker,
				deviceIDStyle.Render(d.ID),
				d.SKU,
				addrStyle.Render(d.IP),
			))
			if status, ok := m.lastStatus[d.ID]; ok {
				age := time.Since(m.lastSeen[d.ID]).Round(time.Second)
				b.WriteString(statusStyle.Render(fmt.Sprintf("   %s (%s ago)", status, age)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) pollDevices() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		devices, err := m.source.Devices(ctx)
		if err != nil {
			return pollErrMsg{err: err}
		}
		return devicesMsg(devices)
	})
}

func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.updates
		if !ok {
			return nil
		}
		return updateMsg(u)
	}
}

// renderStatus flattens a status payload to one sorted key=value line,
// leaving out the source tag every LAN payload carries
func renderStatus(payload map[string]interface{}) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == "source" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}
	return strings.Join(parts, " ")
}
