package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hearthlink/hearth/internal/fireplace"
	"github.com/hearthlink/hearth/internal/protocol"
	"github.com/hearthlink/hearth/internal/ui"
)

// Watch command flags
var watchIntervalSec int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the fireplace status in a live terminal view",
	Long: `Watch the fireplace status in a live terminal view.

The view polls the fireplace on an interval and supports direct control:

  p       toggle power
  b       toggle the second burner
  + / -   flame height up/down by 10
  r       refresh now
  q       quit`,
	Example: `  # Watch with the default 3s poll interval
  hearth-ctl watch --device 192.168.0.22

  # Slower polling
  hearth-ctl watch --interval 10`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchIntervalSec, "interval", 3, "Poll interval in seconds")
}

func runWatch(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	interval := time.Duration(watchIntervalSec) * time.Second
	if interval <= 0 {
		interval = 3 * time.Second
	}

	model := newWatchModel(client, interval)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("watch view failed: %w", err)
	}
	return nil
}

// Messages

type tickMsg time.Time

type statusMsg struct {
	state protocol.State
	err   error
}

type actionDoneMsg struct {
	name string
	err  error
}

// watchModel is the Bubble Tea model for the watch view
type watchModel struct {
	client   *fireplace.Client
	interval time.Duration
	spin     spinner.Model

	state     protocol.State
	haveState bool
	lastOK    time.Time
	err       error

	busy     bool
	lastNote string
	quitting bool
}

func newWatchModel(client *fireplace.Client, interval time.Duration) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ui.PrimaryColor)
	return watchModel{
		client:   client,
		interval: interval,
		spin:     sp,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.fetchStatus(), m.tick(), m.spin.Tick)
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchStatus queries the device off the UI goroutine.
func (m watchModel) fetchStatus() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		st, err := client.Status(ctx)
		return statusMsg{state: st, err: err}
	}
}

// sendAction runs a control command, then the next tick refreshes the view.
func (m watchModel) sendAction(name string, fn func(context.Context, *fireplace.Client) error) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		return actionDoneMsg{name: name, err: fn(ctx, client)}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, tea.Batch(m.fetchStatus(), m.tick())

	case statusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.state = msg.state
			m.haveState = true
			m.lastOK = time.Now()
		}
		return m, nil

	case actionDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.lastNote = fmt.Sprintf("%s failed", msg.name)
		} else {
			m.lastNote = fmt.Sprintf("%s sent", msg.name)
		}
		return m, m.fetchStatus()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "r":
		return m, m.fetchStatus()
	}

	// Control keys are ignored while a command is in flight or before the
	// first status arrives.
	if m.busy || !m.haveState {
		return m, nil
	}

	switch msg.String() {
	case "p":
		m.busy = true
		if m.state.Power {
			return m, m.sendAction("power off", func(ctx context.Context, c *fireplace.Client) error {
				return c.PowerOff(ctx)
			})
		}
		return m, m.sendAction("ignition", func(ctx context.Context, c *fireplace.Client) error {
			return c.PowerOn(ctx)
		})

	case "b":
		m.busy = true
		if m.state.Burner2 {
			return m, m.sendAction("burner2 off", func(ctx context.Context, c *fireplace.Client) error {
				return c.Burner2Off(ctx)
			})
		}
		return m, m.sendAction("burner2 on", func(ctx context.Context, c *fireplace.Client) error {
			return c.Burner2On(ctx)
		})

	case "+", "=", "up":
		return m.nudgeFlame(10)

	case "-", "_", "down":
		return m.nudgeFlame(-10)
	}

	return m, nil
}

func (m watchModel) nudgeFlame(delta int) (tea.Model, tea.Cmd) {
	level := m.state.FlameLevel + delta
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	if level == m.state.FlameLevel {
		return m, nil
	}
	m.busy = true
	name := fmt.Sprintf("flame %d%%", level)
	return m, m.sendAction(name, func(ctx context.Context, c *fireplace.Client) error {
		return c.SetFlame(ctx, level)
	})
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	width := ui.GetTerminalWidth()
	var b strings.Builder

	title := "HEARTH"
	if m.haveState && m.state.DeviceName != "" {
		title = strings.ToUpper(m.state.DeviceName)
	}
	b.WriteString(ui.TitleStyle.Render(title))
	b.WriteString(ui.HintStyle.Render("  " + m.client.Addr()))
	b.WriteString("\n\n")

	if !m.haveState {
		if m.err != nil {
			b.WriteString(ui.ErrorStyle.Render(" " + m.err.Error()))
		} else {
			b.WriteString(" " + m.spin.View() + " connecting...")
		}
		b.WriteString("\n")
		return ui.BoxStyle(width).Render(b.String()) + "\n" + m.hints()
	}

	b.WriteString(ui.LabelStyle.Render("Power") + m.renderOnOff(m.state.Power) + "\n")
	b.WriteString(ui.LabelStyle.Render("Flame") +
		ui.FlameBar(m.state.FlameLevel, width-24) +
		ui.ValueStyle.Render(fmt.Sprintf(" %3d%%", m.state.FlameLevel)) + "\n")
	b.WriteString(ui.LabelStyle.Render("Burner 2") + m.renderOnOff(m.state.Burner2) + "\n")
	b.WriteString(ui.LabelStyle.Render("Pilot") + m.renderOnOff(m.state.Pilot) + "\n")

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(ui.HintStyle.Render(" " + m.spin.View() + " sending..."))
	case m.err != nil:
		b.WriteString(ui.ErrorStyle.Render(" " + m.err.Error()))
	case time.Since(m.lastOK) > 2*m.interval:
		b.WriteString(ui.StaleStyle.Render(" status stale"))
	case m.lastNote != "":
		b.WriteString(ui.HintStyle.Render(" " + m.lastNote))
	}
	b.WriteString("\n")

	return ui.BoxStyle(width).Render(b.String()) + "\n" + m.hints()
}

func (m watchModel) renderOnOff(on bool) string {
	if on {
		return ui.OnStyle.Render(ui.OnMarker + " on")
	}
	return ui.OffStyle.Render(ui.OffMarker + " off")
}

func (m watchModel) hints() string {
	return ui.HintStyle.Render("p power · b burner2 · +/- flame · r refresh · q quit") + "\n"
}
