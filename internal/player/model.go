package player

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgpai22/srtcue/internal/subtitle"
)

var (
	captionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)
	statusStyle = lipgloss.NewStyle().Faint(true)
	helpText    = "[space] play/pause | [r] reset | [+/-] sync delay | [q] quit"
)

type tickMsg time.Time

// Model is the bubbletea model for interactive playback.
type Model struct {
	playback *Playback
	tick     time.Duration
	title    string
	width    int
	height   int
	finished bool
}

func NewModel(queue *subtitle.Queue, title string, opts Options) Model {
	opts = opts.withDefaults()
	return Model{
		playback: NewPlayback(queue, opts),
		tick:     opts.Tick,
		title:    title,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.nextTick()
}

// Update handles key presses, window resizes and clock ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			clock := m.playback.Clock()
			if clock.Paused() {
				clock.Resume()
			} else {
				clock.Pause()
			}
			return m, nil
		case "r":
			m.playback.Rewind()
			m.playback.Step()
			return m, nil
		case "+", "=":
			m.playback.AdjustSyncDelay(syncDelayStep)
			return m, nil
		case "-", "_":
			m.playback.AdjustSyncDelay(-syncDelayStep)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.playback.Step()
		if m.playback.Done() {
			m.finished = true
			return m, tea.Quit
		}
		return m, m.nextTick()
	}
	return m, nil
}

// View renders the active caption and a status line.
func (m Model) View() string {
	var view strings.Builder

	if m.title != "" {
		view.WriteString(statusStyle.Render(m.title))
		view.WriteString("\n\n")
	}

	style := captionStyle
	if m.width > 0 {
		style = style.Width(m.width)
	}
	if rec, ok := m.playback.Current(); ok {
		view.WriteString(style.Render(rec.Text))
	} else {
		view.WriteString(style.Render(""))
	}
	view.WriteString("\n\n")

	clock := m.playback.Clock()
	state := "playing"
	if clock.Paused() {
		state = "paused"
	}
	if m.finished {
		state = "finished"
	}
	status := fmt.Sprintf("%s  %s  delay %s  %d/%d",
		FormatTimestamp(subtitle.TimestampFromDuration(clock.Position())),
		state,
		m.playback.SyncDelay(),
		m.playback.queue.Position(),
		m.playback.queue.Len(),
	)
	view.WriteString(statusStyle.Render(status))
	view.WriteString("\n")
	view.WriteString(statusStyle.Render(helpText))

	return view.String()
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run plays queue in the terminal until it is drained, the user quits or ctx
// is done.
func Run(ctx context.Context, queue *subtitle.Queue, title string, opts Options) error {
	p := tea.NewProgram(
		NewModel(queue, title, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
