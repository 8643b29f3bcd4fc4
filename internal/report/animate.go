package report

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eschneider1992/sim-control-projects/internal/plant"
)

const (
	animWidth  = 60
	animHeight = 16
	// Playback never runs faster than the terminal can usefully redraw.
	minFrameInterval = 16 * time.Millisecond
)

// Animate replays a finished run for plants that can draw themselves, one
// frame per recorded step at the loop's sample rate. Plants without the
// capability are silently skipped.
func Animate(p plant.Plant, title string, sampleTime float64) error {
	anim, ok := p.(plant.Animator)
	if !ok {
		return nil
	}
	frames := anim.Frames(animWidth, animHeight)
	if len(frames) == 0 {
		return nil
	}

	interval := time.Duration(sampleTime * float64(time.Second))
	if interval < minFrameInterval {
		interval = minFrameInterval
	}

	m := player{
		title:    title,
		frames:   frames,
		interval: interval,
	}
	_, err := tea.NewProgram(m).Run()
	return err
}

type player struct {
	title    string
	frames   []string
	interval time.Duration
	frame    int
	done     bool
}

type frameMsg struct{}

func (m player) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m player) Init() tea.Cmd {
	return m.tick()
}

func (m player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case frameMsg:
		if m.frame < len(m.frames)-1 {
			m.frame++
			return m, m.tick()
		}
		m.done = true
	}
	return m, nil
}

func (m player) View() string {
	hint := hintStyle.Render("q to quit")
	if m.done {
		hint = hintStyle.Render("playback finished, q to quit")
	}
	return fmt.Sprintf("%s\n%s\n%s  %s\n",
		titleStyle.Render(m.title),
		frameStyle.Render(m.frames[m.frame]),
		labelStyle.Render(fmt.Sprintf("frame %d/%d", m.frame+1, len(m.frames))),
		hint,
	)
}
