// Package countdown implements a restartable per-question timer for the
// Bubble Tea loop.
//
// Every Reset and Stop starts a new generation. Ticks and expiries carry the
// generation they were armed for, and anything from an older generation is
// ignored, so a reset never lets the previous question's timer fire.
package countdown

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// TickMsg is delivered once per interval while the countdown runs.
type TickMsg struct {
	ID  int
	Gen int
}

// ExpiredMsg is delivered exactly once when a generation reaches zero.
type ExpiredMsg struct {
	ID  int
	Gen int
}

// Model is a value-type countdown.
type Model struct {
	id        int
	gen       int
	total     int // seconds
	remaining int
	running   bool
	interval  time.Duration
}

// New creates a stopped countdown of the given duration, rounded down to
// whole seconds (minimum one).
func New(d time.Duration) Model {
	total := int(d / time.Second)
	if total < 1 {
		total = 1
	}
	return Model{
		id:        nextID(),
		total:     total,
		remaining: total,
		interval:  time.Second,
	}
}

// Reset restarts the countdown at its full duration and returns the first
// tick. Pending ticks from earlier generations become stale.
func (m Model) Reset() (Model, tea.Cmd) {
	m.gen++
	m.remaining = m.total
	m.running = true
	return m, m.tick()
}

// Stop halts the countdown. Pending ticks become stale and no expiry fires.
func (m Model) Stop() Model {
	m.gen++
	m.running = false
	return m
}

// Update advances the countdown on its own ticks and ignores everything
// else.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != m.id || tick.Gen != m.gen || !m.running {
		return m, nil
	}

	m.remaining--
	if m.remaining > 0 {
		return m, m.tick()
	}

	m.remaining = 0
	m.running = false
	expired := ExpiredMsg{ID: m.id, Gen: m.gen}
	return m, func() tea.Msg { return expired }
}

// Current reports whether an expiry belongs to this countdown's current
// generation. An expiry already in flight when Reset was called is not
// current.
func (m Model) Current(msg ExpiredMsg) bool {
	return msg.ID == m.id && msg.Gen == m.gen
}

// Remaining returns the seconds left.
func (m Model) Remaining() int { return m.remaining }

// Total returns the full duration in seconds.
func (m Model) Total() int { return m.total }

// Running reports whether the countdown is ticking.
func (m Model) Running() bool { return m.running }

// Fraction returns the remaining share of the duration in [0, 1].
func (m Model) Fraction() float64 {
	return float64(m.remaining) / float64(m.total)
}

// View renders the remaining time as m:ss.
func (m Model) View() string {
	return fmt.Sprintf("%d:%02d", m.remaining/60, m.remaining%60)
}

func (m Model) tick() tea.Cmd {
	msg := TickMsg{ID: m.id, Gen: m.gen}
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return msg
	})
}
