package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Status represents the state of a step
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSuccess
	StatusSkipped
	StatusFailed
)

// Item represents a single step being tracked
type Item struct {
	Name     string
	Info     string
	Status   Status
	Duration time.Duration
	Error    error
}

// Tracker renders progress for a fixed list of sequential steps. On a TTY a
// spinner goroutine redraws the running step; elsewhere every transition is
// printed as a timestamped line.
type Tracker struct {
	mu           sync.Mutex
	wg           sync.WaitGroup
	out          io.Writer
	items        []Item
	current      int
	startTime    time.Time
	isTTY        bool
	useColor     bool
	caps         terminalCapabilities
	stopChan     chan struct{}
	stopOnce     sync.Once
	spinnerFrame int
	actionVerb   string
	interval     time.Duration
}

var spinnerFrames = []string{"✦", "✸", "✹", "❋", "✹", "✸"}

// NewTrackerWithVerb creates a tracker writing to stdout.
func NewTrackerWithVerb(names []string, verb string) *Tracker {
	_, noColor := os.LookupEnv("NO_COLOR")
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	caps := detectCapabilities()

	t := newTracker(os.Stdout, names, verb, isTTY, caps)
	t.useColor = !noColor && isTTY && caps.supportsANSI
	return t
}

func newTracker(out io.Writer, names []string, verb string, isTTY bool, caps terminalCapabilities) *Tracker {
	items := make([]Item, len(names))
	for i, name := range names {
		items[i] = Item{Name: name, Status: StatusPending}
	}

	return &Tracker{
		out:        out,
		items:      items,
		current:    -1,
		isTTY:      isTTY,
		caps:       caps,
		stopChan:   make(chan struct{}),
		actionVerb: verb,
		interval:   200 * time.Millisecond,
	}
}

// Start begins tracking and starts the spinner animation if in TTY mode
func (t *Tracker) Start() {
	if t.isTTY {
		t.wg.Add(1)
		go t.animate()
	}
}

// Track runs fn as step index and records its outcome.
func (t *Tracker) Track(index int, fn func() error) error {
	t.StartItem(index)
	err := fn()
	t.CompleteItem(index, err)
	t.PrintItemComplete(index)
	return err
}

// SetInfo attaches extra detail shown next to the step name.
func (t *Tracker) SetInfo(index int, info string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[index].Info = info
}

// StartItem marks an item as running
func (t *Tracker) StartItem(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = index
	t.items[index].Status = StatusRunning
	t.startTime = time.Now()

	if !t.isTTY {
		fmt.Fprintf(t.out, "[%s] %s %s %s...\n", timestamp(), t.counter(index), t.actionVerb, t.formatDisplayName(t.items[index]))
	}
}

// CompleteItem marks an item as completed (success or failure)
func (t *Tracker) CompleteItem(index int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items[index].Duration = time.Since(t.startTime)
	if err != nil {
		t.items[index].Status = StatusFailed
		t.items[index].Error = err
	} else {
		t.items[index].Status = StatusSuccess
	}

	if !t.isTTY {
		sym, status := "+", "completed"
		if err != nil {
			sym, status = "x", "FAILED"
		}
		fmt.Fprintf(t.out, "[%s] %s %s %s (%s)\n", timestamp(), sym, t.items[index].Name, status, formatDuration(t.items[index].Duration))
	}
}

// SkipItem records a step that does not apply to this run.
func (t *Tracker) SkipItem(index int, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items[index].Status = StatusSkipped
	t.items[index].Info = reason
	if !t.isTTY {
		fmt.Fprintf(t.out, "[%s] - %s skipped (%s)\n", timestamp(), t.items[index].Name, reason)
		return
	}
	fmt.Fprint(t.out, clearLine(t.caps))
	fmt.Fprintf(t.out, "  %s %s  %s\n", t.style("2", "-"), t.style("2", t.counter(index)), t.style("2", t.formatDisplayName(t.items[index])))
}

// Stop ends the progress tracking and waits for the spinner to exit.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
	})
	t.wg.Wait()

	if t.isTTY {
		t.mu.Lock()
		if t.useColor {
			fmt.Fprint(t.out, "\033[0m")
		}
		fmt.Fprint(t.out, clearLine(t.caps))
		t.mu.Unlock()
	}
}

// Items returns a snapshot of the tracked steps.
func (t *Tracker) Items() []Item {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Item(nil), t.items...)
}

func (t *Tracker) animate() {
	defer t.wg.Done()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.current >= 0 && t.items[t.current].Status == StatusRunning {
				t.spinnerFrame++
				fmt.Fprint(t.out, clearLine(t.caps)+truncateToWidth(t.statusLine(), t.caps.terminalWidth))
			}
			t.mu.Unlock()
		}
	}
}

// statusLine renders the running step. Callers hold mu.
func (t *Tracker) statusLine() string {
	item := t.items[t.current]
	spinner := spinnerFrames[t.spinnerFrame%len(spinnerFrames)]
	elapsed := formatDuration(time.Since(t.startTime))

	if t.useColor {
		return fmt.Sprintf("  \033[1m%s %s  %s\033[0m  %s", spinner, t.counter(t.current), t.formatDisplayName(item), t.style("2", elapsed))
	}
	return fmt.Sprintf("  %s %s  %s  %s", spinner, t.counter(t.current), t.formatDisplayName(item), elapsed)
}

// PrintItemComplete prints the completion status of an item
func (t *Tracker) PrintItemComplete(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isTTY {
		return
	}

	item := t.items[index]
	fmt.Fprint(t.out, clearLine(t.caps))

	sym := t.style("32", "+")
	suffix := fmt.Sprintf("(%s)", formatDuration(item.Duration))
	if item.Status == StatusFailed {
		sym = t.style("31", "x")
		suffix += " FAILED"
	}

	fmt.Fprintf(t.out, "  %s %s  %s  %s\n", sym, t.style("2", t.counter(index)), t.formatDisplayName(item), t.style("2", suffix))
}

// Summary returns a summary string of completed steps
func (t *Tracker) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var totalDuration time.Duration
	counts := map[Status]int{}
	for _, item := range t.items {
		totalDuration += item.Duration
		counts[item.Status]++
	}

	var parts []string
	if n := counts[StatusSuccess]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d succeeded", n))
	}
	if n := counts[StatusSkipped]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	if n := counts[StatusFailed]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing run")
	}

	return fmt.Sprintf("%s in %s", strings.Join(parts, ", "), formatDuration(totalDuration))
}

func (t *Tracker) counter(index int) string {
	return fmt.Sprintf("[%d/%d]", index+1, len(t.items))
}

func (t *Tracker) formatDisplayName(item Item) string {
	if item.Info == "" {
		return item.Name
	}
	return fmt.Sprintf("%s %s", item.Name, t.style("2", "("+item.Info+")"))
}

func (t *Tracker) style(code string, text string) string {
	if !t.useColor {
		return text
	}
	return "\033[" + code + "m" + text + "\033[0m"
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second

	if m > 0 {
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
