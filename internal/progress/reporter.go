// Package progress maintains the live terminal progress display: one bar per
// in-flight fetch item and one aggregate counter for the processing batch.
package progress

import (
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress updates from the fetch and processing stages.
//
// Implementations must be safe for concurrent use: fetch-engine callbacks and
// processing workers may call from multiple goroutines.
type Reporter interface {
	// ItemProgress creates or updates the byte-progress display for an
	// in-flight item. Displayed progress never regresses: updates carrying
	// a lower cumulative count than already shown are ignored.
	ItemProgress(id, title string, total, downloaded int64)

	// ItemFinished releases the item's display. It is idempotent: the
	// display is reclaimed exactly once per item, even if no terminal byte
	// count was ever observed.
	ItemFinished(id string)

	// BatchStarted opens the aggregate counter for a processing batch of n
	// tasks.
	BatchStarted(n int, description string)

	// BatchAdvance advances the aggregate counter by one completed task.
	BatchAdvance()

	// BatchFinished closes the aggregate counter.
	BatchFinished()
}

const descriptionLimit = 25

// Console renders progress with terminal bars, one per in-flight item.
// All display mutations are serialized behind a single mutex.
type Console struct {
	writer io.Writer

	mu    sync.Mutex
	bars  map[string]*progressbar.ProgressBar
	bytes map[string]int64
	batch *progressbar.ProgressBar
}

// NewConsole creates a Console reporter writing to w. A nil w writes to
// stderr, keeping bars separate from the stdout event stream.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{
		writer: w,
		bars:   make(map[string]*progressbar.ProgressBar),
		bytes:  make(map[string]int64),
	}
}

// ItemProgress implements Reporter.
func (c *Console) ItemProgress(id, title string, total, downloaded int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bar, ok := c.bars[id]
	if !ok {
		title = truncateTitle(title)
		max := total
		if max <= 0 {
			max = -1 // engine reported no size estimate
		}
		bar = progressbar.NewOptions64(max,
			progressbar.OptionSetWriter(c.writer),
			progressbar.OptionSetDescription(title+"..."),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
		c.bars[id] = bar
		c.bytes[id] = 0
	}

	// Duplicate or out-of-order callbacks must never walk the bar backwards.
	if downloaded <= c.bytes[id] {
		return
	}
	c.bytes[id] = downloaded
	_ = bar.Set64(downloaded)
}

// truncateTitle shortens the bar description to descriptionLimit characters.
// Titles are user-visible and frequently non-ASCII, so the cut lands on a
// rune boundary, never inside a multi-byte sequence.
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= descriptionLimit {
		return title
	}
	return string(runes[:descriptionLimit])
}

// ItemFinished implements Reporter.
func (c *Console) ItemFinished(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bar, ok := c.bars[id]
	if !ok {
		return
	}
	delete(c.bars, id)
	delete(c.bytes, id)
	_ = bar.Finish()
	_ = bar.Close()
}

// BatchStarted implements Reporter.
func (c *Console) BatchStarted(n int, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.batch = progressbar.NewOptions64(int64(n),
		progressbar.OptionSetWriter(c.writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
	)
}

// BatchAdvance implements Reporter.
func (c *Console) BatchAdvance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.batch != nil {
		_ = c.batch.Add(1)
	}
}

// BatchFinished implements Reporter.
func (c *Console) BatchFinished() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.batch != nil {
		_ = c.batch.Finish()
		_ = c.batch.Close()
		c.batch = nil
	}
}

// Nop is a Reporter that discards all updates.
type Nop struct{}

func (Nop) ItemProgress(string, string, int64, int64) {}
func (Nop) ItemFinished(string)                       {}
func (Nop) BatchStarted(int, string)                  {}
func (Nop) BatchAdvance()                             {}
func (Nop) BatchFinished()                            {}
