package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/revulabs/revu-cli/internal/analyzer"
)

// progressPrinter redraws a single status line while analyzers run. It
// counts clean versus flagged analyzers and keeps a running average of
// per-analyzer wall time.
type progressPrinter struct {
	label string
	total int

	mu      sync.Mutex
	clean   int
	flagged int
	elapsed float64

	refresh  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newProgressPrinter(total int, label string) *progressPrinter {
	if total < 1 {
		total = 1
	}
	return &progressPrinter{
		label:   label,
		total:   total,
		refresh: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (p *progressPrinter) Start() {
	go func() {
		ticker := time.NewTicker(300 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-p.refresh:
			case <-ticker.C:
			case <-p.done:
				return
			}
			p.redraw()
		}
	}()
}

// Observe records one finished analyzer. Any status other than ok counts
// as flagged, including timeouts and missing tools.
func (p *progressPrinter) Observe(result analyzer.Result, seconds float64) {
	p.mu.Lock()
	if result.Status == analyzer.StatusOK {
		p.clean++
	} else {
		p.flagged++
	}
	p.elapsed += seconds
	p.mu.Unlock()

	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Stop halts the redraw loop and leaves the final line on screen.
func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
	p.redraw()
	fmt.Fprintln(os.Stdout)
}

func (p *progressPrinter) redraw() {
	p.mu.Lock()
	clean, flagged, elapsed := p.clean, p.flagged, p.elapsed
	p.mu.Unlock()

	finished := clean + flagged
	total := p.total
	if finished > total {
		total = finished
	}

	avg := 0.0
	if finished > 0 {
		avg = elapsed / float64(finished)
	}

	fmt.Fprintf(os.Stdout, "\r[%s] Progress: %d/%d (%.1f%%) Clean:%d Flagged:%d Avg:%.2fs",
		p.label, finished, total, float64(finished)/float64(total)*100, clean, flagged, avg)
}
