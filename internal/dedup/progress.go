package dedup

import (
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"fpdedup/internal/logging"
)

// Progress receives one Advance per candidate file considered.
type Progress interface {
	Start(total int)
	Advance(name string)
	Finish()
}

// NopProgress discards progress events.
type NopProgress struct{}

func (NopProgress) Start(int)      {}
func (NopProgress) Advance(string) {}
func (NopProgress) Finish()        {}

// BarProgress renders a terminal progress bar showing files considered out
// of the total.
type BarProgress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewBarProgress renders to out, normally stderr attached to a terminal.
func NewBarProgress(out io.Writer) *BarProgress {
	return &BarProgress{out: out}
}

func (p *BarProgress) Start(total int) {
	if total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Scanning files"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(p.out, "\n")
		}),
	)
}

func (p *BarProgress) Advance(string) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *BarProgress) Finish() {
	if p.bar == nil {
		return
	}
	if !p.bar.IsFinished() {
		_ = p.bar.Finish()
	}
	p.bar = nil
}

// LogProgress logs "considered/total" lines, thinned by a ProgressSampler so
// large directories produce one line per bucket.
type LogProgress struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
	total   int
	done    int
}

// NewLogProgress logs through logger with bucketPercent-sized steps.
func NewLogProgress(logger *slog.Logger, bucketPercent float64) *LogProgress {
	return &LogProgress{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(bucketPercent),
	}
}

func (p *LogProgress) Start(total int) {
	p.total = total
	p.done = 0
	p.sampler.Reset()
}

func (p *LogProgress) Advance(name string) {
	p.done++
	if p.total <= 0 {
		return
	}
	percent := float64(p.done) * 100 / float64(p.total)
	if !p.sampler.ShouldLog(percent) {
		return
	}
	p.logger.Info("scanning files",
		logging.Int("considered", p.done),
		logging.Int("total", p.total),
		logging.Int("percent", int(percent)),
		logging.String(logging.FieldFile, name),
	)
}

func (p *LogProgress) Finish() {}

// Done returns how many files have been considered since Start.
func (p *LogProgress) Done() int {
	return p.done
}
