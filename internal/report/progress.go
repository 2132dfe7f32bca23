package report

import "log/slog"

// Progress is an observer that writes a structured log line every N sampled
// steps, so long runs show life without flooding the log.
type Progress struct {
	logger *slog.Logger
	every  int
}

// NewProgress builds a progress observer. A non-positive interval logs every
// step.
func NewProgress(logger *slog.Logger, every int) *Progress {
	if every <= 0 {
		every = 1
	}
	return &Progress{logger: logger, every: every}
}

// OnStep logs the step number and the sampled totals sum when the step hits
// the configured interval.
func (p *Progress) OnStep(step int, totals map[string]int64) {
	if p == nil || p.logger == nil {
		return
	}
	if step%p.every != 0 {
		return
	}
	var sum int64
	for _, v := range totals {
		sum += v
	}
	p.logger.Info("simulation progress", "step", step, "micro_units_recorded", sum)
}
