package pipeline

import "time"

// Progress observes batch advancement. Implementations render a bar or
// log lines; the Session only reports positions and its running ETA
// estimate (remaining items times the mean per-item duration so far).
type Progress interface {
	Start(total int)
	Advance(index int, name string, eta time.Duration)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(int)                          {}
func (nopProgress) Advance(int, string, time.Duration) {}
func (nopProgress) Finish()                            {}

// NopProgress reports nothing.
func NopProgress() Progress { return nopProgress{} }
