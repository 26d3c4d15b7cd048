package reporter

import "github.com/jcourt/tcflow"

// Stats accumulates per-case outcomes so callers can decide exit codes
// without parsing the wire output. Like every Reporter it is driven by a
// single goroutine.
type Stats struct {
	Cases   int
	Failed  int
	Ignored int

	current tcflow.TestCaseInfo
	failed  bool
	ignored bool
}

// NewStats creates an empty accumulator.
func NewStats() *Stats {
	return &Stats{}
}

// TestRunStarting is a no-op for Stats.
func (s *Stats) TestRunStarting(tcflow.TestRunInfo) error { return nil }

// TestRunEnded is a no-op for Stats.
func (s *Stats) TestRunEnded(tcflow.TestRunStats) error { return nil }

// TestCaseStarting begins tracking a new case.
func (s *Stats) TestCaseStarting(info tcflow.TestCaseInfo) error {
	s.current = info
	s.failed = false
	s.ignored = false

	return nil
}

// TestCaseEnded records the tracked case's outcome.
func (s *Stats) TestCaseEnded(tcflow.TestCaseStats) error {
	s.Cases++

	switch {
	case s.failed:
		s.Failed++
	case s.ignored:
		s.Ignored++
	}

	return nil
}

// SectionStarting is a no-op for Stats.
func (s *Stats) SectionStarting(tcflow.SectionInfo) error { return nil }

// SectionEnded is a no-op for Stats.
func (s *Stats) SectionEnded(tcflow.SectionStats) error { return nil }

// AssertionEnded classifies the current case from the assertion outcome.
// Failures in a case marked ok-to-fail count as ignored, matching the wire
// output's testIgnored messages.
func (s *Stats) AssertionEnded(stats tcflow.AssertionStats) error {
	kind := stats.Result.Kind

	switch {
	case kind == tcflow.ResultExplicitSkip:
		s.ignored = true
	case !kind.IsOk():
		if s.current.OkToFail {
			s.ignored = true
		} else {
			s.failed = true
		}
	}

	return nil
}

// Ok reports whether no case failed.
func (s *Stats) Ok() bool {
	return s.Failed == 0
}
