// Package reporter renders test-execution events as TeamCity service
// messages.
package reporter

import "github.com/jcourt/tcflow"

// Reporter receives test-execution events in source order: one call per
// boundary, each completing before the next begins, delivered by a single
// goroutine. Every SectionStarting is matched by exactly one SectionEnded
// before the owning case ends.
type Reporter interface {
	TestRunStarting(info tcflow.TestRunInfo) error
	TestRunEnded(stats tcflow.TestRunStats) error
	TestCaseStarting(info tcflow.TestCaseInfo) error
	TestCaseEnded(stats tcflow.TestCaseStats) error
	SectionStarting(info tcflow.SectionInfo) error
	SectionEnded(stats tcflow.SectionStats) error
	AssertionEnded(stats tcflow.AssertionStats) error
}

// Multi fans out events to multiple reporters, stopping on first error.
type Multi struct {
	reporters []Reporter
}

// NewMulti creates a reporter that dispatches to multiple reporters.
func NewMulti(reporters ...Reporter) *Multi {
	return &Multi{reporters: reporters}
}

// TestRunStarting dispatches to all reporters.
func (m *Multi) TestRunStarting(info tcflow.TestRunInfo) error {
	return m.each(func(r Reporter) error { return r.TestRunStarting(info) })
}

// TestRunEnded dispatches to all reporters.
func (m *Multi) TestRunEnded(stats tcflow.TestRunStats) error {
	return m.each(func(r Reporter) error { return r.TestRunEnded(stats) })
}

// TestCaseStarting dispatches to all reporters.
func (m *Multi) TestCaseStarting(info tcflow.TestCaseInfo) error {
	return m.each(func(r Reporter) error { return r.TestCaseStarting(info) })
}

// TestCaseEnded dispatches to all reporters.
func (m *Multi) TestCaseEnded(stats tcflow.TestCaseStats) error {
	return m.each(func(r Reporter) error { return r.TestCaseEnded(stats) })
}

// SectionStarting dispatches to all reporters.
func (m *Multi) SectionStarting(info tcflow.SectionInfo) error {
	return m.each(func(r Reporter) error { return r.SectionStarting(info) })
}

// SectionEnded dispatches to all reporters.
func (m *Multi) SectionEnded(stats tcflow.SectionStats) error {
	return m.each(func(r Reporter) error { return r.SectionEnded(stats) })
}

// AssertionEnded dispatches to all reporters.
func (m *Multi) AssertionEnded(stats tcflow.AssertionStats) error {
	return m.each(func(r Reporter) error { return r.AssertionEnded(stats) })
}

func (m *Multi) each(fn func(Reporter) error) error {
	for _, r := range m.reporters {
		err := fn(r)
		if err != nil {
			return err
		}
	}

	return nil
}
