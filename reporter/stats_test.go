package reporter

import (
	"errors"
	"testing"

	"github.com/jcourt/tcflow"
)

func runCase(t *testing.T, rep Reporter, info tcflow.TestCaseInfo, assertions ...tcflow.AssertionStats) {
	t.Helper()

	if err := rep.TestCaseStarting(info); err != nil {
		t.Fatalf("TestCaseStarting: %v", err)
	}

	for _, a := range assertions {
		if err := rep.AssertionEnded(a); err != nil {
			t.Fatalf("AssertionEnded: %v", err)
		}
	}

	if err := rep.TestCaseEnded(tcflow.TestCaseStats{Info: info}); err != nil {
		t.Fatalf("TestCaseEnded: %v", err)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	stats := NewStats()

	runCase(t, stats, tcflow.TestCaseInfo{Name: "passes"},
		tcflow.AssertionStats{Result: tcflow.AssertionResult{Kind: tcflow.ResultOk}})

	runCase(t, stats, tcflow.TestCaseInfo{Name: "fails"},
		tcflow.AssertionStats{Result: tcflow.AssertionResult{Kind: tcflow.ResultExpressionFailed}})

	runCase(t, stats, tcflow.TestCaseInfo{Name: "skips"},
		tcflow.AssertionStats{Result: tcflow.AssertionResult{Kind: tcflow.ResultExplicitSkip}})

	runCase(t, stats, tcflow.TestCaseInfo{Name: "tolerated", OkToFail: true},
		tcflow.AssertionStats{Result: tcflow.AssertionResult{Kind: tcflow.ResultExplicitFailure}})

	if stats.Cases != 4 {
		t.Errorf("Cases = %d, want 4", stats.Cases)
	}

	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", stats.Failed)
	}

	if stats.Ignored != 2 {
		t.Errorf("Ignored = %d, want 2", stats.Ignored)
	}

	if stats.Ok() {
		t.Error("Ok() = true with a failed case")
	}
}

func TestStats_OkWithoutFailures(t *testing.T) {
	t.Parallel()

	stats := NewStats()

	runCase(t, stats, tcflow.TestCaseInfo{Name: "passes"})

	if !stats.Ok() {
		t.Error("Ok() = false with no failures")
	}
}

// errReporter fails every call with a fixed error.
type errReporter struct {
	err error
}

func (e errReporter) TestRunStarting(tcflow.TestRunInfo) error   { return e.err }
func (e errReporter) TestRunEnded(tcflow.TestRunStats) error     { return e.err }
func (e errReporter) TestCaseStarting(tcflow.TestCaseInfo) error { return e.err }
func (e errReporter) TestCaseEnded(tcflow.TestCaseStats) error   { return e.err }
func (e errReporter) SectionStarting(tcflow.SectionInfo) error   { return e.err }
func (e errReporter) SectionEnded(tcflow.SectionStats) error     { return e.err }
func (e errReporter) AssertionEnded(tcflow.AssertionStats) error { return e.err }

func TestMulti(t *testing.T) {
	t.Parallel()

	first := NewStats()
	second := NewStats()

	multi := NewMulti(first, second)

	runCase(t, multi, tcflow.TestCaseInfo{Name: "passes"})

	if first.Cases != 1 || second.Cases != 1 {
		t.Errorf("cases = %d/%d, want 1/1", first.Cases, second.Cases)
	}
}

func TestMulti_StopsOnError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	after := NewStats()

	multi := NewMulti(errReporter{err: errBoom}, after)

	err := multi.TestCaseStarting(tcflow.TestCaseInfo{Name: "Case"})
	if !errors.Is(err, errBoom) {
		t.Errorf("err = %v, want boom", err)
	}

	if err := multi.TestCaseEnded(tcflow.TestCaseStats{}); !errors.Is(err, errBoom) {
		t.Errorf("err = %v, want boom", err)
	}

	if after.Cases != 0 {
		t.Errorf("later reporter ran after error, cases = %d", after.Cases)
	}
}
