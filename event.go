// Package tcflow models test-execution event streams and translates them
// into TeamCity service messages.
package tcflow

import "fmt"

// Tag is a label attached to a test case. A tag whose original text begins
// with '#' carries the source file name of the case.
type Tag struct {
	Original string
}

// TestRunInfo identifies a whole test run.
type TestRunInfo struct {
	Name string
}

// TestRunStats is the payload of a run-end event.
type TestRunStats struct {
	Info TestRunInfo
}

// SourceLine points at a location in a test source file.
type SourceLine struct {
	File string
	Line int
}

// String renders the location as "file:line", or "" when unset.
func (s SourceLine) String() string {
	if s.File == "" && s.Line == 0 {
		return ""
	}

	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// TestCaseInfo describes a test case at its start boundary.
type TestCaseInfo struct {
	Name      string
	ClassName string
	Tags      []Tag
	Source    SourceLine

	// OkToFail marks cases whose failures the suite tolerates.
	OkToFail bool
}

// TestCaseStats is the payload of a case-end event. StdOut and StdErr carry
// output captured while the case ran; either may be empty.
type TestCaseStats struct {
	Info   TestCaseInfo
	StdOut string
	StdErr string
}

// SectionInfo describes a section at its start boundary.
type SectionInfo struct {
	Name   string
	Source SourceLine
}

// SectionStats is the payload of a section-end event.
type SectionStats struct {
	Info SectionInfo
}

// ResultKind classifies the outcome of a single assertion.
type ResultKind int

// Result kinds.
const (
	ResultUnknown ResultKind = iota
	ResultOk
	ResultInfo
	ResultWarning
	ResultExpressionFailed
	ResultThrewException
	ResultFatalErrorCondition
	ResultDidntThrowException
	ResultExplicitFailure
	ResultExplicitSkip
)

// IsOk reports whether the kind represents a non-failure outcome.
func (k ResultKind) IsOk() bool {
	switch k {
	case ResultOk, ResultInfo, ResultWarning:
		return true
	case ResultUnknown, ResultExpressionFailed, ResultThrewException,
		ResultFatalErrorCondition, ResultDidntThrowException,
		ResultExplicitFailure, ResultExplicitSkip:
		return false
	}

	return false
}

// String returns the kind's name as used in recorded event streams.
func (k ResultKind) String() string {
	switch k {
	case ResultOk:
		return "ok"
	case ResultInfo:
		return "info"
	case ResultWarning:
		return "warning"
	case ResultExpressionFailed:
		return "expressionFailed"
	case ResultThrewException:
		return "threwException"
	case ResultFatalErrorCondition:
		return "fatalErrorCondition"
	case ResultDidntThrowException:
		return "didntThrowException"
	case ResultExplicitFailure:
		return "explicitFailure"
	case ResultExplicitSkip:
		return "explicitSkip"
	case ResultUnknown:
	}

	return "unknown"
}

// AssertionResult holds the evaluated outcome of one assertion.
type AssertionResult struct {
	Kind   ResultKind
	Source SourceLine

	// Expression is the assertion as written; Expanded is the same
	// expression with argument values substituted.
	Expression string
	Expanded   string
}

// HasExpression reports whether the assertion carries an expression text.
func (r AssertionResult) HasExpression() bool {
	return r.Expression != ""
}

// AssertionStats is the payload of an assertion-end event.
type AssertionStats struct {
	Result AssertionResult

	// InfoMessages are scoped info captures attached to the assertion, in
	// insertion order.
	InfoMessages []string
}
