package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jcourt/tcflow"
)

// sectionFrame tracks one open section: its display name, source and when
// it started.
type sectionFrame struct {
	info  tcflow.SectionInfo
	start time.Time
}

// TeamCity translates test-execution events into the TeamCity service
// message line protocol, interleaved with plain diagnostic lines.
//
// Every section is reported as its own test, correlated through flow ids
// derived from the enclosing case and section names, so message pairing
// mirrors the nesting of the run. Output is flushed after every event when
// the sink supports it. The zero value is not usable; use NewTeamCity.
type TeamCity struct {
	out        io.Writer
	configName string
	now        func() time.Time
	err        error

	caseInfo  tcflow.TestCaseInfo
	caseStart time.Time

	// lastCaseName and lastCaseFullName are the escaped short and
	// fully-qualified names of the current case.
	lastCaseName     string
	lastCaseFullName string

	// sections and flowNames grow and shrink together; flowNames[i] is
	// the fully-qualified escaped name of sections[i].
	sections  []sectionFrame
	flowNames []string

	headerPrinted bool
}

// Option configures a TeamCity reporter.
type Option func(*TeamCity)

// WithConfigName sets the run configuration name used to prefix derived
// class names.
func WithConfigName(name string) Option {
	return func(t *TeamCity) {
		t.configName = name
	}
}

// WithClock overrides the time source used for durations. Tests use this
// to make elapsed milliseconds deterministic.
func WithClock(now func() time.Time) Option {
	return func(t *TeamCity) {
		t.now = now
	}
}

// NewTeamCity creates a reporter writing service messages to out. If out
// implements Flush (a *bufio.Writer, for example) it is flushed after
// every event, so an interrupted run keeps everything already reported.
func NewTeamCity(out io.Writer, opts ...Option) *TeamCity {
	t := &TeamCity{out: out, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// TestRunStarting opens the suite on the dashboard.
func (t *TeamCity) TestRunStarting(info tcflow.TestRunInfo) error {
	t.printf("##teamcity[testSuiteStarted name='%s']\n", Escape(info.Name))

	return t.flush()
}

// TestRunEnded closes the suite.
func (t *TeamCity) TestRunEnded(stats tcflow.TestRunStats) error {
	t.printf("##teamcity[testSuiteFinished name='%s']\n", Escape(stats.Info.Name))

	return t.flush()
}

// TestCaseStarting resets the nesting state and opens the case's test.
func (t *TeamCity) TestCaseStarting(info tcflow.TestCaseInfo) error {
	t.caseInfo = info
	t.caseStart = t.now()
	t.sections = t.sections[:0]
	t.flowNames = t.flowNames[:0]
	t.headerPrinted = false

	t.lastCaseName = Escape(info.Name)
	t.lastCaseFullName = Escape(deriveClassName(info, t.configName) + t.lastCaseName)

	t.printf("testCaseStarting:%s FullName:%s\n", t.lastCaseName, t.lastCaseFullName)
	t.printf("##teamcity[testStarted name='%s' flowId='%s' ]\n",
		t.lastCaseFullName, t.lastCaseFullName)

	return t.flush()
}

// TestCaseEnded reports captured output and closes the case's test.
func (t *TeamCity) TestCaseEnded(stats tcflow.TestCaseStats) error {
	t.printf("testCaseEnded:%s FullName:%s\n", Escape(stats.Info.Name), t.lastCaseFullName)

	if stats.StdOut != "" {
		t.printf("##teamcity[testStdOut name='%s' out='%s' flowId='%s']\n",
			t.lastCaseFullName, Escape(stats.StdOut), t.lastCaseFullName)
	}

	if stats.StdErr != "" {
		t.printf("##teamcity[testStdErr name='%s' out='%s' flowId='%s']\n",
			t.lastCaseFullName, Escape(stats.StdErr), t.lastCaseFullName)
	}

	t.printf("##teamcity[testFinished name='%s' duration='%d' flowId='%s']\n",
		t.lastCaseFullName, t.elapsedMillis(t.caseStart), t.lastCaseFullName)

	return t.flush()
}

// SectionStarting pushes a section frame and opens the section's test.
func (t *TeamCity) SectionStarting(info tcflow.SectionInfo) error {
	// A section event carrying the owning case's name is the implicit
	// top-level section, not one the test opened. Suppressed entirely.
	if t.lastCaseName == info.Name {
		return nil
	}

	parent := t.lastCaseFullName
	if n := len(t.flowNames); n > 0 {
		parent = t.flowNames[n-1]
	}

	name := Escape(parent + "/" + info.Name)

	t.sections = append(t.sections, sectionFrame{info: info, start: t.now()})
	t.flowNames = append(t.flowNames, name)
	t.headerPrinted = true

	t.printf("sectionStarting:%s\n", name)
	t.printf("##teamcity[testStarted name='%s' flowId='%s']\n", name, name)

	return t.flush()
}

// SectionEnded pops the innermost section frame and closes its test. An
// end event with no open section is reported as a diagnostic and ignored.
func (t *TeamCity) SectionEnded(stats tcflow.SectionStats) error {
	if t.lastCaseName == stats.Info.Name {
		return nil
	}

	if len(t.flowNames) == 0 {
		t.printf("something wrong!!!\n")

		return t.flush()
	}

	name := t.flowNames[len(t.flowNames)-1]
	frame := t.sections[len(t.sections)-1]

	t.printf("sectionEnded:%s\n", name)
	t.printf("##teamcity[testFinished name='%s' duration='%d' flowId='%s']\n",
		name, t.elapsedMillis(frame.start), name)

	t.sections = t.sections[:len(t.sections)-1]
	t.flowNames = t.flowNames[:len(t.flowNames)-1]

	return t.flush()
}

// AssertionEnded reports failing and explicitly skipped assertions. The
// correlation id is the innermost open section's flow id, falling back to
// the case's. Passing assertions only flush.
func (t *TeamCity) AssertionEnded(stats tcflow.AssertionStats) error {
	result := stats.Result

	if result.Kind.IsOk() && result.Kind != tcflow.ResultExplicitSkip {
		return t.flush()
	}

	var msg strings.Builder

	if !t.headerPrinted {
		t.sectionHeader(&msg)
	}

	t.headerPrinted = true

	msg.WriteString(result.Source.String())
	msg.WriteByte('\n')

	switch result.Kind {
	case tcflow.ResultExpressionFailed:
		msg.WriteString("expression failed")
	case tcflow.ResultThrewException:
		msg.WriteString("unexpected exception")
	case tcflow.ResultFatalErrorCondition:
		msg.WriteString("fatal error condition")
	case tcflow.ResultDidntThrowException:
		msg.WriteString("no exception was thrown where one was expected")
	case tcflow.ResultExplicitFailure:
		msg.WriteString("explicit failure")
	case tcflow.ResultExplicitSkip:
		msg.WriteString("explicit skip")
	case tcflow.ResultOk, tcflow.ResultInfo, tcflow.ResultWarning:
		// Unreachable because of the IsOk test above.
		return fmt.Errorf("%w: result kind %s cannot fail", ErrInternal, result.Kind)
	case tcflow.ResultUnknown:
		return fmt.Errorf("%w: result kind %s not implemented", ErrInternal, result.Kind)
	default:
		return fmt.Errorf("%w: result kind %s not implemented", ErrInternal, result.Kind)
	}

	switch len(stats.InfoMessages) {
	case 0:
	case 1:
		msg.WriteString(" with message:")
	default:
		msg.WriteString(" with messages:")
	}

	for _, m := range stats.InfoMessages {
		msg.WriteString("\n  \"")
		msg.WriteString(m)
		msg.WriteByte('"')
	}

	var failedDetail string
	if result.HasExpression() {
		failedDetail = result.Expression + "\n" + result.Expanded
	}

	t.printf("result failed:%s\n", Escape(msg.String()))

	flowID := t.lastCaseFullName
	if n := len(t.flowNames); n > 0 {
		flowID = t.flowNames[n-1]
	}

	switch {
	case result.Kind == tcflow.ResultExplicitSkip:
		t.printf("resultKind:ExplicitSkip\n")
		t.printf("##teamcity[testIgnored name='%s' message='%s' flowId='%s']\n",
			Escape(t.caseInfo.Name), Escape(msg.String()), flowID)
	case t.caseInfo.OkToFail:
		t.printf("resultKind:okToFail\n")
		msg.WriteString("- failure ignore as test marked as 'ok to fail'\n")
		t.printf("##teamcity[testIgnored name='%s' message='%s' flowId='%s']\n",
			Escape(t.caseInfo.Name), Escape(msg.String()), flowID)
	default:
		t.printf("resultKind:testFailed\n")
		t.printf("##teamcity[testFailed name='%s' message='%s' details='%s' flowId='%s']\n",
			Escape(t.caseInfo.Name), Escape(msg.String()), Escape(failedDetail), flowID)
	}

	return t.flush()
}

// sectionHeader writes the failure header: open section names between
// separator rules when any section is open, then the case's source line.
func (t *TeamCity) sectionHeader(msg *strings.Builder) {
	if len(t.sections) > 0 {
		msg.WriteString(lineOfChars('-'))
		msg.WriteByte('\n')

		for _, frame := range t.sections {
			headerString(msg, frame.info.Name)
		}

		msg.WriteString(lineOfChars('-'))
		msg.WriteByte('\n')
	}

	msg.WriteString(t.caseInfo.Source.String())
	msg.WriteByte('\n')
	msg.WriteString(lineOfChars('.'))
	msg.WriteString("\n\n")
}

// printf appends to the output sink, retaining the first write error until
// the next flush reports it.
func (t *TeamCity) printf(format string, args ...any) {
	if t.err != nil {
		return
	}

	_, t.err = fmt.Fprintf(t.out, format, args...)
}

// flush forces buffered output out and reports any pending write error.
func (t *TeamCity) flush() error {
	if t.err != nil {
		return t.err
	}

	if f, ok := t.out.(interface{ Flush() error }); ok {
		return f.Flush()
	}

	return nil
}

func (t *TeamCity) elapsedMillis(start time.Time) int64 {
	return t.now().Sub(start).Milliseconds()
}
