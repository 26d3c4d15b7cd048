// Package stream decodes recorded test-execution event streams and replays
// them through a reporter.
package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jcourt/tcflow"
	"github.com/jcourt/tcflow/reporter"
)

// Actions accepted in a recorded stream.
const (
	ActionRunStart     = "runStart"
	ActionRunEnd       = "runEnd"
	ActionCaseStart    = "caseStart"
	ActionCaseEnd      = "caseEnd"
	ActionSectionStart = "sectionStart"
	ActionSectionEnd   = "sectionEnd"
	ActionAssertion    = "assertion"
)

// Sentinel errors for the stream package.
var (
	// ErrUnknownAction is returned for a record whose action is not
	// recognized.
	ErrUnknownAction = errors.New("stream: unknown action")

	// ErrUnknownKind is returned for an assertion record with an
	// unrecognized result kind.
	ErrUnknownKind = errors.New("stream: unknown result kind")
)

// Record is one line of a recorded event stream: a single JSON object
// describing one event.
type Record struct {
	Action string `json:"action"`

	Name      string   `json:"name,omitempty"`
	ClassName string   `json:"className,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	OkToFail  bool     `json:"okToFail,omitempty"`
	File      string   `json:"file,omitempty"`
	Line      int      `json:"line,omitempty"`

	StdOut string `json:"stdout,omitempty"`
	StdErr string `json:"stderr,omitempty"`

	Kind       string   `json:"kind,omitempty"`
	Expression string   `json:"expression,omitempty"`
	Expanded   string   `json:"expanded,omitempty"`
	Messages   []string `json:"messages,omitempty"`
}

// kinds maps recorded kind names to result kinds. The names are the same
// ones ResultKind.String produces.
var kinds = map[string]tcflow.ResultKind{
	"ok":                  tcflow.ResultOk,
	"info":                tcflow.ResultInfo,
	"warning":             tcflow.ResultWarning,
	"expressionFailed":    tcflow.ResultExpressionFailed,
	"threwException":      tcflow.ResultThrewException,
	"fatalErrorCondition": tcflow.ResultFatalErrorCondition,
	"didntThrowException": tcflow.ResultDidntThrowException,
	"explicitFailure":     tcflow.ResultExplicitFailure,
	"explicitSkip":        tcflow.ResultExplicitSkip,
}

// scanBufferSize bounds a single record; captured output can make assertion
// and case-end records long.
const scanBufferSize = 4 * 1024 * 1024

// Replay decodes one record per line from r and dispatches each to rep in
// order. Blank lines are skipped. Decode and dispatch errors name the line
// they occurred on.
func Replay(r io.Reader, rep reporter.Reporter) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), scanBufferSize)

	line := 0

	for sc.Scan() {
		line++

		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var rec Record

		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return fmt.Errorf("stream: line %d: %w", line, err)
		}

		if err := dispatch(&rec, rep); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}

	return sc.Err()
}

func dispatch(rec *Record, rep reporter.Reporter) error {
	switch rec.Action {
	case ActionRunStart:
		return rep.TestRunStarting(tcflow.TestRunInfo{Name: rec.Name})
	case ActionRunEnd:
		return rep.TestRunEnded(tcflow.TestRunStats{Info: tcflow.TestRunInfo{Name: rec.Name}})
	case ActionCaseStart:
		return rep.TestCaseStarting(rec.caseInfo())
	case ActionCaseEnd:
		return rep.TestCaseEnded(tcflow.TestCaseStats{
			Info:   rec.caseInfo(),
			StdOut: rec.StdOut,
			StdErr: rec.StdErr,
		})
	case ActionSectionStart:
		return rep.SectionStarting(rec.sectionInfo())
	case ActionSectionEnd:
		return rep.SectionEnded(tcflow.SectionStats{Info: rec.sectionInfo()})
	case ActionAssertion:
		kind, ok := kinds[rec.Kind]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKind, rec.Kind)
		}

		return rep.AssertionEnded(tcflow.AssertionStats{
			Result: tcflow.AssertionResult{
				Kind:       kind,
				Source:     tcflow.SourceLine{File: rec.File, Line: rec.Line},
				Expression: rec.Expression,
				Expanded:   rec.Expanded,
			},
			InfoMessages: rec.Messages,
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, rec.Action)
	}
}

func (r *Record) caseInfo() tcflow.TestCaseInfo {
	var tags []tcflow.Tag
	for _, tag := range r.Tags {
		tags = append(tags, tcflow.Tag{Original: tag})
	}

	return tcflow.TestCaseInfo{
		Name:      r.Name,
		ClassName: r.ClassName,
		Tags:      tags,
		Source:    tcflow.SourceLine{File: r.File, Line: r.Line},
		OkToFail:  r.OkToFail,
	}
}

func (r *Record) sectionInfo() tcflow.SectionInfo {
	return tcflow.SectionInfo{
		Name:   r.Name,
		Source: tcflow.SourceLine{File: r.File, Line: r.Line},
	}
}
