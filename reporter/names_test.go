package reporter

import (
	"strings"
	"testing"

	"github.com/jcourt/tcflow"
)

func TestNormalizeNamespaceMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no markers", in: "A.B", want: "A.B"},
		{name: "single", in: "A::B", want: "A.B"},
		{name: "chain", in: "A::B::C", want: "A.B.C"},
		{name: "leading and trailing", in: "::A::", want: ".A."},
		// Left-to-right non-overlapping: the replacement dot is never
		// rescanned, and the odd colon survives.
		{name: "triple colon", in: "A:::B", want: "A.:B"},
		{name: "quadruple colon", in: "::::", want: ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := normalizeNamespaceMarkers(tt.in); got != tt.want {
				t.Errorf("normalizeNamespaceMarkers(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFileNameTag(t *testing.T) {
	t.Parallel()

	tags := []tcflow.Tag{
		{Original: "slow"},
		{Original: "#widget_tests.cpp"},
		{Original: "#other.cpp"},
	}

	if got, want := fileNameTag(tags), "widget_tests.cpp"; got != want {
		t.Errorf("fileNameTag = %q, want %q", got, want)
	}

	if got := fileNameTag([]tcflow.Tag{{Original: "slow"}}); got != "" {
		t.Errorf("fileNameTag without # tag = %q, want empty", got)
	}

	if got := fileNameTag(nil); got != "" {
		t.Errorf("fileNameTag(nil) = %q, want empty", got)
	}
}

func TestDeriveClassName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		info       tcflow.TestCaseInfo
		configName string
		want       string
	}{
		{
			name: "spaces removed",
			info: tcflow.TestCaseInfo{ClassName: "My Class"},
			want: "MyClass",
		},
		{
			name: "namespace markers normalized",
			info: tcflow.TestCaseInfo{ClassName: "app::widgets"},
			want: "app.widgets",
		},
		{
			name: "falls back to file name tag",
			info: tcflow.TestCaseInfo{Tags: []tcflow.Tag{{Original: "#widget_tests.cpp"}}},
			want: "widget_tests.cpp",
		},
		{
			name: "falls back to global",
			info: tcflow.TestCaseInfo{},
			want: "global.",
		},
		{
			name:       "config name prefix",
			info:       tcflow.TestCaseInfo{},
			configName: "nightly",
			want:       "nightly: nightly.global.",
		},
		{
			name:       "config name prefix with class",
			info:       tcflow.TestCaseInfo{ClassName: "app::widgets"},
			configName: "nightly",
			want:       "nightly: nightly.app.widgets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := deriveClassName(tt.info, tt.configName); got != tt.want {
				t.Errorf("deriveClassName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeaderString(t *testing.T) {
	t.Parallel()

	t.Run("short name on one line", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder

		headerString(&b, "given a widget")

		if got, want := b.String(), "given a widget\n"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("continuation aligns after label", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder

		headerString(&b, "ab: "+strings.Repeat("x", 80))

		want := "ab:\n" +
			"    " + strings.Repeat("x", 75) + "\n" +
			"    " + strings.Repeat("x", 5) + "\n"
		if got := b.String(); got != want {
			t.Errorf("got:\n%q\nwant:\n%q", got, want)
		}
	})

	t.Run("wraps at word boundary", func(t *testing.T) {
		t.Parallel()

		name := strings.Repeat("word ", 16) + "tail" // 84 chars
		var b strings.Builder

		headerString(&b, name)

		lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("got %d lines, want 2:\n%q", len(lines), b.String())
		}

		if len(lines[0]) > consoleWidth {
			t.Errorf("first line is %d chars, want <= %d", len(lines[0]), consoleWidth)
		}

		if lines[1] != "word tail" {
			t.Errorf("continuation = %q, want %q", lines[1], "word tail")
		}
	})
}
