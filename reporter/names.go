package reporter

import (
	"strings"

	"github.com/jcourt/tcflow"
)

// consoleWidth is the layout width for failure headers.
const consoleWidth = 79

// fileNameTag returns the text after the leading '#' of the first tag whose
// original text starts with '#', or "" when no tag matches.
func fileNameTag(tags []tcflow.Tag) string {
	for _, tag := range tags {
		if strings.HasPrefix(tag.Original, "#") {
			return tag.Original[1:]
		}
	}

	return ""
}

// normalizeNamespaceMarkers replaces each "::" with a single ".". The scan
// is left to right and non-overlapping and never rescans a replacement, so
// "A:::B" becomes "A.:B" and "::::" becomes "..". Dashboards parse the
// output shape, so this intentionally mirrors the historical behavior
// rather than collapsing runs of colons.
func normalizeNamespaceMarkers(name string) string {
	return strings.ReplaceAll(name, "::", ".")
}

// deriveClassName builds the JUnit-style class prefix for a test case: the
// declared class name with spaces removed, falling back to the case's
// file-name tag and then to "global.". A non-empty run configuration name
// prefixes the result so parallel configurations stay distinct.
func deriveClassName(info tcflow.TestCaseInfo, configName string) string {
	className := strings.ReplaceAll(info.ClassName, " ", "")

	if className == "" {
		className = fileNameTag(info.Tags)
		if className == "" {
			className = "global."
		}
	}

	if configName != "" {
		className = configName + ": " + configName + "." + className
	}

	return normalizeNamespaceMarkers(className)
}

// headerString writes name to b, word-wrapped at the console width. When
// the name carries a leading "label: " prefix, continuation lines align
// under the text that follows the prefix.
func headerString(b *strings.Builder, name string) {
	indent := 0
	if i := strings.Index(name, ": "); i >= 0 {
		indent = i + 2
	}

	rest := name

	for first := true; first || rest != ""; first = false {
		pad := indent
		if first {
			pad = 0
		}

		width := consoleWidth - pad
		if width < 1 {
			width = 1
		}

		line := rest
		rest = ""

		if len(line) > width {
			cut := strings.LastIndex(line[:width], " ")
			if cut <= 0 {
				cut = width
			}

			line, rest = line[:cut], strings.TrimLeft(line[cut:], " ")
		}

		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

// lineOfChars returns a console-wide separator rule built from c.
func lineOfChars(c byte) string {
	return strings.Repeat(string(c), consoleWidth)
}
