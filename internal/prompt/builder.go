// Package prompt assembles the text sent to a completion backend from an
// open document's rope, a cursor position, and a token budget — either a
// plain "everything before the cursor" prefix, or a fill-in-the-middle
// splice of prefix/suffix/middle sentinel tokens around before/after
// context, per spec.md §4.2.
package prompt

import (
	"strings"

	"github.com/llm-ls/llm-ls/internal/document"
)

// LineSource is the minimal rope surface the builder needs, satisfied by
// *document.Rope. Expressed as an interface so tests can exercise the
// budget/truncation logic without constructing a full rope.
type LineSource interface {
	LineCount() int
	Line(line int) (string, error)
}

var _ LineSource = (*document.Rope)(nil)

// BuildPrefix implements the FIM-disabled ("prefix mode") algorithm:
// consume lines backwards from the cursor until the token budget would be
// exceeded, then return them concatenated oldest-line-first.
func BuildPrefix(src LineSource, cursorLine, cursorChar int, budget int, counter Counter) (string, error) {
	counter = counterOrFallback(counter)
	remaining := budget

	cursorText, err := src.Line(cursorLine)
	if err != nil {
		return "", err
	}
	fragment := truncateToChar(cursorText, cursorChar)

	var acc []string
	if cost := counter.Count(fragment); cost <= remaining {
		remaining -= cost
		acc = append(acc, fragment)
	} else {
		return "", nil
	}

	for line := cursorLine - 1; line >= 0; line-- {
		text, err := src.Line(line)
		if err != nil {
			return "", err
		}
		candidate := text + "\n"
		cost := counter.Count(candidate)
		if cost > remaining {
			break
		}
		remaining -= cost
		acc = append([]string{candidate}, acc...)
	}

	return strings.Join(acc, ""), nil
}

// BuildFIM implements the FIM-enabled algorithm: alternately consume
// lines before and after the cursor under a shared token budget, then
// compose fim.Prefix + before + fim.Suffix + after + fim.Middle.
func BuildFIM(src LineSource, cursorLine, cursorChar int, budget int, counter Counter, fim FIM) (string, error) {
	counter = counterOrFallback(counter)
	remaining := budget

	cursorText, err := src.Line(cursorLine)
	if err != nil {
		return "", err
	}
	runes := []rune(cursorText)
	if cursorChar < 0 {
		cursorChar = 0
	}
	if cursorChar > len(runes) {
		cursorChar = len(runes)
	}
	beforeFirst := string(runes[:cursorChar])
	afterFirst := string(runes[cursorChar:])

	var before, after []string
	beforeDone, afterDone := false, false

	if cost := counter.Count(beforeFirst); cost <= remaining {
		remaining -= cost
		before = append(before, beforeFirst)
	} else {
		beforeDone = true
	}

	if cost := counter.Count(afterFirst); cost <= remaining {
		remaining -= cost
		after = append(after, afterFirst)
	} else {
		afterDone = true
	}

	beforeLine := cursorLine - 1
	afterLine := cursorLine + 1
	lineCount := src.LineCount()

	for !beforeDone || !afterDone {
		if !beforeDone {
			if beforeLine < 0 {
				beforeDone = true
			} else {
				text, err := src.Line(beforeLine)
				if err != nil {
					return "", err
				}
				candidate := text + "\n"
				if cost := counter.Count(candidate); cost <= remaining {
					remaining -= cost
					before = append(before, candidate)
					beforeLine--
				} else {
					beforeDone = true
				}
			}
		}
		if !afterDone {
			if afterLine >= lineCount {
				afterDone = true
			} else {
				text, err := src.Line(afterLine)
				if err != nil {
					return "", err
				}
				candidate := "\n" + text
				if cost := counter.Count(candidate); cost <= remaining {
					remaining -= cost
					after = append(after, candidate)
					afterLine++
				} else {
					afterDone = true
				}
			}
		}
	}

	reverse(before)

	var sb strings.Builder
	sb.WriteString(fim.Prefix)
	for _, b := range before {
		sb.WriteString(b)
	}
	sb.WriteString(fim.Suffix)
	for _, a := range after {
		sb.WriteString(a)
	}
	sb.WriteString(fim.Middle)
	return sb.String(), nil
}

func truncateToChar(line string, char int) string {
	runes := []rune(line)
	if char < 0 {
		char = 0
	}
	if char > len(runes) {
		char = len(runes)
	}
	return string(runes[:char])
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
