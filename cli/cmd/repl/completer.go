package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/cmdsyntax/syntax"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "reload", "clear", "quit"}

// wordBounds returns the whitespace-delimited word at cursor and its byte
// boundaries within input. The word is empty when the cursor sits between
// two whitespace runes or at the edge of the input next to whitespace.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if unicode.IsSpace(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if unicode.IsSpace(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// commandWord returns the first word of input after the dispatch prefix, and
// whether the byte offset pos lies within or before it.
func commandWord(input, prefix string, pos int) (word string, first bool) {
	body := strings.TrimPrefix(input, prefix)
	skip := len(input) - len(body)

	trimmed := strings.TrimLeftFunc(body, unicode.IsSpace)
	skip += len(body) - len(trimmed)

	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end < 0 {
		end = len(trimmed)
	}

	return trimmed[:end], pos <= skip+end
}

// candidatesFor returns the completion candidates for the word starting at
// wordStart: command names for the first word, and the flags of the
// selected command after it.
func candidatesFor(set *syntax.CommandSet, prefix, input string, wordStart int) []string {
	name, first := commandWord(input, prefix, wordStart)
	if first {
		return set.Names()
	}

	c, ok := set.Lookup(name)
	if !ok {
		return nil
	}

	var flags []string
	for _, o := range c.Options() {
		flags = append(flags, o.Flags()...)
	}

	return flags
}

// usageHint returns the usage of the command named by the first word of
// input once the cursor has moved past it.
func usageHint(set *syntax.CommandSet, prefix, input string, cursor int) string {
	name, first := commandWord(input, prefix, cursor)
	if first {
		return ""
	}

	c, ok := set.Lookup(name)
	if !ok {
		return ""
	}

	if c.Description() == "" {
		return c.Usage()
	}

	return c.Usage() + "  " + c.Description()
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best first, along with the word boundaries. An empty word
// has no matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	var candidates []string

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		prefix := m.disp.Prefix()
		candidates = candidatesFor(m.disp.Set(), prefix, input, wordStart)

		// The prefix is not part of the command name.
		if p, ok := strings.CutPrefix(word, prefix); ok && prefix != "" && wordStart == 0 {
			word = p
			wordStart += len(prefix)
		}
	}

	if len(candidates) == 0 || word == "" {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
