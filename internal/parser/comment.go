package parser

import (
	"strings"
	"unicode"

	"github.com/dshills/inheritdoc/pkg/types"
)

// argumentTags name their target in the first word of the tag content
var argumentTags = map[string]bool{
	"param":     true,
	"throws":    true,
	"exception": true,
}

// ParseComment splits documentation text into a main description and block
// tags. A block tag starts on a line whose first non-blank character is '@'
// followed by a letter; it runs until the next block tag.
func ParseComment(text string) types.Comment {
	var (
		body    []string
		tags    []types.BlockTag
		current *types.BlockTag
		lines   []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(lines, "\n"))
		tags = append(tags, *current)
		current = nil
		lines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if name, rest, ok := splitTag(trimmed); ok {
			flush()
			current = &types.BlockTag{Name: name}
			if argumentTags[name] {
				current.Argument, rest = firstWord(rest)
			}
			lines = []string{rest}
			continue
		}
		if current != nil {
			lines = append(lines, trimmed)
		} else {
			body = append(body, strings.TrimRightFunc(line, unicode.IsSpace))
		}
	}
	flush()

	full := strings.TrimSpace(strings.Join(body, "\n"))
	return types.Comment{
		Body:          full,
		FirstSentence: FirstSentence(full),
		Tags:          tags,
	}
}

// FirstSentence returns the prefix of text up to and including the first
// sentence terminator ('.', '!' or '?') that is followed by whitespace or
// the end of text. A blank line also ends the first sentence.
func FirstSentence(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	runes := []rune(text)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
			return strings.Join(strings.Fields(string(runes[:i+1])), " ")
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

func splitTag(line string) (name, rest string, ok bool) {
	if len(line) < 2 || line[0] != '@' || !unicode.IsLetter(rune(line[1])) {
		return "", "", false
	}
	end := strings.IndexFunc(line, unicode.IsSpace)
	if end < 0 {
		return line[1:], "", true
	}
	return line[1:end], strings.TrimSpace(line[end:]), true
}

func firstWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimSpace(s[end:])
}
