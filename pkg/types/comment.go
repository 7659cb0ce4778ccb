package types

import "strings"

// InheritDocMarker is the inline marker replaced by inherited documentation
const InheritDocMarker = "{@inheritDoc}"

// ParamTag documents a method parameter; its argument is the parameter name
const ParamTag = "param"

// BlockTag is a named annotation in a documentation comment, e.g. "@param id the key"
type BlockTag struct {
	Name     string
	Argument string // Parameter or exception name for tags that carry one
	Content  string
}

// Comment is the parsed documentation comment of an element
type Comment struct {
	Body          string // Full main description
	FirstSentence string // Prefix of Body up to the first sentence boundary
	Tags          []BlockTag
}

// IsEmpty returns true if the comment has neither a description nor tags
func (c Comment) IsEmpty() bool {
	return isBlank(c.Body) && len(c.Tags) == 0
}

// Description returns the first sentence or the full body
func (c Comment) Description(firstSentence bool) string {
	if firstSentence {
		return c.FirstSentence
	}
	return c.Body
}

// FindTag returns the first tag with the given name (and argument, when
// non-empty) whose content is not blank. Tags that are present but blank are
// skipped: they re-declare the tag without documenting anything.
func (c Comment) FindTag(name, argument string) (BlockTag, bool) {
	for _, tag := range c.Tags {
		if tag.Name != name {
			continue
		}
		if argument != "" && tag.Argument != argument {
			continue
		}
		if !isBlank(tag.Content) {
			return tag, true
		}
	}
	return BlockTag{}, false
}

// HasMarker reports whether text contains the inline inheritance marker
func HasMarker(text string) bool {
	return strings.Contains(text, InheritDocMarker)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
