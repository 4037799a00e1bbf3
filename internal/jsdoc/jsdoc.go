// Package jsdoc parses the text of a documentation comment into a
// description and an ordered set of tags.
package jsdoc

import (
	"regexp"
	"strings"

	"github.com/phobologic/minidoc/internal/model"
)

var (
	// decorationRe matches the leading "*" of each comment line and at most
	// one following space.
	decorationRe = regexp.MustCompile(`^\s*\*\s?`)

	// tagLineRe finds a line break followed by a tag marker. A tag on the
	// first line stays part of the description.
	tagLineRe = regexp.MustCompile(`\n[ \t]*@`)

	// tagRe matches "@name" and the rest of its line. A value that starts on
	// a following line never starts with another tag.
	tagRe = regexp.MustCompile(`@(\w+)(?:[ \t]+(\S[^\n]*)|\s*\n\s*([^@\s][^\n]*))?`)

	backticksRe = regexp.MustCompile("^`+|`+$")
)

// Well-known tag names.
const (
	TagParam   = "param"
	TagReturn  = "return"
	TagReturns = "returns"
	TagExample = "example"
)

// Parse converts raw comment text (without the /* */ delimiters) into a Jsdoc.
func Parse(text string) model.Jsdoc {
	cleaned := clean(text)

	desc := cleaned
	if loc := tagLineRe.FindStringIndex(cleaned); loc != nil {
		desc = cleaned[:loc[0]]
	}

	var tags model.Tags
	for _, m := range tagRe.FindAllStringSubmatch(cleaned, -1) {
		name, value := m[1], strings.TrimSpace(m[2]+m[3])
		switch name {
		case TagParam:
			value = formatParam(value)
		case TagReturn, TagReturns:
			name = TagReturns
			value = formatReturn(value)
		case TagExample:
			value = backticksRe.ReplaceAllString(value, "")
		}
		tags.Add(name, value)
	}

	return model.Jsdoc{
		Description: strings.TrimSpace(desc),
		Tags:        tags,
	}
}

func clean(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = decorationRe.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}

// formatParam renders "type name description..." as "type name - description".
// Missing parts are left empty.
func formatParam(value string) string {
	fields := strings.Fields(value)
	typ, name := field(fields, 0), field(fields, 1)
	var desc string
	if len(fields) > 2 {
		desc = strings.Join(fields[2:], " ")
	}
	return typ + " " + name + " - " + desc
}

// formatReturn renders "type description..." as "type - description".
func formatReturn(value string) string {
	fields := strings.Fields(value)
	var desc string
	if len(fields) > 1 {
		desc = strings.Join(fields[1:], " ")
	}
	return field(fields, 0) + " - " + desc
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
