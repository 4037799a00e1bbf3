// Package render serializes documented entries into a Markdown document.
package render

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/phobologic/minidoc/internal/jsdoc"
	"github.com/phobologic/minidoc/internal/model"
)

// DefaultTitle is used when Options.Title is empty.
const DefaultTitle = "API Documentation"

// EmptyNotice is written instead of any section when there are no entries.
const EmptyNotice = "_No documented functions or classes found._"

// exampleLang is the info string of example fences.
const exampleLang = "js"

var kindHeaders = map[model.Kind]string{
	model.MethodDefinition:    "Functions",
	model.FunctionDeclaration: "Functions",
	model.PropertyDefinition:  "Properties",
	model.ClassDeclaration:    "Classes",
	model.ClassExpression:     "Classes",
}

// Options controls the document layout.
type Options struct {
	Title       string
	GroupByKind bool
}

// Header returns the group heading text for kind.
func Header(kind model.Kind) string {
	if h, ok := kindHeaders[kind]; ok {
		return h
	}
	return string(kind) + "s"
}

// Markdown renders entries into one document. The output depends only on the
// entries and their order.
func Markdown(entries []model.Entry, opts Options) string {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	if len(entries) == 0 {
		b.WriteString(EmptyNotice + "\n")
		return b.String()
	}

	if !opts.GroupByKind {
		for i := range entries {
			writeEntry(&b, &entries[i])
		}
		return b.String()
	}

	for _, g := range groupByKind(entries) {
		fmt.Fprintf(&b, "## %s\n\n", Header(g.kind))
		for _, e := range g.entries {
			writeEntry(&b, e)
		}
	}
	return b.String()
}

type group struct {
	kind    model.Kind
	entries []*model.Entry
}

// groupByKind partitions entries by kind in first-seen order, keeping the
// relative order inside each group.
func groupByKind(entries []model.Entry) []group {
	var groups []group
	index := make(map[model.Kind]int)
	for i := range entries {
		e := &entries[i]
		k := e.Declaration.Kind
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, group{kind: k})
		}
		groups[gi].entries = append(groups[gi].entries, e)
	}
	return groups
}

// Entry renders a single entry section.
func Entry(e model.Entry) string {
	var b strings.Builder
	writeEntry(&b, &e)
	return b.String()
}

func writeEntry(b *strings.Builder, e *model.Entry) {
	name := e.Name
	if name == "" {
		name = model.Unnamed
	}
	fmt.Fprintf(b, "### %s - %s\n\n", e.Declaration.Kind, name)
	fmt.Fprintf(b, "*File: [%s](%s)*\n\n", path.Base(e.File), e.File)

	doc := &e.Doc
	if doc.Description != "" {
		fmt.Fprintf(b, "%s\n\n", doc.Description)
	}

	if doc.Tags.Len() > 0 {
		b.WriteString("#### Tags:\n")
		for _, tag := range doc.Tags.Names() {
			fmt.Fprintf(b, "- **@%s**: %s\n", tag, strings.Join(doc.Tags.Get(tag), ", "))
		}
		b.WriteString("\n")
	}

	writeList(b, "Parameters", doc.Tags.Get(jsdoc.TagParam))
	writeList(b, "Returns", doc.Tags.Get(jsdoc.TagReturns))

	if examples := doc.Tags.Get(jsdoc.TagExample); len(examples) > 0 {
		b.WriteString("#### Examples:\n")
		for _, ex := range examples {
			fmt.Fprintf(b, "```%s\n%s\n```\n", exampleLang, ex)
		}
		b.WriteString("\n")
	}
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "#### %s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts a rendered Markdown document to an HTML fragment.
func HTML(markdown string) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}
	return buf.Bytes(), nil
}
