// Package lang provides a language registry mapping file extensions to
// tree-sitter grammars and the declaration node types each grammar documents.
package lang

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/minidoc/internal/model"
)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language

	// Kinds maps grammar node types to declaration kinds. Node types not
	// listed here are never documented.
	Kinds map[string]model.Kind
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// KindOf returns the declaration kind for a node, or "" if the node type is
// not documentable in this language.
func (l *Language) KindOf(node *sitter.Node) model.Kind {
	// Keyword tokens share names with some node types ("class").
	if !node.IsNamed() {
		return ""
	}
	kind := l.Kinds[node.Type()]
	// Object literal methods share the node type but are not class members.
	if kind == model.MethodDefinition {
		if parent := node.Parent(); parent == nil || parent.Type() != "class_body" {
			return ""
		}
	}
	return kind
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[strings.ToLower(ext)]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// classKinds is shared by every ECMAScript grammar.
var classKinds = map[string]model.Kind{
	"class_declaration":              model.ClassDeclaration,
	"class":                          model.ClassExpression,
	"method_definition":              model.MethodDefinition,
	"function_declaration":           model.FunctionDeclaration,
	"generator_function_declaration": model.FunctionDeclaration,
	"lexical_declaration":            model.VariableDeclaration,
	"variable_declaration":           model.VariableDeclaration,
}

func withKinds(extra map[string]model.Kind) map[string]model.Kind {
	out := make(map[string]model.Kind, len(classKinds)+len(extra))
	for k, v := range classKinds {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// DeclarationName resolves the identifying name of a declaration node.
// Class-like nodes use their own identifier, members use their key, and
// variable declarations use the first declarator. It returns model.Unnamed
// when no plain identifier is present (computed keys, string keys, anonymous
// classes).
func DeclarationName(node *sitter.Node, source []byte) string {
	if node.Type() == "lexical_declaration" || node.Type() == "variable_declaration" {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "variable_declarator" {
				return identifierName(child.ChildByFieldName("name"), source)
			}
		}
		return model.Unnamed
	}

	for _, field := range []string{"name", "property"} {
		if id := node.ChildByFieldName(field); id != nil {
			return identifierName(id, source)
		}
	}
	return model.Unnamed
}

func identifierName(node *sitter.Node, source []byte) string {
	if node == nil {
		return model.Unnamed
	}
	switch node.Type() {
	case "identifier", "type_identifier", "property_identifier":
		return NodeText(node, source)
	case "private_property_identifier":
		return strings.TrimPrefix(NodeText(node, source), "#")
	}
	return model.Unnamed
}
