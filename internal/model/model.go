// Package model defines core data structures for minidoc.
package model

import (
	"fmt"
	"slices"
)

// Kind is the syntactic kind of a documentable declaration, named after the
// ESTree node type.
type Kind string

const (
	ClassDeclaration    Kind = "ClassDeclaration"
	ClassExpression     Kind = "ClassExpression"
	MethodDefinition    Kind = "MethodDefinition"
	PropertyDefinition  Kind = "PropertyDefinition"
	FunctionDeclaration Kind = "FunctionDeclaration"
	VariableDeclaration Kind = "VariableDeclaration"
)

// Unnamed is the name given to declarations without a resolvable identifier.
const Unnamed = "Unnamed"

// DefaultKinds is the documentable set used when no kinds are configured.
var DefaultKinds = []Kind{ClassDeclaration, ClassExpression, MethodDefinition, PropertyDefinition}

// KnownKinds lists every kind the front end can produce.
var KnownKinds = []Kind{
	ClassDeclaration,
	ClassExpression,
	MethodDefinition,
	PropertyDefinition,
	FunctionDeclaration,
	VariableDeclaration,
}

// IsKnown reports whether k is one of KnownKinds.
func (k Kind) IsKnown() bool {
	return slices.Contains(KnownKinds, k)
}

// Comment is a single comment extracted from a source file.
// Start and End are character offsets; Text excludes the comment delimiters.
type Comment struct {
	Start int
	End   int
	Text  string
	Block bool
}

// IsJsdoc reports whether the comment was written as /** ... */.
func (c Comment) IsJsdoc() bool {
	return c.Block && len(c.Text) > 0 && c.Text[0] == '*'
}

// Declaration is a documentable AST node.
type Declaration struct {
	Kind  Kind
	Name  string
	Start int
	End   int
}

// Jsdoc is the structured form of one documentation comment.
type Jsdoc struct {
	Description string
	Tags        Tags
}

// Entry pairs one declaration with its parsed documentation comment.
type Entry struct {
	ID          string
	Name        string
	File        string
	Declaration Declaration
	Doc         Jsdoc
}

// NewEntry builds an Entry for decl found in file.
func NewEntry(file string, decl Declaration, doc Jsdoc) Entry {
	return Entry{
		ID:          fmt.Sprintf("%s:%s:%d:%d", file, decl.Name, decl.Start, decl.End),
		Name:        decl.Name,
		File:        file,
		Declaration: decl,
		Doc:         doc,
	}
}
