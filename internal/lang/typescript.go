package lang

import (
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/phobologic/minidoc/internal/model"
)

// tsKinds adds the TypeScript-only class forms.
var tsKinds = map[string]model.Kind{
	"abstract_class_declaration": model.ClassDeclaration,
	"public_field_definition":    model.PropertyDefinition,
}

func init() {
	Languages["typescript"] = &Language{
		Name:       "typescript",
		Extensions: []string{".ts", ".mts", ".cts"},
		lang:       typescript.GetLanguage(),
		Kinds:      withKinds(tsKinds),
	}
	Languages["tsx"] = &Language{
		Name:       "tsx",
		Extensions: []string{".tsx"},
		lang:       tsx.GetLanguage(),
		Kinds:      withKinds(tsKinds),
	}
}
