package lang

import (
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/phobologic/minidoc/internal/model"
)

func init() {
	Languages["javascript"] = &Language{
		Name:       "javascript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		lang:       javascript.GetLanguage(),
		Kinds: withKinds(map[string]model.Kind{
			"field_definition": model.PropertyDefinition,
		}),
	}
}
