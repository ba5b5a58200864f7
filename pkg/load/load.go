package load

import (
	"path/filepath"
	"strings"

	provis "github.com/provis-run/provis/pkg"
)

func File(recipePath string) (*provis.RecipeDef, error) {
	recipe, err := provis.ReadRecipeFromFile(recipePath)
	if err != nil {
		return nil, err
	}

	if recipe.Name == "" {
		base := filepath.Base(recipePath)
		recipe.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return recipe, nil
}

func YAML(yaml string) (*provis.RecipeDef, error) {
	return provis.ReadRecipeFromString(yaml)
}
