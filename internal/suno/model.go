package suno

import (
	"golang.org/x/text/cases"
)

const DefaultModel = "V4_5"

var modelAliases = map[string]string{
	"v4":   DefaultModel,
	"v4_5": DefaultModel,
	"v45":  DefaultModel,
}

var folder = cases.Fold()

// NormalizeModel maps the case-insensitive aliases v4, v4_5 and v45 onto
// the provider's V4_5 tag. Other names pass through unchanged.
func NormalizeModel(model string) string {
	if canonical, ok := modelAliases[folder.String(model)]; ok {
		return canonical
	}
	return model
}
