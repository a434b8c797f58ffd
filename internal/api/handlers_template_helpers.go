package api

import (
	"encoding/json"
	"html/template"
)

func newTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"t":      translateMessage,
		"tf":     translateMessagef,
		"toJSON": templateToJSON,
	}
}

func templateToJSON(value any) template.JS {
	serialized, _ := json.Marshal(value)
	return template.JS(serialized)
}
