package fakeapi

import (
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
)

// Link relation and profile locations advertised by the API.
const (
	linkRelationsURL   = "/nearby/link-relations/"
	areaProfile        = "/profiles/area/"
	measurementProfile = "/profiles/measurement/"
	errorProfile       = "/profiles/error/"
)

// body is a Mason document under construction.
type body map[string]any

func (b body) addNamespace(ns, uri string) {
	namespaces, _ := b["@namespaces"].(map[string]any)
	if namespaces == nil {
		namespaces = map[string]any{}
		b["@namespaces"] = namespaces
	}

	namespaces[ns] = map[string]string{"name": uri}
}

func (b body) addControl(name mason.ControlName, href string, props map[string]any) {
	controls, _ := b["@controls"].(map[string]any)
	if controls == nil {
		controls = map[string]any{}
		b["@controls"] = controls
	}

	ctl := map[string]any{"href": href}
	for key, value := range props {
		ctl[key] = value
	}

	controls[string(name)] = ctl
}

func (b body) addError(title, details string) {
	b["@error"] = map[string]any{
		"@message":  title,
		"@messages": []string{details},
	}
}

func areaSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"description": "Area name",
				"type":        "string",
			},
			"location": map[string]any{
				"description": "Location",
				"type":        "string",
			},
		},
		"required": []string{"name"},
	}
}
