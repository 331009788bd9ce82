package templates

import (
	"fmt"
	"strings"
	"text/template"
)

// Render fills the named slots of a template resource with data.
// Values are substituted verbatim: fragments are already HTML and the
// caller owns escaping.
func Render(name, text string, data interface{}) (string, error) {
	parsed, err := template.New(name).
		Option("missingkey=zero").
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %q: %w", name, err)
	}

	var out strings.Builder
	if err := parsed.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}
	return out.String(), nil
}
