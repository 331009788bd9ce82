package widgets

import (
	"bytes"
	"fmt"
)

// Markdown converts GitHub-flavoured markdown into an HTML fragment.
// Raw HTML in the source is kept.
func (b *Builder) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := b.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}
