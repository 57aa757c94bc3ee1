// Package docs serves the embedded documentation topics of the amt tool.
package docs

import (
	"fmt"
	"strings"

	"embed"
)

//go:embed *.md
var pages embed.FS

// Topics lists the available documentation topics, readme first. The
// list is the source of truth: a page not listed here is unreachable,
// and the tests keep it in sync with the embedded files.
var Topics = []string{"readme", "amounts", "styles", "prices", "cache"}

// Topic returns the markdown content of one documentation topic.
func Topic(name string) (string, error) {
	b, err := pages.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found, try one of: %s", name, strings.Join(Topics, ", "))
	}
	return string(b), nil
}

// All returns every topic concatenated in Topics order.
func All() (string, error) {
	var b strings.Builder
	for _, name := range Topics {
		content, err := Topic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
