package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/osteele/liquid"
)

// DefaultFilenamePattern names artifacts by sale date.
const DefaultFilenamePattern = "cut-sheet-{{ date }}.{{ ext }}"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

var filenameEngine = newFilenameEngine()

func newFilenameEngine() *liquid.Engine {
	engine := liquid.NewEngine()
	// {{ customer | slug }}
	engine.RegisterFilter("slug", func(s string) string {
		return strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
	})
	return engine
}

// Filename renders pattern with date (YYYY-MM-DD), ext and any extra
// bindings. Path separators in the result are replaced.
func Filename(pattern string, f Format, date time.Time, extra map[string]any) (string, error) {
	if pattern == "" {
		pattern = DefaultFilenamePattern
	}
	bindings := map[string]any{
		"date":   date.Format("2006-01-02"),
		"ext":    f.Ext(),
		"format": string(f),
	}
	for k, v := range extra {
		bindings[k] = v
	}

	name, err := filenameEngine.ParseAndRenderString(pattern, bindings)
	if err != nil {
		return "", fmt.Errorf("render filename %q: %w", pattern, err)
	}
	name = strings.TrimSpace(strings.NewReplacer("/", "-", `\`, "-").Replace(name))
	if name == "" {
		return "", fmt.Errorf("render filename %q: empty result", pattern)
	}
	return name, nil
}
