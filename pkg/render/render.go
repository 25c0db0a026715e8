// Package render provides output renderers for wpstat's report patterns.
package render

import "github.com/dkoosis/wpstat/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
