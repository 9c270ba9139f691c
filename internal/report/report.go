// Package report renders a check result for the operator and records it
// as Prometheus metrics.
package report

import (
	"fmt"
	"io"

	"github.com/johnsonjh/isntpsynced/internal/check"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Renderer writes one check result
type Renderer interface {
	Render(r *check.Result) error
}

// New returns the renderer for format. Text output splits its lines between
// stdout and stderr; JSON goes to stdout only.
func New(format string, stdout, stderr io.Writer) (Renderer, error) {
	switch format {
	case FormatText, "":
		return &TextRenderer{Out: stdout, Err: stderr}, nil
	case FormatJSON:
		return &JSONRenderer{Out: stdout}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (must be text or json)", format)
	}
}
