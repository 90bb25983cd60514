package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// Format constants for output formats.
const (
	FormatASCII = "ascii"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
)

// Formats lists the supported formats.
func Formats() []string {
	return []string{FormatASCII, FormatDOT, FormatSVG, FormatPNG, FormatPDF}
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	for _, f := range Formats() {
		if f == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats(), ", "))
}

// FormatFromPath picks a format from a file extension, defaulting to ascii.
func FormatFromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return FormatASCII
	}
	switch ext := strings.ToLower(path[i+1:]); ext {
	case "txt":
		return FormatASCII
	case "gv":
		return FormatDOT
	default:
		if ValidateFormat(ext) == nil {
			return ext
		}
		return FormatASCII
	}
}

// Option configures rendering.
type Option func(*options)

type options struct {
	scale  float64
	labels bool
	title  string
}

// WithScale sets the size of one grid unit in inches for dot, svg and png
// (default 0.25).
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithLabels toggles module index labels (default on).
func WithLabels(on bool) Option {
	return func(o *options) { o.labels = on }
}

// WithTitle sets the title printed on PDF pages and the DOT graph label.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

func newOptions(opts []Option) options {
	o := options{scale: 0.25, labels: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Render renders sol in the given format.
func Render(ctx context.Context, sol *solution.Solution, format string, opts ...Option) ([]byte, error) {
	if sol == nil || len(sol.Placements) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to render")
	}
	switch format {
	case FormatASCII:
		return []byte(ASCII(sol, opts...)), nil
	case FormatDOT:
		return []byte(ToDOT(sol, opts...)), nil
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(sol, opts...))
	case FormatPNG:
		return RenderPNG(ctx, ToDOT(sol, opts...))
	case FormatPDF:
		return PDF(sol, opts...)
	}
	return nil, ValidateFormat(format)
}

// moduleGlyph is the character used for module i in the ASCII board.
func moduleGlyph(i int) byte {
	const glyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	if i < len(glyphs) {
		return glyphs[i]
	}
	return '#'
}

type rgb struct{ R, G, B int }

func (c rgb) hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

var palette = []rgb{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func colorOf(i int) rgb { return palette[i%len(palette)] }
