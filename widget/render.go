package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Renderer presents a frame on some host surface.
type Renderer interface {
	Render(ctx context.Context, f *Frame) error
}

// JSONRenderer writes frames as JSON documents for an external host to draw.
type JSONRenderer struct {
	w      io.Writer
	indent bool
}

// NewJSONRenderer writes to w, indented when indent is set.
func NewJSONRenderer(w io.Writer, indent bool) *JSONRenderer {
	return &JSONRenderer{w: w, indent: indent}
}

func (r *JSONRenderer) Render(ctx context.Context, f *Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc := json.NewEncoder(r.w)
	if r.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}
