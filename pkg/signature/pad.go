// Package signature implements the freehand signature capture surface used
// by the public renderer. Strokes accumulate on an offscreen raster and the
// full drawing is exported as an opaque PNG data URL; nothing downstream
// ever parses the value.
package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
)

// Strokes are 2px round-capped joined segments in opaque black.
const brushRadius = 1.0

var errEmptyPad = errors.New("signature pad has zero size")

// Pad is a drawing surface for exactly one signature. It is owned by a
// single widget instance and is not safe for concurrent use; the UI event
// loop is its only caller.
type Pad struct {
	canvas *image.RGBA
	width  int
	height int

	drawing    bool
	lastX      float64
	lastY      float64
	hasContent bool

	onChange func(dataURL string)
}

// NewPad creates a pad with a raster sized once to the widget's rendered
// dimensions. The raster is never resized afterwards.
func NewPad(width, height int) (*Pad, error) {
	if width <= 0 || height <= 0 {
		return nil, errEmptyPad
	}

	return &Pad{
		canvas: image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}, nil
}

// OnChange registers the callback that receives the serialized drawing. It
// fires after every completed stroke with the full accumulated raster, and
// with an empty string after Clear. The latest emission is authoritative.
func (p *Pad) OnChange(fn func(dataURL string)) {
	p.onChange = fn
}

// BeginStroke starts a stroke at the given point. A second simultaneous
// contact is ignored: only one stroke is active at a time.
func (p *Pad) BeginStroke(x, y float64) {
	if p.drawing {
		return
	}

	p.drawing = true
	p.lastX = x
	p.lastY = y
}

// ExtendStroke extends the active stroke with a connected line segment.
// Ignored when no stroke is active.
func (p *Pad) ExtendStroke(x, y float64) {
	if !p.drawing {
		return
	}

	p.drawSegment(p.lastX, p.lastY, x, y)
	p.lastX = x
	p.lastY = y
	p.hasContent = true
}

// EndStroke finishes the active stroke and emits the accumulated drawing.
// Pointer-up and pointer-leave both map here.
func (p *Pad) EndStroke() {
	if !p.drawing {
		return
	}

	p.drawing = false
	p.emit()
}

// Clear wipes the raster, resets the content flag, and emits an empty
// string to signal "no signature".
func (p *Pad) Clear() {
	for i := range p.canvas.Pix {
		p.canvas.Pix[i] = 0
	}

	p.drawing = false
	p.hasContent = false

	if p.onChange != nil {
		p.onChange("")
	}
}

// HasContent reports whether anything has been drawn since creation or the
// last Clear.
func (p *Pad) HasContent() bool {
	return p.hasContent
}

// DataURL serializes the current raster as a PNG data URL.
func (p *Pad) DataURL() (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.canvas); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (p *Pad) emit() {
	if p.onChange == nil {
		return
	}

	dataURL, err := p.DataURL()
	if err != nil {
		return
	}

	p.onChange(dataURL)
}

// drawSegment rasterizes one round-capped segment by stamping the brush
// along the line at sub-pixel steps.
func (p *Pad) drawSegment(x0, y0, x1, y1 float64) {
	dx := x1 - x0
	dy := y1 - y0

	length := math.Hypot(dx, dy)
	steps := int(length*2) + 1

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p.stamp(x0+dx*t, y0+dy*t)
	}
}

func (p *Pad) stamp(cx, cy float64) {
	minX := int(math.Floor(cx - brushRadius))
	maxX := int(math.Ceil(cx + brushRadius))
	minY := int(math.Floor(cy - brushRadius))
	maxY := int(math.Ceil(cy + brushRadius))

	for y := minY; y <= maxY; y++ {
		if y < 0 || y >= p.height {
			continue
		}

		for x := minX; x <= maxX; x++ {
			if x < 0 || x >= p.width {
				continue
			}

			ddx := float64(x) + 0.5 - cx
			ddy := float64(y) + 0.5 - cy

			if ddx*ddx+ddy*ddy <= brushRadius*brushRadius {
				p.canvas.SetRGBA(x, y, color.RGBA{A: 255})
			}
		}
	}
}
