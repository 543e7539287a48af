// Package imop implements the Porter-Duff composition operations and the
// separable blend modes used for mixing a graphic element with its backdrop.
// Porter and Duff presented in their paper 12 different composition operation,
// but the image/draw core package implements only the source-over-destination and source.
// This package is aimed to overcome the missing composite operations.
package imop

import (
	"image"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Op is a Porter-Duff composite operation.
type Op string

// Supported composite operations.
const (
	Clear   Op = "clear"
	Copy    Op = "copy"
	Dst     Op = "dst"
	SrcOver Op = "src_over"
	DstOver Op = "dst_over"
	SrcIn   Op = "src_in"
	DstIn   Op = "dst_in"
	SrcOut  Op = "src_out"
	DstOut  Op = "dst_out"
	SrcAtop Op = "src_atop"
	DstAtop Op = "dst_atop"
	Xor     Op = "xor"
)

// ErrUnsupportedOp is returned for unknown composite operations.
var ErrUnsupportedOp = errors.New("unsupported composite operation")

// ParseOp returns the composite operation with the given name. An empty name means SrcOver.
func ParseOp(name string) (Op, error) {
	op := Op(strings.ToLower(strings.TrimSpace(name)))
	if op == "" {
		return SrcOver, nil
	}
	if _, ok := op.factors(1, 1); !ok {
		return "", errors.Wrapf(ErrUnsupportedOp, "%q", name)
	}
	return op, nil
}

// factors returns the Porter-Duff fractions (Fa, Fb) of the source and backdrop
// for the given source (as) and backdrop (ab) alpha values.
func (op Op) factors(as, ab float64) ([2]float64, bool) {
	switch op {
	case Clear:
		return [2]float64{0, 0}, true
	case Copy:
		return [2]float64{1, 0}, true
	case Dst:
		return [2]float64{0, 1}, true
	case SrcOver:
		return [2]float64{1, 1 - as}, true
	case DstOver:
		return [2]float64{1 - ab, 1}, true
	case SrcIn:
		return [2]float64{ab, 0}, true
	case DstIn:
		return [2]float64{0, as}, true
	case SrcOut:
		return [2]float64{1 - ab, 0}, true
	case DstOut:
		return [2]float64{0, 1 - as}, true
	case SrcAtop:
		return [2]float64{ab, 1 - as}, true
	case DstAtop:
		return [2]float64{1 - ab, as}, true
	case Xor:
		return [2]float64{1 - ab, 1 - as}, true
	}
	return [2]float64{}, false
}

// Draw composites src over dst with the top-left corner of src placed at pt.
// The source color is first mixed with the backdrop using the blend mode,
// then combined with it through the composite operation. The source alpha
// is scaled by opacity. Only the area covered by src is affected.
func Draw(dst, src *image.NRGBA, pt image.Point, op Op, mode BlendMode, opacity float64) error {
	if op == "" {
		op = SrcOver
	}
	if _, ok := op.factors(1, 1); !ok {
		return errors.Wrapf(ErrUnsupportedOp, "%q", op)
	}
	if _, err := ParseBlend(string(mode)); err != nil {
		return err
	}
	opacity = math.Max(0, math.Min(opacity, 1))

	sb := src.Bounds()
	r := sb.Sub(sb.Min).Add(pt).Intersect(dst.Bounds())
	if r.Empty() {
		return nil
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(x-pt.X+sb.Min.X, y-pt.Y+sb.Min.Y)
			di := dst.PixOffset(x, y)
			compose(dst.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4], op, mode, opacity)
		}
	}
	return nil
}

// compose writes into d the composition of the non-premultiplied s and d pixels.
func compose(d, s []uint8, op Op, mode BlendMode, opacity float64) {
	as := float64(s[3]) / 255 * opacity
	ab := float64(d[3]) / 255
	f, _ := op.factors(as, ab)

	ao := as*f[0] + ab*f[1]
	if ao <= 0 {
		d[0], d[1], d[2], d[3] = 0, 0, 0, 0
		return
	}

	for c := 0; c < 3; c++ {
		cs := float64(s[c]) / 255
		cb := float64(d[c]) / 255

		// Where the backdrop is opaque the blended color fully replaces the source color.
		cs = (1-ab)*cs + ab*mode.mix(cs, cb)

		co := (as*f[0]*cs + ab*f[1]*cb) / ao
		d[c] = uint8(math.Round(math.Min(co, 1) * 255))
	}
	d[3] = uint8(math.Round(math.Min(ao, 1) * 255))
}
