package imop

import (
	"strings"

	"github.com/esimov/imgkit/utils"
	"github.com/pkg/errors"
)

// BlendMode defines how the source color is mixed with the backdrop color
// before the composite operation is applied.
type BlendMode string

// Supported blend modes.
const (
	Normal   BlendMode = "normal"
	Darken   BlendMode = "darken"
	Lighten  BlendMode = "lighten"
	Multiply BlendMode = "multiply"
	Screen   BlendMode = "screen"
	Overlay  BlendMode = "overlay"
)

// ErrUnsupportedBlend is returned for unknown blend modes.
var ErrUnsupportedBlend = errors.New("unsupported blend mode")

// ParseBlend returns the blend mode with the given name. An empty name means Normal.
func ParseBlend(name string) (BlendMode, error) {
	mode := BlendMode(strings.ToLower(strings.TrimSpace(name)))
	switch mode {
	case "":
		return Normal, nil
	case Normal, Darken, Lighten, Multiply, Screen, Overlay:
		return mode, nil
	}
	return "", errors.Wrapf(ErrUnsupportedBlend, "%q", name)
}

// mix returns the blended value of the normalized source (cs) and backdrop (cb) channels.
func (m BlendMode) mix(cs, cb float64) float64 {
	switch m {
	case Darken:
		return utils.Min(cs, cb)
	case Lighten:
		return utils.Max(cs, cb)
	case Multiply:
		return cs * cb
	case Screen:
		return 1 - (1-cs)*(1-cb)
	case Overlay:
		if cb <= 0.5 {
			return 2 * cs * cb
		}
		return 1 - 2*(1-cs)*(1-cb)
	default:
		return cs
	}
}
