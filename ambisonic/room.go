// SPDX-License-Identifier: EPL-2.0

package ambisonic

import (
	"fmt"

	"github.com/ik5/audspace/pose"
)

// Material names a wall surface. Its reflection coefficient is the broadband
// share of energy it returns.
type Material string

const (
	Transparent          Material = "transparent"
	AcousticCeilingTiles Material = "acoustic-ceiling-tiles"
	BrickBare            Material = "brick-bare"
	ConcreteBlockCoarse  Material = "concrete-block-coarse"
	CurtainHeavy         Material = "curtain-heavy"
	FiberGlassInsulation Material = "fiber-glass-insulation"
	GlassThin            Material = "glass-thin"
	Grass                Material = "grass"
	Marble               Material = "marble"
	ParquetOnConcrete    Material = "parquet-on-concrete"
	PlasterSmooth        Material = "plaster-smooth"
	PlywoodPanel         Material = "plywood-panel"
	Uniform              Material = "uniform"
	WoodPanel            Material = "wood-panel"
)

var reflection = map[Material]float64{
	Transparent:          0,
	AcousticCeilingTiles: 0.35,
	BrickBare:            0.97,
	ConcreteBlockCoarse:  0.66,
	CurtainHeavy:         0.45,
	FiberGlassInsulation: 0.2,
	GlassThin:            0.8,
	Grass:                0.6,
	Marble:               0.99,
	ParquetOnConcrete:    0.93,
	PlasterSmooth:        0.97,
	PlywoodPanel:         0.8,
	Uniform:              0.5,
	WoodPanel:            0.88,
}

// Reflection returns the material's reflection coefficient. Unknown
// materials reflect nothing.
func (m Material) Reflection() float64 {
	return reflection[m]
}

// ParseMaterial maps a material name to its Material.
func ParseMaterial(s string) (Material, error) {
	m := Material(s)
	if _, ok := reflection[m]; !ok {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownMaterial)
	}
	return m, nil
}

// Walls assigns a material to each surface of a shoebox room.
type Walls struct {
	Left, Right Material // -x, +x
	Down, Up    Material // floor, ceiling
	Front, Back Material // -z, +z
}

// Room is a shoebox centred on the scene origin. Dimensions are width (x),
// height (y) and depth (z) in metres.
type Room struct {
	Dimensions pose.Vector3
	Walls      Walls
}

// OpenAir is a room with no reflecting surfaces.
func OpenAir() Room {
	return Room{
		Dimensions: pose.Vec3(0, 0, 0),
		Walls: Walls{
			Left: Transparent, Right: Transparent,
			Down: Transparent, Up: Transparent,
			Front: Transparent, Back: Transparent,
		},
	}
}

func (r Room) Validate() error {
	d := r.Dimensions
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return fmt.Errorf("dimensions %v: %w", d, ErrInvalidRoom)
	}
	return nil
}

// wall is one reflecting plane: axis 0..2 and the coordinate it sits at.
type wall struct {
	axis  int
	at    float64
	coeff float64
}

func (r Room) walls() []wall {
	half := r.Dimensions.Scale(0.5)
	all := []wall{
		{0, -half.X, r.Walls.Left.Reflection()},
		{0, half.X, r.Walls.Right.Reflection()},
		{1, -half.Y, r.Walls.Down.Reflection()},
		{1, half.Y, r.Walls.Up.Reflection()},
		{2, -half.Z, r.Walls.Front.Reflection()},
		{2, half.Z, r.Walls.Back.Reflection()},
	}

	out := all[:0]
	for _, w := range all {
		if w.coeff > 0 && r.Dimensions.X > 0 && r.Dimensions.Y > 0 && r.Dimensions.Z > 0 {
			out = append(out, w)
		}
	}
	return out
}

// mirror reflects p across the wall.
func (w wall) mirror(p pose.Vector3) pose.Vector3 {
	switch w.axis {
	case 0:
		p.X = 2*w.at - p.X
	case 1:
		p.Y = 2*w.at - p.Y
	default:
		p.Z = 2*w.at - p.Z
	}
	return p
}
