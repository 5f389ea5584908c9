// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"

	"github.com/ik5/audspace/pose"
	"github.com/ik5/audspace/utils"
)

type DistanceModel string

const (
	DistanceLinear      DistanceModel = "linear"
	DistanceInverse     DistanceModel = "inverse"
	DistanceExponential DistanceModel = "exponential"
)

type PanningModel string

const (
	PanningEqualPower PanningModel = "equalpower"
	PanningHRTF       PanningModel = "HRTF"
)

const (
	headRadius    = 0.0875 // metres
	speedOfSound  = 343.0  // metres per second
	shadowMinFreq = 1800.0 // far-ear cutoff for a source fully to one side
	shadowMaxFreq = 20000.0
	itdLineSize   = 256
)

// Panner positions a mono source relative to the context listener.
//
// Position and orientation are automatable; SetPosition and SetOrientation
// write them immediately. The HRTF model adds an interaural delay and a
// head-shadow low-pass to the equal-power pan.
type Panner struct {
	node

	PositionX, PositionY, PositionZ          *Param
	OrientationX, OrientationY, OrientationZ *Param

	distanceModel DistanceModel
	panningModel  PanningModel
	refDistance   float64
	maxDistance   float64
	rolloff       float64
	coneInner     float64
	coneOuter     float64
	coneOuterGain float64

	gainL, gainR float64
	seen         bool

	// HRTF state
	delay      [2][itdLineSize]float32
	delayPos   int
	delayL     float64 // samples
	delayR     float64
	shadow     [2]float32
	shadowCoef [2]float64
}

// NewPanner creates an equal-power panner with the inverse distance model.
func NewPanner(ctx *Context) *Panner {
	inf := math.Inf(1)
	p := &Panner{
		distanceModel: DistanceInverse,
		panningModel:  PanningEqualPower,
		refDistance:   1,
		maxDistance:   10000,
		rolloff:       1,
		coneInner:     360,
		coneOuter:     360,
		coneOuterGain: 0,
	}
	p.init(ctx, "panner", p)
	p.inputChannels = 1

	p.PositionX = newParam(ctx, "positionX", 0, -inf, inf)
	p.PositionY = newParam(ctx, "positionY", 0, -inf, inf)
	p.PositionZ = newParam(ctx, "positionZ", 0, -inf, inf)
	p.OrientationX = newParam(ctx, "orientationX", 1, -inf, inf)
	p.OrientationY = newParam(ctx, "orientationY", 0, -inf, inf)
	p.OrientationZ = newParam(ctx, "orientationZ", 0, -inf, inf)
	return p
}

// SetPosition writes the source position immediately.
func (p *Panner) SetPosition(x, y, z float64) {
	p.PositionX.SetValue(x)
	p.PositionY.SetValue(y)
	p.PositionZ.SetValue(z)
}

// SetOrientation writes the direction the source faces immediately.
func (p *Panner) SetOrientation(x, y, z float64) {
	p.OrientationX.SetValue(x)
	p.OrientationY.SetValue(y)
	p.OrientationZ.SetValue(z)
}

func (p *Panner) locked(fn func()) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	fn()
}

func (p *Panner) SetDistanceModel(m DistanceModel) { p.locked(func() { p.distanceModel = m }) }
func (p *Panner) SetPanningModel(m PanningModel)   { p.locked(func() { p.panningModel = m }) }
func (p *Panner) SetRefDistance(d float64)         { p.locked(func() { p.refDistance = max(d, 0) }) }
func (p *Panner) SetMaxDistance(d float64)         { p.locked(func() { p.maxDistance = max(d, 0) }) }
func (p *Panner) SetRolloffFactor(r float64)       { p.locked(func() { p.rolloff = max(r, 0) }) }

// SetCone sets the directivity cone. Angles are full widths in degrees.
func (p *Panner) SetCone(inner, outer, outerGain float64) {
	p.locked(func() {
		p.coneInner = inner
		p.coneOuter = outer
		p.coneOuterGain = utils.Clamp(outerGain, 0, 1)
	})
}

func (p *Panner) DistanceModel() (m DistanceModel) {
	p.locked(func() { m = p.distanceModel })
	return m
}

func (p *Panner) PanningModel() (m PanningModel) {
	p.locked(func() { m = p.panningModel })
	return m
}

func (p *Panner) RefDistance() (d float64) {
	p.locked(func() { d = p.refDistance })
	return d
}

func (p *Panner) MaxDistance() (d float64) {
	p.locked(func() { d = p.maxDistance })
	return d
}

func (p *Panner) RolloffFactor() (r float64) {
	p.locked(func() { r = p.rolloff })
	return r
}

func (p *Panner) process(in, out *bus, t float64) {
	listener := p.ctx.listener.sample(t)
	position := pose.Vec3(p.PositionX.sample(t), p.PositionY.sample(t), p.PositionZ.sample(t))
	orientation := pose.Vec3(p.OrientationX.sample(t), p.OrientationY.sample(t), p.OrientationZ.sample(t))

	azimuth, _ := azimuthElevation(listener, position)
	distance := position.Sub(listener.Position).Length()
	gain := p.distanceGain(distance) * p.coneGain(listener.Position, position, orientation)

	gl, gr := equalPower(panPosition(azimuth))
	targetL, targetR := float64(gl)*gain, float64(gr)*gain
	if !p.seen {
		p.gainL, p.gainR = targetL, targetR
		p.seen = true
	}

	out.zero(2)
	if in.channels == 0 {
		p.gainL, p.gainR = targetL, targetR
		return
	}

	var mono [RenderQuantum]float32
	in.mono(&mono)

	stepL := (targetL - p.gainL) / RenderQuantum
	stepR := (targetR - p.gainR) / RenderQuantum
	vl, vr := p.gainL, p.gainR
	for i, s := range mono {
		vl += stepL
		vr += stepR
		out.data[0][i] = s * float32(vl)
		out.data[1][i] = s * float32(vr)
	}
	p.gainL, p.gainR = targetL, targetR

	if p.panningModel == PanningHRTF {
		p.spatialize(out, azimuth)
	}
}

// spatialize delays and low-passes the ear facing away from the source.
func (p *Panner) spatialize(out *bus, azimuth float64) {
	rate := float64(p.ctx.sampleRate)
	lateral := math.Sin(azimuth * math.Pi / 180) // +1 fully right

	theta := math.Asin(math.Abs(lateral))
	itd := headRadius / speedOfSound * (theta + math.Sin(theta)) * rate

	var wantL, wantR float64
	if lateral > 0 {
		wantL = itd
	} else {
		wantR = itd
	}

	p.shadowCoef[0] = shadowCoefficient(max(lateral, 0), rate)
	p.shadowCoef[1] = shadowCoefficient(max(-lateral, 0), rate)

	stepL := (wantL - p.delayL) / RenderQuantum
	stepR := (wantR - p.delayR) / RenderQuantum
	for i := range RenderQuantum {
		p.delay[0][p.delayPos] = out.data[0][i]
		p.delay[1][p.delayPos] = out.data[1][i]

		p.delayL += stepL
		p.delayR += stepR
		l := p.readDelay(0, p.delayL)
		r := p.readDelay(1, p.delayR)

		a0, a1 := float32(p.shadowCoef[0]), float32(p.shadowCoef[1])
		p.shadow[0] = (1-a0)*l + a0*p.shadow[0]
		p.shadow[1] = (1-a1)*r + a1*p.shadow[1]
		out.data[0][i] = p.shadow[0]
		out.data[1][i] = p.shadow[1]

		p.delayPos = (p.delayPos + 1) % itdLineSize
	}
	p.delayL, p.delayR = wantL, wantR
}

func (p *Panner) readDelay(ch int, samples float64) float32 {
	whole := int(samples)
	frac := float32(samples - float64(whole))
	a := p.delay[ch][(p.delayPos-whole+itdLineSize)%itdLineSize]
	b := p.delay[ch][(p.delayPos-whole-1+itdLineSize)%itdLineSize]
	return a + (b-a)*frac
}

// shadowCoefficient returns the one-pole coefficient for an ear that is
// shadowed by amount in [0, 1].
func shadowCoefficient(amount, rate float64) float64 {
	fc := shadowMaxFreq - (shadowMaxFreq-shadowMinFreq)*amount
	fc = min(fc, rate/2)
	return math.Exp(-2 * math.Pi * fc / rate)
}

func (p *Panner) distanceGain(d float64) float64 {
	ref := p.refDistance
	switch p.distanceModel {
	case DistanceLinear:
		rolloff := min(p.rolloff, 1)
		if p.maxDistance <= ref {
			if d <= ref {
				return 1
			}
			return 1 - rolloff
		}
		d = utils.Clamp(d, ref, p.maxDistance)
		return 1 - rolloff*(d-ref)/(p.maxDistance-ref)
	case DistanceExponential:
		if ref == 0 {
			return 1
		}
		return math.Pow(max(d, ref)/ref, -p.rolloff)
	default:
		if ref == 0 && p.rolloff == 0 {
			return 1
		}
		d = max(d, ref)
		return ref / (ref + p.rolloff*(d-ref))
	}
}

func (p *Panner) coneGain(listener, source, orientation pose.Vector3) float64 {
	if orientation.Length() == 0 || (p.coneInner == 360 && p.coneOuter == 360) {
		return 1
	}

	toListener := listener.Sub(source).Normalize()
	if toListener.Length() == 0 {
		return 1
	}
	cos := utils.Clamp(toListener.Dot(orientation.Normalize()), -1, 1)
	angle := math.Acos(cos) * 180 / math.Pi

	inner := math.Abs(p.coneInner) / 2
	outer := math.Abs(p.coneOuter) / 2
	switch {
	case angle <= inner:
		return 1
	case angle >= outer:
		return p.coneOuterGain
	default:
		x := (angle - inner) / (outer - inner)
		return (1 - x) + p.coneOuterGain*x
	}
}

// azimuthElevation returns the direction of source seen from listener in
// degrees. Azimuth is 0 straight ahead and positive to the right.
func azimuthElevation(listener pose.Pose, source pose.Vector3) (float64, float64) {
	dir := source.Sub(listener.Position)
	if dir.Length() == 0 {
		return 0, 0
	}
	dir = dir.Normalize()

	forward := listener.Forward.Normalize()
	right := forward.Cross(listener.Up).Normalize()
	if right.Length() == 0 {
		return 0, 0
	}
	up := right.Cross(forward)

	upProj := dir.Dot(up)
	projected := dir.Sub(up.Scale(upProj)).Normalize()

	azimuth := 0.0
	if projected.Length() != 0 {
		azimuth = math.Acos(utils.Clamp(projected.Dot(right), -1, 1)) * 180 / math.Pi
		if projected.Dot(forward) < 0 {
			azimuth = 360 - azimuth
		}
		if azimuth <= 270 {
			azimuth = 90 - azimuth
		} else {
			azimuth = 450 - azimuth
		}
	}

	elevation := 90 - math.Acos(utils.Clamp(dir.Dot(up), -1, 1))*180/math.Pi
	switch {
	case elevation > 90:
		elevation = 180 - elevation
	case elevation < -90:
		elevation = -180 - elevation
	}

	return azimuth, elevation
}

// panPosition folds azimuth into the frontal half-plane and maps it to [0, 1].
func panPosition(azimuth float64) float64 {
	azimuth = utils.Clamp(azimuth, -180, 180)
	switch {
	case azimuth < -90:
		azimuth = -180 - azimuth
	case azimuth > 90:
		azimuth = 180 - azimuth
	}
	return (azimuth + 90) / 180
}
