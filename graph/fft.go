// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"math/cmplx"
)

// fftPlan holds the twiddle factors and window for one transform size.
type fftPlan struct {
	n       int
	twiddle []complex128
	window  []float64
}

func newFFTPlan(n int) *fftPlan {
	p := &fftPlan{
		n:       n,
		twiddle: make([]complex128, n/2),
		window:  make([]float64, n),
	}
	for k := range p.twiddle {
		p.twiddle[k] = cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
	}

	// Blackman, alpha 0.16
	const a0, a1, a2 = 0.42, 0.5, 0.08
	for i := range p.window {
		x := 2 * math.Pi * float64(i) / float64(n)
		p.window[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return p
}

// transform runs an in-place radix-2 FFT. len(data) must equal p.n.
func (p *fftPlan) transform(data []complex128) {
	n := p.n

	j := 0
	for i := 1; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			data[i], data[j] = data[j], data[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		stride := n / size
		for start := 0; start < n; start += size {
			for k := range half {
				a, b := start+k, start+k+half
				w := p.twiddle[k*stride] * data[b]
				data[b] = data[a] - w
				data[a] += w
			}
		}
	}
}

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }
