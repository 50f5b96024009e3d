package spatial

import (
	"fmt"
	"math/bits"
)

// Mask selects a set of layers, one bit per layer with bit i standing for
// layer i. Masks are plain values; build them through a LayerMasker so
// bits beyond the managed range never leak in.
type Mask uint32

// LayerMasker builds and inspects Masks over a fixed universe of layers
// numbered 0 through NumLayers-1. Layer numbers outside the universe are
// silently dropped by the builders rather than rejected, so callers can
// feed speculative layer lists without pre-validating them.
type LayerMasker struct {
	numLayers int
}

// MaxLayers is the widest universe a LayerMasker can manage, one layer
// per Mask bit.
const MaxLayers = 32

// NewLayerMasker returns a masker over numLayers layers. numLayers must
// be in [1, MaxLayers].
func NewLayerMasker(numLayers int) LayerMasker {
	if numLayers < 1 || numLayers > MaxLayers {
		panic(fmt.Sprintf("spatial: layer count %d outside [1, %d]", numLayers, MaxLayers))
	}
	return LayerMasker{numLayers: numLayers}
}

// NumLayers returns the size of the managed universe.
func (lm LayerMasker) NumLayers() int { return lm.numLayers }

// AllLayers returns the mask selecting every managed layer.
func (lm LayerMasker) AllLayers() Mask {
	if lm.numLayers == MaxLayers {
		return ^Mask(0)
	}
	return Mask(1)<<lm.numLayers - 1
}

// NoLayers returns the empty mask.
func (lm LayerMasker) NoLayers() Mask { return 0 }

// Mask returns the mask selecting exactly the given layers. Out-of-range
// layer numbers are dropped.
func (lm LayerMasker) Mask(layers ...int) Mask {
	var m Mask
	for _, l := range layers {
		if l >= 0 && l < lm.numLayers {
			m |= Mask(1) << l
		}
	}
	return m
}

// AddLayers returns m with the given layers switched on. New layers
// outside the universe are dropped, but bits already set in m pass
// through untouched whatever their position.
func (lm LayerMasker) AddLayers(m Mask, layers ...int) Mask {
	return m | lm.Mask(layers...)
}

// HasLayer reports whether m selects layer.
func (lm LayerMasker) HasLayer(m Mask, layer int) bool {
	return layer >= 0 && layer < lm.numLayers && m&(Mask(1)<<layer) != 0
}

// MaskAllAbove returns the mask selecting layer and every managed layer
// above it. A pivot at or below zero selects everything.
func (lm LayerMasker) MaskAllAbove(layer int) Mask {
	if layer <= 0 {
		return lm.AllLayers()
	}
	if layer >= lm.numLayers {
		return 0
	}
	// Set the bit below the pivot, smear it downward, invert.
	m := Mask(1) << (layer - 1)
	return ^(m | (m - 1)) & lm.AllLayers()
}

// MaskAllBelow returns the mask selecting layer and every managed layer
// below it. A negative pivot selects nothing.
func (lm LayerMasker) MaskAllBelow(layer int) Mask {
	if layer < 0 {
		return 0
	}
	if layer >= lm.numLayers {
		return lm.AllLayers()
	}
	// Set the pivot bit and smear it downward.
	m := Mask(1) << layer
	return (m | (m - 1)) & lm.AllLayers()
}

// Layers returns the managed layers m selects, highest first. Unmanaged
// bits are ignored.
func (lm LayerMasker) Layers(m Mask) []int {
	m &= lm.AllLayers()
	out := make([]int, 0, bits.OnesCount32(uint32(m)))
	for l := lm.numLayers - 1; l >= 0; l-- {
		if m&(Mask(1)<<l) != 0 {
			out = append(out, l)
		}
	}
	return out
}
