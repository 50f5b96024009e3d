package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayerMasker_Mask(t *testing.T) {
	lm := NewLayerMasker(8)

	assert.Equal(t, Mask(0), lm.Mask())
	assert.Equal(t, Mask(0b1010), lm.Mask(1, 3))
	assert.Equal(t, Mask(0xFF), lm.AllLayers())
	assert.Equal(t, Mask(0), lm.NoLayers())

	// Out-of-range layer numbers drop out silently.
	assert.Equal(t, Mask(0b100), lm.Mask(2, 9, -1))
}

func TestLayerMasker_AddLayersKeepsForeignBits(t *testing.T) {
	lm := NewLayerMasker(4)
	m := Mask(1)<<30 | Mask(1)

	got := lm.AddLayers(m, 2, 9)

	// Layer 9 is out of range and dropped, but bit 30 already present in
	// the input mask survives untouched.
	assert.Equal(t, Mask(1)<<30|Mask(0b101), got)
}

func TestLayerMasker_AboveAndBelow(t *testing.T) {
	lm := NewLayerMasker(8)

	tests := []struct {
		name string
		got  Mask
		want Mask
	}{
		{"above 3", lm.MaskAllAbove(3), 0xF8},
		{"above 1", lm.MaskAllAbove(1), 0xFE},
		{"above 0 selects everything", lm.MaskAllAbove(0), 0xFF},
		{"above negative selects everything", lm.MaskAllAbove(-2), 0xFF},
		{"above past the top selects nothing", lm.MaskAllAbove(8), 0},
		{"below 3", lm.MaskAllBelow(3), 0x0F},
		{"below 0", lm.MaskAllBelow(0), 0x01},
		{"below negative selects nothing", lm.MaskAllBelow(-1), 0},
		{"below past the top selects everything", lm.MaskAllBelow(8), 0xFF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestLayerMasker_FullWidth(t *testing.T) {
	lm := NewLayerMasker(32)

	assert.Equal(t, ^Mask(0), lm.AllLayers())
	assert.Equal(t, ^Mask(0), lm.MaskAllBelow(31))
	assert.Equal(t, Mask(1)<<31, lm.MaskAllAbove(31))
	assert.True(t, lm.HasLayer(lm.AllLayers(), 31))
}

func TestLayerMasker_LayersDescending(t *testing.T) {
	lm := NewLayerMasker(8)

	assert.Equal(t, []int{5, 3, 2, 0}, lm.Layers(0b00101101))
	assert.Empty(t, lm.Layers(0))

	// Bits beyond the managed universe do not show up.
	assert.Equal(t, []int{5, 3, 2, 0}, lm.Layers(0b00101101|Mask(1)<<20))
}

func TestLayerMasker_HasLayer(t *testing.T) {
	lm := NewLayerMasker(8)
	m := lm.Mask(0, 7)

	assert.True(t, lm.HasLayer(m, 0))
	assert.True(t, lm.HasLayer(m, 7))
	assert.False(t, lm.HasLayer(m, 3))
	assert.False(t, lm.HasLayer(m, -1))
	assert.False(t, lm.HasLayer(^Mask(0), 8))
}

func TestNewLayerMasker_RejectsBadUniverse(t *testing.T) {
	assert.Panics(t, func() { NewLayerMasker(0) })
	assert.Panics(t, func() { NewLayerMasker(MaxLayers + 1) })
	assert.NotPanics(t, func() { NewLayerMasker(MaxLayers) })
}
