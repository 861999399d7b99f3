package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHitEffectFactory(t *testing.T) {
	f, err := NewHitEffectFactory("", nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = NewHitEffectFactory("sparkles", nil)
	assert.Error(t, err)

	for name, want := range map[string]HitEffect{
		EffectRing:       &RingEffect{},
		EffectDoubleRing: &DoubleRingEffect{},
		EffectParticles:  &ParticleBurst{},
	} {
		f, err := NewHitEffectFactory(name, nil)
		require.NoError(t, err)
		assert.IsType(t, want, f(GridPos{}), name)
	}
}

func TestRingEffects_RunForTheirFrames(t *testing.T) {
	r := NewRingEffect(GridPos{}, ringFrames)
	d := NewDoubleRingEffect(GridPos{}, doubleRingFrames)
	for i := 0; i < ringFrames; i++ {
		assert.False(t, r.Done())
		r.Update(tickDt)
		d.Update(tickDt)
	}
	assert.True(t, r.Done())
	assert.False(t, d.Done())
	for i := ringFrames; i < doubleRingFrames; i++ {
		d.Update(tickDt)
	}
	assert.True(t, d.Done())
}

func TestParticleBurst_LifetimeBounds(t *testing.T) {
	b := NewParticleBurst(GridPos{}, particleCount, rand.New(rand.NewSource(9)))
	assert.Equal(t, particleCount, b.Len())

	// Nothing dies before the minimum life, everything is gone after the maximum.
	for elapsed := 0.0; elapsed+tickDt < particleMinLife; elapsed += tickDt {
		b.Update(tickDt)
	}
	assert.Equal(t, particleCount, b.Len())
	for i := 0; i < int(particleMaxLife/tickDt)+1; i++ {
		b.Update(tickDt)
	}
	assert.True(t, b.Done())
}
