package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTone_SynthLength(t *testing.T) {
	tn := tone{from: 440, to: 440, length: 10 * time.Millisecond, gain: 1}
	buf := tn.synth(SampleRate, rand.New(rand.NewSource(1)))
	assert.Len(t, buf, 480*4, "16-bit stereo")

	silent := tone{from: 440, to: 440, length: 10 * time.Millisecond}
	for _, b := range silent.synth(SampleRate, rand.New(rand.NewSource(1))) {
		if b != 0 {
			t.Fatal("zero gain produced sound")
		}
	}
}

func TestNewToneSink_RendersEveryTunedCue(t *testing.T) {
	ts := NewToneSink(nil)
	for c := range cueTones {
		assert.NotEmpty(t, ts.clips[c], c)
	}
	assert.NotContains(t, ts.clips, CueNone)

	// No audio context: playing is a no-op.
	ts.Play(CueShoot)
	ts.Play(SoundCue("unknown"))
}

func TestToneSink_VolumeAndMute(t *testing.T) {
	ts := NewToneSink(nil)
	ts.SetVolume(3)
	assert.Equal(t, 1.0, ts.Volume())
	ts.SetVolume(-1)
	assert.Zero(t, ts.Volume())

	assert.False(t, ts.Muted())
	ts.SetMuted(true)
	assert.True(t, ts.Muted())
}
