package game

import (
	"encoding/binary"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleRate is the audio context rate the tone sink expects.
const SampleRate = 48000

// tone describes one synthesised cue: a frequency sweep, optionally mixed
// with noise, under a linear decay envelope.
type tone struct {
	from, to float64 // Hz
	length   time.Duration
	noise    float64 // 0 pure tone, 1 pure noise
	square   bool
	gain     float64
}

var cueTones = map[SoundCue]tone{
	CueShoot:       {from: 880, to: 660, length: 60 * time.Millisecond, square: true, gain: 0.25},
	CueExplosion:   {from: 120, to: 40, length: 250 * time.Millisecond, noise: 0.8, gain: 0.5},
	CueExplosion2:  {from: 180, to: 90, length: 150 * time.Millisecond, noise: 0.6, gain: 0.4},
	CuePlayerHurt:  {from: 240, to: 200, length: 120 * time.Millisecond, square: true, gain: 0.35},
	CuePlayerDeath: {from: 440, to: 110, length: 500 * time.Millisecond, gain: 0.45},
	CuePlayerHeal:  {from: 660, to: 990, length: 200 * time.Millisecond, gain: 0.3},
}

// synth renders t as signed 16-bit little-endian stereo PCM.
func (t tone) synth(rate int, rng *rand.Rand) []byte {
	n := int(t.length.Seconds() * float64(rate))
	buf := make([]byte, n*4)
	phase := 0.0
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n)
		freq := t.from + (t.to-t.from)*frac
		phase += 2 * math.Pi * freq / float64(rate)

		v := math.Sin(phase)
		if t.square {
			v = math.Copysign(1, v)
		}
		if t.noise > 0 {
			v = v*(1-t.noise) + (rng.Float64()*2-1)*t.noise
		}
		v *= t.gain * (1 - frac)

		s := uint16(int16(math.Max(-1, math.Min(1, v)) * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*4:], s)
		binary.LittleEndian.PutUint16(buf[i*4+2:], s)
	}
	return buf
}

// ToneSink plays synthesised cues through an ebiten audio context.
type ToneSink struct {
	ctx    *audio.Context
	clips  map[SoundCue][]byte
	volume float64
	muted  bool
}

// NewToneSink renders every cue up front. ctx must run at SampleRate.
func NewToneSink(ctx *audio.Context) *ToneSink {
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- noise only
	clips := make(map[SoundCue][]byte, len(cueTones))
	for _, c := range AllCues {
		if t, ok := cueTones[c]; ok {
			clips[c] = t.synth(SampleRate, rng)
		}
	}
	return &ToneSink{ctx: ctx, clips: clips, volume: 0.6}
}

// Play starts c. Unknown cues and a muted sink are silent.
func (ts *ToneSink) Play(c SoundCue) {
	if ts.muted || ts.ctx == nil {
		return
	}
	clip, ok := ts.clips[c]
	if !ok {
		return
	}
	p := ts.ctx.NewPlayerFromBytes(clip)
	p.SetVolume(ts.volume)
	p.Play()
}

func (ts *ToneSink) Muted() bool         { return ts.muted }
func (ts *ToneSink) SetMuted(m bool)     { ts.muted = m }
func (ts *ToneSink) Volume() float64     { return ts.volume }
func (ts *ToneSink) SetVolume(v float64) { ts.volume = math.Max(0, math.Min(1, v)) }
