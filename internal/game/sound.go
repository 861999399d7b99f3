package game

import "github.com/charmbracelet/log"

// SoundCue names a fire-and-forget audio notification. The simulation only
// describes cues; a SoundSink outside the core decides how to play them.
type SoundCue string

const (
	CueNone        SoundCue = ""
	CueShoot       SoundCue = "shoot"
	CueExplosion   SoundCue = "explosion"
	CueExplosion2  SoundCue = "explosion_2"
	CuePlayerHurt  SoundCue = "player_hurt"
	CuePlayerDeath SoundCue = "player_death"
	CuePlayerHeal  SoundCue = "player_heal"
)

// AllCues lists every cue a sink may be asked to play.
var AllCues = []SoundCue{
	CueShoot, CueExplosion, CueExplosion2, CuePlayerHurt, CuePlayerDeath, CuePlayerHeal,
}

// CueQueue collects cues raised during a tick, in the order they happened.
type CueQueue struct {
	cues []SoundCue
}

// Push appends c; CueNone is dropped.
func (q *CueQueue) Push(c SoundCue) {
	if q == nil || c == CueNone {
		return
	}
	q.cues = append(q.cues, c)
}

// Len returns the number of pending cues.
func (q *CueQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.cues)
}

// Drain returns the pending cues and empties the queue.
func (q *CueQueue) Drain() []SoundCue {
	if q == nil || len(q.cues) == 0 {
		return nil
	}
	out := make([]SoundCue, len(q.cues))
	copy(out, q.cues)
	q.cues = q.cues[:0]
	return out
}

// SoundSink plays cues.
type SoundSink interface {
	Play(c SoundCue)
}

// DispatchCues hands every cue to sink. A panicking sink is logged and the
// remaining cues are still delivered; the tick never sees the failure.
func DispatchCues(sink SoundSink, cues []SoundCue) {
	if sink == nil {
		return
	}
	for _, c := range cues {
		playCue(sink, c)
	}
}

func playCue(sink SoundSink, c SoundCue) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("sound sink failed", "cue", c, "panic", r)
		}
	}()
	sink.Play(c)
}
