package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLog() *SimLog {
	sl := NewSimLog(false)
	sl.Add(1, "P", "player", "fire", "bullet", "S1 from (0.00,0.00)", 25)
	sl.Add(3, "E1", "enemy", "hit", "direct", "struck by player fire", 0)
	sl.Add(3, "E1", "enemy", "health", "damage", "basic 50 → 25", 25)
	sl.Add(9, "E1", "enemy", "health", "damage", "basic 25 → 0", 25)
	sl.Add(9, "E1", "enemy", "death", "killed", "basic", 0)
	sl.AddVerbose(9, "P", "player", "move", "position", "(0.00,0.00)", 0)
	return sl
}

func TestSimLog_FilterAndCount(t *testing.T) {
	sl := sampleLog()
	assert.Len(t, sl.Entries(), 5, "verbose entries are dropped")
	assert.Equal(t, 2, sl.CountCategory("health", "damage"))
	assert.Equal(t, 2, sl.CountCategory("health", ""))
	assert.Len(t, sl.Filter("", ""), 5)
	assert.Len(t, sl.FilterEntity("E1"), 4)
	assert.Len(t, sl.FilterTickRange(3, 3), 2)

	last, ok := sl.LastOf("health", "damage")
	require.True(t, ok)
	assert.Equal(t, 9, last.Tick)
	_, ok = sl.LastOf("contact", "hit")
	assert.False(t, ok)
}

func TestSimLog_HasEntry(t *testing.T) {
	sl := sampleLog()
	assert.True(t, sl.HasEntry("death", "killed", "basic"))
	assert.True(t, sl.HasEntry("health", "", "→ 0"))
	assert.False(t, sl.HasEntry("death", "killed", "boss"))
}

func TestSimLog_VerboseAndFormat(t *testing.T) {
	sl := NewSimLog(true)
	sl.AddVerbose(2, "E4", "enemy", "move", "position", "(1.00,2.00)", 0)
	require.Len(t, sl.Entries(), 1)

	line := sl.Entries()[0].String()
	assert.True(t, strings.HasPrefix(line, "[T=002] E4"), line)
	assert.Contains(t, line, "(1.00,2.00)")

	out := sampleLog().FormatRange(9, 9)
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, sampleLog().Format(), "fire")
}

func TestSimLog_Summary(t *testing.T) {
	s, err := NewSession(SessionConfig{Seed: 1})
	require.NoError(t, err)
	_, err = s.SpawnAt(EnemyTank, GridPos{X: 3})
	require.NoError(t, err)

	out := NewSimLog(false).Summary(s)
	assert.Contains(t, out, "Player: alive")
	assert.Contains(t, out, "tank=1")
	assert.Contains(t, out, "weapon=bullet")
	assert.Contains(t, out, "Projectiles: total=0")
}
