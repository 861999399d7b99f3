package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a headless simulation.
type SimLogEntry struct {
	Tick     int
	Entity   string  // "P", "E3", "S12" (projectile), or "--" for global events
	Side     string  // "player", "enemy", or "--"
	Category string  // spawn, fire, hit, contact, death, health, sound, move, error
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] E3   fire      enemyBullet      toward (0.0,0.0)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Entity, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a headless simulation. It is
// unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position and
// health entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, entity, side, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Entity:   entity,
		Side:     side,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, entity, side, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, entity, side, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// match selects entries for the query helpers below.
type match func(SimLogEntry) bool

// is matches category and key; an empty string matches anything.
func is(category, key string) match {
	return func(e SimLogEntry) bool {
		return (category == "" || e.Category == category) && (key == "" || e.Key == key)
	}
}

func (sl *SimLog) find(m match) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if m(e) {
			out = append(out, e)
		}
	}
	return out
}

// Filter returns entries matching category and key. Empty matches anything.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.find(is(category, key))
}

// FilterEntity returns entries for one entity label.
func (sl *SimLog) FilterEntity(label string) []SimLogEntry {
	return sl.find(func(e SimLogEntry) bool { return e.Entity == label })
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	return sl.find(func(e SimLogEntry) bool { return e.Tick >= fromTick && e.Tick <= toTick })
}

// CountCategory returns how many entries match category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category and key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if is(category, key)(sl.entries[i]) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether an entry matches category, key and a value
// substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	want := is(category, key)
	for _, e := range sl.entries {
		if want(e) && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	return formatEntries(sl.entries)
}

// FormatRange returns the log filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of a session.
func (sl *SimLog) Summary(s *Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", s.Tick())

	hi := s.Player.HealthInfo()
	state := "alive"
	if !hi.Alive {
		state = "down"
	}
	fmt.Fprintf(&sb, "Player: %s  hp=%.0f/%.0f  at (%.2f,%.2f)  weapon=%s\n",
		state, hi.Current, hi.Max, s.Player.Pos().X, s.Player.Pos().Y, s.Weapon())

	byKind := map[EnemyKind]int{}
	for _, e := range s.Enemies.Enemies() {
		if e.Alive() {
			byKind[e.Kind]++
		}
	}
	sb.WriteString("Enemies alive: ")
	if len(byKind) == 0 {
		sb.WriteString("none")
	}
	for _, k := range AllEnemyKinds {
		if n := byKind[k]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", k, n)
		}
	}
	sb.WriteByte('\n')

	st := s.Stats()
	fmt.Fprintf(&sb, "Shots: player=%d enemy=%d  Hits: enemy=%d player=%d contact=%d  Kills=%d\n",
		st.PlayerShots, st.EnemyShots, st.EnemyHits, st.PlayerHits, st.ContactHits, st.TotalKills())
	if s.Projectiles != nil {
		ps := s.Projectiles.Stats()
		fmt.Fprintf(&sb, "Projectiles: total=%d active=%d destroyed=%d\n", ps.Total, ps.Active, ps.Destroyed)
	}
	return sb.String()
}
