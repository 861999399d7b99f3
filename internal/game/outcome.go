package game

type SessionOutcome int

const (
	OutcomeInconclusive SessionOutcome = iota
	OutcomePlayerVictory
	OutcomePlayerDefeat
	OutcomeNoContest
)

func (o SessionOutcome) String() string {
	switch o {
	case OutcomePlayerVictory:
		return "player_victory"
	case OutcomePlayerDefeat:
		return "player_defeat"
	case OutcomeNoContest:
		return "no_contest"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type SessionOutcomeReason struct {
	Outcome        SessionOutcome
	PlayerAlive    bool
	PlayerHealth   float64
	EnemiesAlive   int
	EnemiesSpawned int
	Kills          int
	Deaths         int
	Description    string
}

// DetermineSessionOutcome classifies the current state of s. Deaths counts
// even when the player was resurrected later.
func DetermineSessionOutcome(s *Session) SessionOutcomeReason {
	st := s.Stats()
	alive := 0
	for _, e := range s.Enemies.Enemies() {
		if e.Alive() {
			alive++
		}
	}
	r := SessionOutcomeReason{
		PlayerAlive:    s.Player.Alive(),
		PlayerHealth:   s.Player.Health().Current(),
		EnemiesAlive:   alive,
		EnemiesSpawned: st.Spawned,
		Kills:          st.TotalKills(),
		Deaths:         st.Deaths,
	}

	switch {
	case st.Spawned == 0:
		r.Outcome, r.Description = OutcomeNoContest, "no_enemies_spawned"
	case !r.PlayerAlive && alive > 0:
		r.Outcome, r.Description = OutcomePlayerDefeat, "player_down_enemies_remain"
	case !r.PlayerAlive:
		r.Outcome, r.Description = OutcomePlayerDefeat, "player_down_field_cleared"
	case alive == 0 && st.Deaths == 0:
		r.Outcome, r.Description = OutcomePlayerVictory, "decisive_field_cleared_no_deaths"
	case alive == 0:
		r.Outcome, r.Description = OutcomePlayerVictory, "field_cleared_after_resurrection"
	case r.Kills*2 >= st.Spawned && s.Player.HealthPercent() >= 0.5:
		r.Outcome, r.Description = OutcomeInconclusive, "player_ahead"
	case r.Kills*2 >= st.Spawned:
		r.Outcome, r.Description = OutcomeInconclusive, "player_ahead_but_wounded"
	default:
		r.Outcome, r.Description = OutcomeInconclusive, "enemies_hold_field"
	}
	return r
}
