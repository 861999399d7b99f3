package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
	"github.com/charmbracelet/log"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstShotTick      int
	firstHitTick       int
	firstKillTick      int
	firstPlayerHitTick int
	playerDownTick     int
	firstExpiredTick   int

	soundCues          int
	enemyFailures      int
	projectileFailures int
	kindKills          map[string]int

	stats         game.SessionStats
	outcome       game.SessionOutcomeReason
	windowSummary *game.WindowReport
}

// scenario builds a fresh simulation for one seeded run.
type scenario struct {
	name  string
	about string
	build func(seed int64) *game.TestSim
}

var scenarios = []scenario{
	{"skirmish", "initial wave on the default map, pilot shoots the nearest enemy", buildSkirmish},
	{"boss", "lone boss on an open map, pilot circles and fires homing arrows", buildBoss},
}

const (
	pilotFireEvery = 20 // pilot trigger cadence in ticks
	sampleEvery    = 60 // reporter sampling interval in ticks
)

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenarioName string
	var logLevel string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenarioName, "scenario", "skirmish", "scenario name")
	flag.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Fatal("bad -log-level", "err", err)
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	sc, ok := findScenario(scenarioName)
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenarioName, scenarioNames())
		return
	}

	fmt.Printf("=== Headless Combat Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n", sc.name, runs, ticks, seedBase, seedStep)
	fmt.Printf("about: %s\n\n", sc.about)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenario(sc, i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func findScenario(name string) (scenario, bool) {
	for _, sc := range scenarios {
		if sc.name == name {
			return sc, true
		}
	}
	return scenario{}, false
}

func scenarioNames() string {
	names := make([]string, len(scenarios))
	for i, sc := range scenarios {
		names[i] = sc.name
	}
	return strings.Join(names, ", ")
}

func buildSkirmish(seed int64) *game.TestSim {
	return game.NewTestSim(
		game.WithSeed(seed),
		game.WithInitialWave(),
		game.WithPilot(nearestShooter),
	)
}

func buildBoss(seed int64) *game.TestSim {
	return game.NewTestSim(
		game.WithSeed(seed),
		game.WithMapSize(16, 16),
		game.WithPlayerAt(8, 8),
		game.WithEnemy(game.EnemyBoss, 12, 12),
		game.WithPilot(func(ts *game.TestSim) game.Input {
			ts.Session.SelectWeapon(1)
			in := nearestShooter(ts)
			// Circle the centre, one lap every ten seconds.
			a := float64(ts.CurrentTick()) / float64(game.TicksPerSecond*10) * 2 * math.Pi
			in.Move = game.VecFromAngle(a + math.Pi/2)
			return in
		}),
	)
}

// nearestShooter stands still and fires at the nearest live enemy.
func nearestShooter(ts *game.TestSim) game.Input {
	s := ts.Session
	var in game.Input
	if !s.Player.Alive() || ts.CurrentTick()%pilotFireEvery != 0 {
		return in
	}
	if e, ok := s.Enemies.Nearest(s.Player.Pos()); ok {
		in.Fire = true
		in.Aim = e.Pos()
	}
	return in
}

// runScenario runs one seeded simulation, sampling the reporter once a second.
func runScenario(sc scenario, runIndex int, seed int64, ticks int) runStats {
	ts := sc.build(seed)
	rep := game.NewCombatReporter(ticks)
	for done := 0; done < ticks; {
		step := min(sampleEvery, ticks-done)
		ts.RunTicks(step)
		done += step
		rep.Collect(ts.Session)
	}
	rs := collectRun(runIndex, seed, ts)
	rs.windowSummary = rep.WindowSummary()
	return rs
}

func collectRun(runIndex int, seed int64, ts *game.TestSim) runStats {
	entries := ts.SimLog.Entries()
	rs := runStats{
		runIndex:           runIndex,
		seed:               seed,
		ticks:              ts.CurrentTick(),
		firstShotTick:      firstTick(entries, "fire", "", "player"),
		firstHitTick:       firstTick(entries, "hit", "direct", ""),
		firstKillTick:      firstTick(entries, "death", "killed", "enemy"),
		firstPlayerHitTick: firstTick(entries, "health", "damage", "player"),
		playerDownTick:     firstTick(entries, "death", "killed", "player"),
		firstExpiredTick:   firstTick(entries, "projectile", "expired", ""),
		soundCues:          len(ts.Cues()),
		kindKills:          map[string]int{},
		stats:              ts.Session.Stats(),
		outcome:            game.DetermineSessionOutcome(ts.Session),
	}
	for _, e := range entries {
		if e.Category != "error" {
			continue
		}
		if strings.HasPrefix(e.Entity, "E") {
			rs.enemyFailures++
		} else {
			rs.projectileFailures++
		}
	}
	for k, n := range rs.stats.Kills {
		rs.kindKills[string(k)] = n
	}
	return rs
}

// firstTick returns the tick of the first entry matching category and key
// (an empty key matches any) whose side is side (empty matches any), or -1.
func firstTick(entries []game.SimLogEntry, category, key, side string) int {
	for _, e := range entries {
		if e.Category != category || (key != "" && e.Key != key) {
			continue
		}
		if side == "" || e.Side == side {
			return e.Tick
		}
	}
	return -1
}

func accuracy(st game.SessionStats) float64 {
	if st.PlayerShots == 0 {
		return 0
	}
	return float64(st.EnemyHits) / float64(st.PlayerShots) * 100
}

func printRun(rs runStats) {
	st := rs.stats
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_shot=%d first_hit=%d first_kill=%d first_player_hit=%d player_down=%d first_expired=%d\n",
		rs.firstShotTick, rs.firstHitTick, rs.firstKillTick, rs.firstPlayerHitTick, rs.playerDownTick, rs.firstExpiredTick)
	fmt.Printf("fire: player_shots=%d enemy_shots=%d accuracy=%.1f%%\n", st.PlayerShots, st.EnemyShots, accuracy(st))
	fmt.Printf("damage: enemy_hits=%d player_hits=%d contact_hits=%d damage_taken=%.0f deaths=%d\n",
		st.EnemyHits, st.PlayerHits, st.ContactHits, st.DamageTaken, st.Deaths)
	fmt.Printf("kills: total=%d of %d spawned [%s]\n", st.TotalKills(), st.Spawned, joinCounts(rs.kindKills))
	fmt.Printf("failures: enemy=%d projectile=%d  sound_cues=%d\n", rs.enemyFailures, rs.projectileFailures, rs.soundCues)
	fmt.Printf("outcome: %s (%s) player_hp=%.0f enemies_alive=%d\n",
		rs.outcome.Outcome, rs.outcome.Description, rs.outcome.PlayerHealth, rs.outcome.EnemiesAlive)
	if ws := rs.windowSummary; ws != nil {
		fmt.Printf("window_samples=%d window_tick_range=%d..%d\n", ws.SampleCount, ws.FromTick, ws.ToTick)
		fmt.Printf("window_avg: player_hp=%.1f min_hp=%.1f enemies_alive=%.1f projectiles=%.1f threats=%.2f\n",
			ws.AvgPlayerHealth, ws.MinPlayerHealth, ws.AvgEnemiesAlive, ws.AvgProjectiles, ws.AvgThreats)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	var shots, enemyShots, hits, playerHits, contacts, kills, spawned, deaths int
	var damage float64
	var killTicks, downTicks, hitTicks []int
	outcomes := map[string]int{}
	kindKills := map[string]int{}

	for _, rs := range all {
		st := rs.stats
		shots += st.PlayerShots
		enemyShots += st.EnemyShots
		hits += st.EnemyHits
		playerHits += st.PlayerHits
		contacts += st.ContactHits
		kills += st.TotalKills()
		spawned += st.Spawned
		deaths += st.Deaths
		damage += st.DamageTaken
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.playerDownTick >= 0 {
			downTicks = append(downTicks, rs.playerDownTick)
		}
		if rs.firstPlayerHitTick >= 0 {
			hitTicks = append(hitTicks, rs.firstPlayerHitTick)
		}
		outcomes[rs.outcome.Outcome.String()]++
		for k, n := range rs.kindKills {
			kindKills[k] += n
		}
	}

	n := len(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", n)
	fmt.Printf("avg_fire_per_run: player_shots=%.1f enemy_shots=%.1f\n", avg(shots, n), avg(enemyShots, n))
	fmt.Printf("avg_hits_per_run: enemy_hits=%.1f player_hits=%.1f contact_hits=%.1f\n",
		avg(hits, n), avg(playerHits, n), avg(contacts, n))
	fmt.Printf("avg_damage_taken=%.1f avg_deaths=%.2f\n", damage/float64(n), avg(deaths, n))
	fmt.Printf("kill_rate=%s overall_accuracy=%s\n", pct(kills, spawned), pct(hits, shots))
	fmt.Printf("kills_by_kind: [%s]\n", joinCounts(kindKills))
	fmt.Printf("phase_marker_avg_ticks: first_kill=%s first_player_hit=%s player_down=%s\n",
		avgTickString(killTicks), avgTickString(hitTicks), avgTickString(downTicks))
	fmt.Printf("outcomes: [%s]\n", joinCounts(outcomes))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(part, whole int) string {
	if whole <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// joinCounts formats counts as "k=n" pairs sorted by key.
func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
