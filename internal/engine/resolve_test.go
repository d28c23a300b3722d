package engine

import (
	"testing"

	"hobbyte/internal/models"
)

func TestSuccessProbability(t *testing.T) {
	tests := []struct {
		power, effort, want int
	}{
		{50, 20, 90},
		{21, 20, 90},
		{20, 20, 70},
		{50, 50, 70},
		{19, 20, 50},
		{0, 5, 50},
	}

	for _, tt := range tests {
		if got := SuccessProbability(tt.power, tt.effort); got != tt.want {
			t.Errorf("SuccessProbability(%d, %d) = %d, want %d", tt.power, tt.effort, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		hero        models.Hero
		effort      int
		draws       []int
		outcome     models.Outcome
		probability int
		roll        int
		powerAfter  int
		alive       bool
	}{
		{
			name:        "strong hero succeeds",
			hero:        models.Hero{Power: 50, Alive: true},
			effort:      20,
			draws:       []int{89},
			outcome:     models.OutcomeSuccess,
			probability: 90,
			roll:        90,
			powerAfter:  30,
			alive:       true,
		},
		{
			name:        "strong hero fails above probability",
			hero:        models.Hero{Power: 50, Alive: true},
			effort:      20,
			draws:       []int{90},
			outcome:     models.OutcomeFailedAttempt,
			probability: 90,
			roll:        91,
			powerAfter:  0,
			alive:       false,
		},
		{
			name:        "equal power spends everything",
			hero:        models.Hero{Power: 35, Alive: true},
			effort:      35,
			draws:       []int{69},
			outcome:     models.OutcomeSuccess,
			probability: 70,
			roll:        70,
			powerAfter:  0,
			alive:       true,
		},
		{
			name:        "weak hero success floors at zero",
			hero:        models.Hero{Power: 10, Alive: true},
			effort:      45,
			draws:       []int{0},
			outcome:     models.OutcomeSuccess,
			probability: 50,
			roll:        1,
			powerAfter:  0,
			alive:       true,
		},
		{
			name:        "weak hero fails",
			hero:        models.Hero{Power: 10, Alive: true},
			effort:      45,
			draws:       []int{50},
			outcome:     models.OutcomeFailedAttempt,
			probability: 50,
			roll:        51,
			powerAfter:  0,
			alive:       false,
		},
		{
			name:        "inactive hero never rolls",
			hero:        models.Hero{Power: 0, Alive: false},
			effort:      5,
			outcome:     models.OutcomeFailureNoPower,
			probability: NoPowerProbability,
			powerAfter:  0,
			alive:       false,
		},
		{
			name:        "drained hero never rolls",
			hero:        models.Hero{Power: 0, Alive: true},
			effort:      5,
			outcome:     models.OutcomeFailureNoPower,
			probability: NoPowerProbability,
			powerAfter:  0,
			alive:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.hero, models.Cell{Effort: tt.effort}, script(t, tt.draws...))

			if res.Outcome != tt.outcome {
				t.Errorf("Outcome = %q, want %q", res.Outcome, tt.outcome)
			}
			if res.Probability != tt.probability {
				t.Errorf("Probability = %d, want %d", res.Probability, tt.probability)
			}
			if res.Roll != tt.roll {
				t.Errorf("Roll = %d, want %d", res.Roll, tt.roll)
			}
			if res.PowerBefore != tt.hero.Power {
				t.Errorf("PowerBefore = %d, want %d", res.PowerBefore, tt.hero.Power)
			}
			if res.PowerAfter != tt.powerAfter {
				t.Errorf("PowerAfter = %d, want %d", res.PowerAfter, tt.powerAfter)
			}
			if res.Alive != tt.alive {
				t.Errorf("Alive = %v, want %v", res.Alive, tt.alive)
			}
			if res.PowerAfter < 0 {
				t.Errorf("PowerAfter went negative: %d", res.PowerAfter)
			}
		})
	}
}

func TestResolveApply(t *testing.T) {
	hero := models.Hero{Power: 50, Alive: true}
	res := Resolve(hero, models.Cell{Effort: 20}, script(t, 95))
	res.Apply(&hero)

	if hero.Alive || hero.Power != 0 {
		t.Fatalf("hero after failure = %+v, want drained and inactive", hero)
	}

	// Every later reveal for this hero fails without rolling
	for i := 0; i < 3; i++ {
		next := Resolve(hero, models.Cell{Effort: 5}, script(t))
		if next.Outcome != models.OutcomeFailureNoPower || next.Rolled() {
			t.Fatalf("reveal %d after failure = %+v, want failure without roll", i, next)
		}
	}
}

func TestNextLossStreak(t *testing.T) {
	tests := []struct {
		current int
		success bool
		want    int
	}{
		{0, true, 0},
		{4, true, 0},
		{0, false, 1},
		{4, false, 5},
	}

	for _, tt := range tests {
		if got := NextLossStreak(tt.current, tt.success); got != tt.want {
			t.Errorf("NextLossStreak(%d, %v) = %d, want %d", tt.current, tt.success, got, tt.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		tally Tally
		want  models.GameStatus
	}{
		{
			name:  "fresh game continues",
			tally: Tally{LossStreak: 0, AliveHeroes: 3, Revealed: 1, Total: 20},
			want:  models.GameInProgress,
		},
		{
			name:  "streak of five loses",
			tally: Tally{LossStreak: 5, AliveHeroes: 2, Revealed: 5, Total: 20},
			want:  models.GameLost,
		},
		{
			name:  "no heroes left loses",
			tally: Tally{LossStreak: 1, AliveHeroes: 0, Revealed: 3, Total: 20},
			want:  models.GameLost,
		},
		{
			name:  "half the board wins",
			tally: Tally{LossStreak: 0, AliveHeroes: 1, Revealed: 10, Total: 20},
			want:  models.GameWon,
		},
		{
			name:  "odd board rounds up",
			tally: Tally{LossStreak: 0, AliveHeroes: 1, Revealed: 2, Total: 5},
			want:  models.GameInProgress,
		},
		{
			name:  "odd board threshold reached",
			tally: Tally{LossStreak: 0, AliveHeroes: 1, Revealed: 3, Total: 5},
			want:  models.GameWon,
		},
		{
			name:  "loss takes precedence over win",
			tally: Tally{LossStreak: 5, AliveHeroes: 2, Revealed: 10, Total: 20},
			want:  models.GameLost,
		},
		{
			name:  "wipe takes precedence over win",
			tally: Tally{LossStreak: 2, AliveHeroes: 0, Revealed: 10, Total: 20},
			want:  models.GameLost,
		},
		{
			name:  "single cell board",
			tally: Tally{LossStreak: 0, AliveHeroes: 3, Revealed: 1, Total: 1},
			want:  models.GameWon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.tally); got != tt.want {
				t.Errorf("Evaluate(%+v) = %q, want %q", tt.tally, got, tt.want)
			}
		})
	}
}

func TestWinThreshold(t *testing.T) {
	tests := map[int]int{1: 1, 2: 1, 5: 3, 20: 10, 21: 11}
	for total, want := range tests {
		if got := WinThreshold(total); got != want {
			t.Errorf("WinThreshold(%d) = %d, want %d", total, got, want)
		}
	}
}
