package engine

import (
	"slices"
	"testing"

	"hobbyte/internal/models"
)

// scriptedRandom replays fixed values and fails the test on any extra draw
type scriptedRandom struct {
	t      *testing.T
	values []int
}

func (s *scriptedRandom) IntN(n int) int {
	s.t.Helper()
	if len(s.values) == 0 {
		s.t.Fatalf("unexpected random draw IntN(%d)", n)
	}
	v := s.values[0]
	s.values = s.values[1:]
	if v < 0 || v >= n {
		s.t.Fatalf("scripted value %d out of range for IntN(%d)", v, n)
	}
	return v
}

func script(t *testing.T, values ...int) *scriptedRandom {
	return &scriptedRandom{t: t, values: values}
}

func TestGenerateCells(t *testing.T) {
	sizes := []struct{ rows, cols int }{
		{1, 1}, {1, 7}, {4, 5}, {10, 10}, {3, 17},
	}

	for _, size := range sizes {
		cells, err := GenerateCells(size.rows, size.cols, DefaultRandom)
		if err != nil {
			t.Fatalf("GenerateCells(%d, %d) error = %v", size.rows, size.cols, err)
		}
		if len(cells) != size.rows*size.cols {
			t.Fatalf("GenerateCells(%d, %d) returned %d cells", size.rows, size.cols, len(cells))
		}

		seen := make(map[[2]int]bool)
		for _, c := range cells {
			pos := [2]int{c.X, c.Y}
			if seen[pos] {
				t.Errorf("duplicate position %v", pos)
			}
			seen[pos] = true

			if c.X < 0 || c.X >= size.rows || c.Y < 0 || c.Y >= size.cols {
				t.Errorf("position %v outside %dx%d board", pos, size.rows, size.cols)
			}
			if !c.Type.Valid() {
				t.Errorf("cell %v has invalid type %d", pos, c.Type)
			}
			if !slices.Contains(EffortValues, c.Effort) {
				t.Errorf("cell %v has effort %d outside the value set", pos, c.Effort)
			}
			if c.Status != models.CellHidden {
				t.Errorf("cell %v starts as %q", pos, c.Status)
			}
		}
	}
}

func TestGenerateCellsInvalidDimensions(t *testing.T) {
	tests := []struct{ rows, cols int }{
		{0, 5}, {4, 0}, {-1, 3},
	}
	for _, tt := range tests {
		if _, err := GenerateCells(tt.rows, tt.cols, DefaultRandom); err != ErrInvalidDimensions {
			t.Errorf("GenerateCells(%d, %d) error = %v, want ErrInvalidDimensions", tt.rows, tt.cols, err)
		}
	}
}

func TestCellEffortBands(t *testing.T) {
	tests := []struct {
		name   string
		draws  []int
		effort int
	}{
		{"low band first", []int{0, 0}, 5},
		{"low band last", []int{64, 3}, 20},
		{"mid band first", []int{65, 0}, 25},
		{"mid band last", []int{94, 3}, 40},
		{"high band first", []int{95, 0}, 45},
		{"high band last", []int{99, 1}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellEffort(script(t, tt.draws...)); got != tt.effort {
				t.Errorf("CellEffort() = %d, want %d", got, tt.effort)
			}
		})
	}
}

func TestCellEffortDistribution(t *testing.T) {
	const draws = 20000
	var low, mid, high int
	for i := 0; i < draws; i++ {
		switch e := CellEffort(DefaultRandom); {
		case e <= 20:
			low++
		case e <= 40:
			mid++
		default:
			high++
		}
	}

	check := func(name string, count int, want float64) {
		got := float64(count) / draws
		if got < want-0.03 || got > want+0.03 {
			t.Errorf("%s band share = %.3f, want about %.2f", name, got, want)
		}
	}
	check("low", low, 0.65)
	check("mid", mid, 0.30)
	check("high", high, 0.05)
}

func TestCellType(t *testing.T) {
	for draw, want := range []models.HeroType{models.HeroMagic, models.HeroStrength, models.HeroSkill} {
		if got := CellType(script(t, draw)); got != want {
			t.Errorf("CellType(draw %d) = %d, want %d", draw, got, want)
		}
	}
}

func TestRoster(t *testing.T) {
	heroes := Roster()
	if len(heroes) != 3 {
		t.Fatalf("Roster() returned %d heroes, want 3", len(heroes))
	}

	types := make(map[models.HeroType]bool)
	for _, h := range heroes {
		types[h.Type] = true
		if h.MaxPower != StartingPower || h.Power != StartingPower {
			t.Errorf("%s power = %d/%d, want %d/%d", h.Name, h.Power, h.MaxPower, StartingPower, StartingPower)
		}
		if !h.Alive {
			t.Errorf("%s starts inactive", h.Name)
		}
	}
	if len(types) != 3 {
		t.Errorf("Roster() covers %d types, want 3", len(types))
	}
}
