package blocks

import "testing"

func TestShapeRotationNormalized(t *testing.T) {
	for _, k := range AllKinds {
		for r := 0; r < 4; r++ {
			if Shape(k, r) != Shape(k, r+4) {
				t.Errorf("%v: rotation %d differs from %d", k, r, r+4)
			}
			if Shape(k, r) != Shape(k, r-4) {
				t.Errorf("%v: rotation %d differs from %d", k, r, r-4)
			}
		}
	}
	if NormalizeRotation(-1) != 3 || NormalizeRotation(7) != 3 {
		t.Error("NormalizeRotation should wrap both ways")
	}
}

func TestShapesHaveFourConnectedCells(t *testing.T) {
	for _, k := range AllKinds {
		for r := 0; r < 4; r++ {
			cells := Shape(k, r)
			seen := make(map[Cell]bool)
			for _, c := range cells {
				if seen[c] {
					t.Fatalf("%v rot %d: duplicate cell %v", k, r, c)
				}
				seen[c] = true
			}

			// flood fill from the first cell
			reached := map[Cell]bool{cells[0]: true}
			stack := []Cell{cells[0]}
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range []Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					n := c.Add(d)
					if seen[n] && !reached[n] {
						reached[n] = true
						stack = append(stack, n)
					}
				}
			}
			if len(reached) != 4 {
				t.Errorf("%v rot %d: cells not connected: %v", k, r, cells)
			}
		}
	}
}

func TestFourRotationsReturnToStart(t *testing.T) {
	b := NewBoard(DefaultConfig(), NewScriptedSource(Bag{KindT, KindI, KindO, KindS, KindZ, KindJ, KindL}), 1)
	b.Initialize()
	b.TryMove(0, -5)
	start, _ := b.Active()

	for i := 0; i < 4; i++ {
		if !b.RotateCW() {
			t.Fatalf("rotation %d failed in open space", i)
		}
	}
	end, _ := b.Active()
	if end != start {
		t.Errorf("after four CW rotations got %+v, expected %+v", end, start)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("X"); ok {
		t.Error("ParseKind should reject unknown names")
	}
}

func TestSpawnAnchor(t *testing.T) {
	tests := []struct {
		kind PieceKind
		want Cell
	}{
		{KindI, Cell{4, 19}},
		{KindO, Cell{4, 19}},
		{KindT, Cell{5, 19}},
		{KindS, Cell{5, 19}},
		{KindL, Cell{5, 19}},
	}
	for _, tt := range tests {
		if got := SpawnAnchor(tt.kind, 10, 20); got != tt.want {
			t.Errorf("SpawnAnchor(%v) = %v, expected %v", tt.kind, got, tt.want)
		}
	}
}
