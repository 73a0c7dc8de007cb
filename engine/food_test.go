package engine

import (
	"math/rand/v2"
	"testing"
)

// TestPlaceFoodAvoidsSnake verifies sampled cells never land on the body
func TestPlaceFoodAvoidsSnake(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	grid := Grid{Cols: 6, Rows: 6}
	snake := []Position{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {5, 1}, {4, 1}}

	for i := 0; i < 500; i++ {
		pos, full := placeFood(rng, grid, snake)
		if full {
			t.Fatal("Expected free cells to be found")
		}
		for _, p := range snake {
			if p == pos {
				t.Fatalf("Expected food off the snake, got %v", pos)
			}
		}
		if !grid.Contains(pos) {
			t.Fatalf("Expected food inside grid, got %v", pos)
		}
	}
}

// TestPlaceFoodFindsLastFreeCell verifies the single remaining cell is always found
func TestPlaceFoodFindsLastFreeCell(t *testing.T) {
	grid := Grid{Cols: 3, Rows: 3}
	var snake []Position
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x == 2 && y == 1 {
				continue
			}
			snake = append(snake, Position{x, y})
		}
	}

	for seed := uint64(0); seed < 20; seed++ {
		pos, full := placeFood(rand.New(rand.NewPCG(seed, seed)), grid, snake)
		if full {
			t.Fatalf("seed %d: expected a free cell", seed)
		}
		if pos != (Position{2, 1}) {
			t.Errorf("seed %d: expected (2,1), got %v", seed, pos)
		}
	}
}

// TestPlaceFoodFullBoard verifies saturation terminates and is reported
func TestPlaceFoodFullBoard(t *testing.T) {
	grid := Grid{Cols: 2, Rows: 2}
	snake := []Position{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	pos, full := placeFood(testRand(), grid, snake)
	if !full {
		t.Error("Expected full board to be reported")
	}
	if !grid.Contains(pos) {
		t.Errorf("Expected fallback food inside grid, got %v", pos)
	}
}

// TestPlaceFoodScanIsRowMajor verifies the fallback scan order
func TestPlaceFoodScanIsRowMajor(t *testing.T) {
	// Every draw lands on (0,0), which is occupied, so sampling always fails
	rng := rand.New(lowSource{})
	grid := Grid{Cols: 3, Rows: 3}

	tests := []struct {
		snake    []Position
		expected Position
	}{
		{[]Position{{0, 0}}, Position{1, 0}},
		{[]Position{{0, 0}, {1, 0}}, Position{2, 0}},
		{[]Position{{0, 0}, {1, 0}, {2, 0}}, Position{0, 1}},
	}

	for _, tt := range tests {
		pos, full := placeFood(rng, grid, tt.snake)
		if full {
			t.Fatalf("snake %v: expected free cell", tt.snake)
		}
		if pos != tt.expected {
			t.Errorf("snake %v: expected %v, got %v", tt.snake, tt.expected, pos)
		}
	}
}

// lowSource always returns 1, so IntN(n) yields 0 for any n that is not a power of two
type lowSource struct{}

func (lowSource) Uint64() uint64 { return 1 }
