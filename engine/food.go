package engine

import (
	"math/rand/v2"

	"github.com/lixenwraith/bugsnake/constants"
)

// placeFood picks a cell not covered by the snake
// Rejection sampling first, then a row-major scan; full reports a saturated board,
// in which case the returned cell is random and may be occupied
func placeFood(rng *rand.Rand, grid Grid, snake []Position) (pos Position, full bool) {
	occupied := make(map[Position]struct{}, len(snake))
	for _, p := range snake {
		occupied[p] = struct{}{}
	}

	for range constants.MaxFoodAttempts {
		pos = randomCell(rng, grid)
		if _, hit := occupied[pos]; !hit {
			return pos, false
		}
	}

	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			pos = Position{X: x, Y: y}
			if _, hit := occupied[pos]; !hit {
				return pos, false
			}
		}
	}

	return randomCell(rng, grid), true
}

func randomCell(rng *rand.Rand, grid Grid) Position {
	return Position{X: rng.IntN(grid.Cols), Y: rng.IntN(grid.Rows)}
}
