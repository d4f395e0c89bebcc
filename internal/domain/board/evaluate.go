package board

// StableDiscs returns a histogram of p's discs reachable from the corners,
// bucketed by how many of the four axes they are stable along. Bucket 4 holds
// the fully stable discs; only those spread stability to their neighbours.
func (b *Board) StableDiscs(p Cell) [5]int {
	var (
		counts  [5]int
		stable  [Size][Size]bool
		visited [Size][Size]bool
	)

	queue := make([]Action, 0, Cells)
	for _, corner := range [4]Action{{0, 0}, {0, Size - 1}, {Size - 1, 0}, {Size - 1, Size - 1}} {
		queue = append(queue, corner)
		visited[corner.Row][corner.Col] = true
	}

	push := func(r, c int) {
		if !visited[r][c] {
			visited[r][c] = true
			queue = append(queue, Action{Row: r, Col: c})
		}
	}

	for head := 0; head < len(queue); head++ {
		r, c := queue[head].Row, queue[head].Col
		if b.cells[r][c] != p {
			continue
		}

		left, right := c > 0, c < Size-1
		up, down := r > 0, r < Size-1
		upLeft, downRight := up && left, down && right
		downLeft, upRight := down && left, up && right

		axes := 0
		if (!left || stable[r][c-1]) || (!right || stable[r][c+1]) {
			axes++
		}
		if (!up || stable[r-1][c]) || (!down || stable[r+1][c]) {
			axes++
		}
		if (!upLeft || stable[r-1][c-1]) || (!downRight || stable[r+1][c+1]) {
			axes++
		}
		if (!downLeft || stable[r+1][c-1]) || (!upRight || stable[r-1][c+1]) {
			axes++
		}
		counts[axes]++

		if axes != 4 {
			continue
		}
		stable[r][c] = true

		// Orthogonal neighbours go in before diagonal ones.
		if left {
			push(r, c-1)
		}
		if right {
			push(r, c+1)
		}
		if up {
			push(r-1, c)
		}
		if down {
			push(r+1, c)
		}
		if upLeft {
			push(r-1, c-1)
		}
		if downLeft {
			push(r+1, c-1)
		}
		if downRight {
			push(r+1, c+1)
		}
		if upRight {
			push(r-1, c+1)
		}
	}
	return counts
}

// Evaluate scores the position for the bound role. Terminal and intermediate
// positions use the same function.
func (b *Board) Evaluate() float64 {
	opp := b.role.Opponent()

	moveDiff := float64(b.moveCount(b.role) - b.moveCount(opp))
	playerStable := b.StableDiscs(b.role)
	opponentStable := b.StableDiscs(opp)

	h1 := 2.0*float64(playerStable[4]+(56-opponentStable[4])) +
		(b.playerWorth - b.opponentWorth) +
		moveDiff
	h2 := max(2.5*moveDiff, 2.5*float64(b.playerTiles-b.opponentTiles))
	return max(h1, h2)
}
