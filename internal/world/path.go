package world

// Reachable expands breadth-first from start through unoccupied tiles, up to
// budget/stepCost steps. Occupied tiles met on the frontier are reported as
// blocking instead of being expanded. The origin is never reachable.
// Both slices are in discovery order.
func Reachable(g *Grid, start Coord, budget, stepCost int) (reachable, blocking []Coord) {
	maxSteps := g.Width * g.Height
	if stepCost > 0 {
		maxSteps = budget / stepCost
	}
	if maxSteps <= 0 || !g.InBounds(start) {
		return nil, nil
	}

	type node struct {
		pos  Coord
		dist int
	}

	visited := map[Coord]bool{start: true}
	blocked := map[Coord]bool{}
	queue := []node{{pos: start}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.pos != start {
			reachable = append(reachable, cur.pos)
		}
		if cur.dist >= maxSteps {
			continue
		}

		for _, d := range Directions {
			next := cur.pos.Step(d, 1)
			if visited[next] {
				continue
			}
			t := g.Get(next)
			if t == nil {
				continue
			}
			if t.IsOccupied() {
				if !blocked[next] {
					blocked[next] = true
					blocking = append(blocking, next)
				}
				continue
			}
			visited[next] = true
			queue = append(queue, node{pos: next, dist: cur.dist + 1})
		}
	}

	return reachable, blocking
}

// FindPath returns the breadth-first route from start to end through
// unoccupied tiles, excluding start and including the destination.
// If end cannot be reached the route leads to the explored tile closest to
// end in straight-line distance; an empty route means no tile was closer
// than start.
func FindPath(g *Grid, start, end Coord) []Coord {
	if !g.InBounds(start) {
		return nil
	}

	cameFrom := map[Coord]Coord{start: start}
	queue := []Coord{start}

	best := start
	bestDist := start.Distance(end)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if d := cur.Distance(end); d < bestDist {
			bestDist = d
			best = cur
		}
		if cur == end {
			break
		}

		for _, dir := range Directions {
			next := cur.Step(dir, 1)
			if _, seen := cameFrom[next]; seen {
				continue
			}
			if !g.IsFree(next) {
				continue
			}
			cameFrom[next] = cur
			queue = append(queue, next)
		}
	}

	dest := best
	if _, ok := cameFrom[end]; ok {
		dest = end
	}

	var path []Coord
	for cur := dest; cur != start; cur = cameFrom[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
