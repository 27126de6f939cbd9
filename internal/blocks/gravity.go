package blocks

import "time"

// Gravity converts elapsed frame time into due gravity ticks.
// The board itself owns no timer; callers advance Gravity once per frame
// and call Board.Tick as many times as it reports.
type Gravity struct {
	acc time.Duration
}

// Advance adds dt and returns the number of whole intervals now due.
// A non-positive interval never fires.
func (g *Gravity) Advance(dt, interval time.Duration) int {
	if interval <= 0 {
		return 0
	}
	g.acc += dt
	n := int(g.acc / interval)
	g.acc -= time.Duration(n) * interval
	return n
}

// Reset drops any accumulated time.
func (g *Gravity) Reset() {
	g.acc = 0
}
