package finder

// Radius bounds, in cells.
const (
	MinRadius     = 8
	MaxRadius     = 128
	RadiusStep    = 8
	DefaultRadius = 24
)

// ClampRadius snaps r down to a multiple of RadiusStep and clamps it to
// [MinRadius, MaxRadius].
func ClampRadius(r int) int {
	r -= r % RadiusStep
	if r < MinRadius {
		return MinRadius
	}
	if r > MaxRadius {
		return MaxRadius
	}
	return r
}

// QueryState is everything a refresh depends on besides the world and the
// favorites set.
type QueryState struct {
	Radius int
	Filter string
	Group  GroupMode
	Sort   SortMode
}

// Normalized returns q with the radius clamped.
func (q QueryState) Normalized() QueryState {
	q.Radius = ClampRadius(q.Radius)
	return q
}

// Preferences are the last used modes, shared by every session in the
// process so that a reopened finder starts where the previous one stopped.
type Preferences struct {
	Group GroupMode
	Sort  SortMode
}
