// Package bounds estimates the height range that the search has to cover.
//
// The lower bound is the area bound ⌊Σ wᵢhᵢ / W⌋; the upper bound is the
// height of a greedy shelf packing. Both are cheap and the shelf packing is
// always feasible, so the optimum lies in [max(Lower, Tallest), Upper].
package bounds

import (
	"sort"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
)

// Bounds is the estimated height range of an instance.
type Bounds struct {
	Lower   int `json:"lower" bson:"lower"`
	Upper   int `json:"upper" bson:"upper"`
	Tallest int `json:"tallest" bson:"tallest"`
}

// Floor is the smallest height worth trying: no packing can be lower than
// the area bound or than its tallest module.
func (b Bounds) Floor() int {
	if b.Tallest > b.Lower {
		return b.Tallest
	}
	return b.Lower
}

// Range returns the inclusive height range [Floor, Upper].
func (b Bounds) Range() (lo, hi int) {
	return b.Floor(), b.Upper
}

// Compute orients every module to fit the board width and derives all bounds.
// A module that is wider than the board in every allowed orientation yields
// an ENCODING_ERROR.
func Compute(in *instance.Instance, rotation bool) (Bounds, error) {
	mods, err := Orient(in, rotation)
	if err != nil {
		return Bounds{}, err
	}
	tallest := 0
	for i, m := range in.Modules {
		h := MinHeight(m, in.Width, rotation)
		if h < 0 {
			return Bounds{}, errors.New(errors.ErrCodeEncoding, "module %d (%dx%d) does not fit board width %d", i, m.Width, m.Height, in.Width)
		}
		if h > tallest {
			tallest = h
		}
	}
	return Bounds{
		Lower:   AreaLowerBound(in),
		Upper:   GreedyUpperBound(in.Width, mods),
		Tallest: tallest,
	}, nil
}

// AreaLowerBound returns ⌊Σ wᵢhᵢ / W⌋.
func AreaLowerBound(in *instance.Instance) int {
	return in.TotalArea() / in.Width
}

// MinHeight is the lowest height a module can occupy on a board of the given
// width, or -1 when it fits in no allowed orientation.
func MinHeight(m instance.Module, width int, rotation bool) int {
	best := -1
	if m.Width <= width {
		best = m.Height
	}
	if rotation && m.Height <= width && (best < 0 || m.Width < best) {
		best = m.Width
	}
	return best
}

// Orient returns the modules turned so that each fits the board width,
// rotating only when rotation is allowed and the module is too wide.
func Orient(in *instance.Instance, rotation bool) ([]instance.Module, error) {
	out := make([]instance.Module, len(in.Modules))
	for i, m := range in.Modules {
		switch {
		case m.Width <= in.Width:
			out[i] = m
		case rotation && m.Height <= in.Width:
			out[i] = m.Rotated()
		default:
			return nil, errors.New(errors.ErrCodeEncoding, "module %d (%dx%d) does not fit board width %d", i, m.Width, m.Height, in.Width)
		}
	}
	return out, nil
}

// GreedyUpperBound packs the modules into shelves, tallest first, and returns
// the summed shelf height. Every module must already fit the board width.
func GreedyUpperBound(width int, mods []instance.Module) int {
	sorted := make([]instance.Module, len(mods))
	copy(sorted, mods)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Height != sorted[j].Height {
			return sorted[i].Height > sorted[j].Height
		}
		return sorted[i].Width > sorted[j].Width
	})

	total, used := 0, 0
	shelfOpen := false
	for _, m := range sorted {
		if shelfOpen && used+m.Width > width {
			shelfOpen = false
		}
		if !shelfOpen {
			// the first module on a shelf is its tallest
			total += m.Height
			used = 0
			shelfOpen = true
		}
		used += m.Width
	}
	return total
}
