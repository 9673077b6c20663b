package adapter

import (
	"context"
	"fmt"
)

// SearchTier is one attempt in a search fallback chain.
type SearchTier struct {
	Name      string
	SalaryMin int // zero omits the salary filter
}

// FallbackPolicy is an ordered list of tiers. Each tier is tried only after
// the previous one completed with no results; tiers never run in parallel.
type FallbackPolicy struct {
	Tiers []SearchTier
}

// SalaryFloorPolicy searches with a salary floor first and widens to an
// unfiltered search when the floor excludes everything. Many senior postings
// carry no salary data and would otherwise never be shown.
func SalaryFloorPolicy(floor int) FallbackPolicy {
	if floor <= 0 {
		return FallbackPolicy{Tiers: []SearchTier{{Name: "unfiltered"}}}
	}
	return FallbackPolicy{Tiers: []SearchTier{
		{Name: "salary-floor", SalaryMin: floor},
		{Name: "unfiltered"},
	}}
}

// RunFallback calls attempt for each tier in order and returns the first
// non-empty result with the tier that produced it. An error from any tier
// stops the chain. When every tier is empty the last tier is returned with a
// nil slice.
func RunFallback[T any](ctx context.Context, p FallbackPolicy, attempt func(context.Context, SearchTier) ([]T, error)) ([]T, SearchTier, error) {
	if len(p.Tiers) == 0 {
		return nil, SearchTier{}, fmt.Errorf("fallback policy has no tiers")
	}

	var last SearchTier
	for _, tier := range p.Tiers {
		last = tier
		results, err := attempt(ctx, tier)
		if err != nil {
			return nil, tier, err
		}
		if len(results) > 0 {
			return results, tier, nil
		}
	}
	return nil, last, nil
}
