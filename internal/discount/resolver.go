package discount

import (
	"sort"
	"time"
)

type Result struct {
	UnitPrice  int64 `json:"unit_price"`
	FinalPrice int64 `json:"final_price"`
	// Applied holds the ids of the discounts taken in application order,
	// including a zero-value one that left the price unchanged but still
	// blocked later non-stackable discounts.
	Applied []string `json:"applied"`
}

// Candidates returns the discounts that target t and are active at now,
// ordered by priority (high first), then scope specificity. Discounts equal
// on both keep their input order.
func Candidates(discounts []*Discount, t Target, now time.Time) []*Discount {
	out := make([]*Discount, 0, len(discounts))
	for _, d := range discounts {
		if d.AppliesTo(t) && d.ActiveAt(now) {
			out = append(out, d)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Scope.specificity() > out[j].Scope.specificity()
	})
	return out
}

// Apply reduces unitPrice by the applicable discounts. The first candidate
// always applies; each later one applies only when it is stackable.
func Apply(discounts []*Discount, t Target, unitPrice int64, now time.Time) Result {
	res := Result{UnitPrice: unitPrice, FinalPrice: unitPrice, Applied: []string{}}

	running := unitPrice
	for i, d := range Candidates(discounts, t, now) {
		if i > 0 && !d.Stackable {
			continue
		}
		running = d.reduce(running)
		res.Applied = append(res.Applied, d.ID)
	}

	if running < 0 {
		running = 0
	}
	res.FinalPrice = running
	return res
}
