package store

import (
	"fmt"
	"math"

	"budget/internal/core"
)

// Insights returns a copy of the current insight set.
func (s *Store) Insights() []core.Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Insight, len(s.insights))
	copy(out, s.insights)
	return out
}

// GenerateInsights rebuilds the insight set from scratch. Per category, in
// category order: a spending insight when more than 90% of the budget is
// used, and a saving insight when this calendar month's spending sits under
// half the budget. No dedup or ranking happens beyond that.
func (s *Store) GenerateInsights() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var insights []core.Insight

	for _, c := range s.categories {
		ratio := c.Spent / c.Budget
		if ratio > 0.9 {
			insights = append(insights, core.Insight{
				ID:       newID(),
				Type:     core.InsightSpending,
				Category: c.Name,
				Message: fmt.Sprintf(
					"You've used %d%% of your %s budget. Consider reducing expenses in this category.",
					int(math.Round(ratio*100)), c.Name),
				Timestamp: now,
			})
		}

		var monthlySpending float64
		for _, it := range c.Items {
			if it.CreatedAt.Year() == now.Year() && it.CreatedAt.Month() == now.Month() {
				monthlySpending += it.Amount
			}
		}
		if monthlySpending < c.Budget*0.5 {
			insights = append(insights, core.Insight{
				ID:       newID(),
				Type:     core.InsightSaving,
				Category: c.Name,
				Message: fmt.Sprintf(
					"Great job! You're well under budget in %s. Consider moving some funds to savings.",
					c.Name),
				PotentialSavings: c.Budget - monthlySpending,
				Timestamp:        now,
			})
		}
	}

	s.insights = insights
}
