package store

import (
	"time"

	"budget/internal/core"
)

// SavingsGoals returns a deep copy of the goal list.
func (s *Store) SavingsGoals() []core.SavingsGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneGoals(s.goals)
}

// AddSavingsGoal registers a goal. CurrentAmount is re-derived from the
// contributions it carries.
func (s *Store) AddSavingsGoal(goal core.SavingsGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if goal.ID == "" {
		goal.ID = newID()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = s.now()
	}
	if goal.Contributions == nil {
		goal.Contributions = []core.Contribution{}
	}
	if goal.RecurringContributions == nil {
		goal.RecurringContributions = []core.RecurringContribution{}
	}
	goal.CurrentAmount = contributionTotal(goal.Contributions)
	s.goals = append(s.goals, goal)
}

// GoalUpdate carries the fields a partial goal update may change. Current
// amount is derived from contributions and cannot be set directly.
type GoalUpdate struct {
	Name         *string
	TargetAmount *float64
	TargetDate   *time.Time
}

// UpdateSavingsGoal applies a partial update to a goal by id.
func (s *Store) UpdateSavingsGoal(id string, update GoalUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID != id {
			continue
		}
		if update.Name != nil {
			s.goals[i].Name = *update.Name
		}
		if update.TargetAmount != nil {
			s.goals[i].TargetAmount = *update.TargetAmount
		}
		if update.TargetDate != nil {
			s.goals[i].TargetDate = *update.TargetDate
		}
		return
	}
}

// RemoveSavingsGoal deletes a goal by id.
func (s *Store) RemoveSavingsGoal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return
		}
	}
}

// AddContribution appends a contribution to a goal and raises its current
// amount by the contribution amount.
func (s *Store) AddContribution(goalID string, amount float64, kind core.ContributionKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID != goalID {
			continue
		}
		s.goals[i].Contributions = append(s.goals[i].Contributions, core.Contribution{
			ID:     newID(),
			Amount: amount,
			Date:   s.now(),
			Kind:   kind,
		})
		s.goals[i].CurrentAmount += amount
		return
	}
}

// RemoveContribution deletes a contribution and reverses its effect on the
// goal's current amount.
func (s *Store) RemoveContribution(goalID, contributionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID != goalID {
			continue
		}
		contributions := s.goals[i].Contributions
		for j := range contributions {
			if contributions[j].ID == contributionID {
				s.goals[i].CurrentAmount -= contributions[j].Amount
				s.goals[i].Contributions = append(contributions[:j], contributions[j+1:]...)
				return
			}
		}
		return
	}
}

func contributionTotal(contributions []core.Contribution) float64 {
	var total float64
	for _, c := range contributions {
		total += c.Amount
	}
	return total
}

func cloneGoals(in []core.SavingsGoal) []core.SavingsGoal {
	out := make([]core.SavingsGoal, len(in))
	for i, g := range in {
		g.Contributions = append([]core.Contribution(nil), g.Contributions...)
		g.RecurringContributions = append([]core.RecurringContribution(nil), g.RecurringContributions...)
		out[i] = g
	}
	return out
}
