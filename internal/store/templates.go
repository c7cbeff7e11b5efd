package store

import "budget/internal/core"

// Templates returns a copy of the saved template list.
func (s *Store) Templates() []core.BudgetTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.BudgetTemplate, len(s.templates))
	for i, t := range s.templates {
		t.Categories = cloneCategories(t.Categories)
		t.RecurringExpenses = append([]core.RecurringExpense(nil), t.RecurringExpenses...)
		out[i] = t
	}
	return out
}

// SaveTemplate upserts a template by id: an existing template with the same
// id is replaced, otherwise the template is appended.
func (s *Store) SaveTemplate(template core.BudgetTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if template.ID == "" {
		template.ID = newID()
	}
	if template.CreatedAt.IsZero() {
		template.CreatedAt = s.now()
	}
	template.Categories = cloneCategories(template.Categories)
	template.RecurringExpenses = append([]core.RecurringExpense(nil), template.RecurringExpenses...)
	for i := range s.templates {
		if s.templates[i].ID == template.ID {
			s.templates[i] = template
			return
		}
	}
	s.templates = append(s.templates, template)
}

// LoadTemplate overwrites live income, categories and recurring expenses
// with the template snapshot. Categories are re-normalized at this boundary
// and the expenses total is recomputed. Unknown ids are a no-op.
func (s *Store) LoadTemplate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.templates {
		if t.ID != id {
			continue
		}
		s.income = t.Income
		s.categories = normalizeCategories(t.Categories)
		s.recurring = append([]core.RecurringExpense(nil), t.RecurringExpenses...)
		s.recomputeExpensesLocked()
		s.recordHistoryLocked()
		return
	}
}

// RemoveTemplate deletes a template by id.
func (s *Store) RemoveTemplate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return
		}
	}
}
