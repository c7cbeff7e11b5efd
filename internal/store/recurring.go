package store

import (
	"time"

	"budget/internal/core"
)

// RecurringExpenses returns a copy of the recurring expense list.
func (s *Store) RecurringExpenses() []core.RecurringExpense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringExpense, len(s.recurring))
	copy(out, s.recurring)
	return out
}

// AddRecurringExpense registers a recurring expense and synthesizes a
// reminder dated three days before its next due date.
func (s *Store) AddRecurringExpense(expense core.RecurringExpense) error {
	if err := expense.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if expense.ID == "" {
		expense.ID = newID()
	}
	s.recurring = append(s.recurring, expense)
	s.addReminderForLocked(expense, expense.NextDueDate)
	return nil
}

// RemoveRecurringExpense deletes the expense and cascades deletion of every
// reminder linked to it.
func (s *Store) RemoveRecurringExpense(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recurring {
		if s.recurring[i].ID != id {
			continue
		}
		s.recurring = append(s.recurring[:i], s.recurring[i+1:]...)
		kept := s.reminders[:0]
		for _, r := range s.reminders {
			if r.ExpenseID != id {
				kept = append(kept, r)
			}
		}
		s.reminders = kept
		return
	}
}

// ProcessRecurringExpenses scans the recurring list once. Every expense
// whose due date has arrived and whose lastProcessed predates that due date
// materializes one item into its category, advances its due date by one
// frequency interval, and gets a fresh reminder. The lastProcessed guard
// makes a second scan for the same due date a no-op. Returns the number of
// expenses processed.
func (s *Store) ProcessRecurringExpenses() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	processed := 0
	changed := false

	for i := range s.recurring {
		expense := &s.recurring[i]
		due := expense.NextDueDate
		if due.After(now) {
			continue
		}
		if !expense.LastProcessed.IsZero() && !expense.LastProcessed.Before(due) {
			continue
		}

		if idx := s.categoryIndexLocked(expense.CategoryID); idx >= 0 {
			c := &s.categories[idx]
			c.Items = append(c.Items, core.Item{
				ID:        newID(),
				Name:      expense.Name + " (Automatic)",
				Amount:    expense.Amount,
				CreatedAt: now,
			})
			c.Spent += expense.Amount
			changed = true
		}

		expense.NextDueDate = expense.Frequency.Advance(due)
		expense.LastProcessed = now
		s.addReminderForLocked(*expense, expense.NextDueDate)
		processed++
	}

	if changed {
		s.recomputeExpensesLocked()
		s.recordHistoryLocked()
	}
	return processed
}

// Reminders returns a copy of the reminder list.
func (s *Store) Reminders() []core.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Reminder, len(s.reminders))
	copy(out, s.reminders)
	return out
}

// AddReminder appends a reminder. A zero reminder date defaults to three
// days before the due date.
func (s *Store) AddReminder(reminder core.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reminder.ID == "" {
		reminder.ID = newID()
	}
	if reminder.ReminderDate.IsZero() {
		reminder.ReminderDate = reminder.DueDate.Add(-core.ReminderLeadTime)
	}
	s.reminders = append(s.reminders, reminder)
}

// RemoveReminder deletes a reminder by id.
func (s *Store) RemoveReminder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			s.reminders = append(s.reminders[:i], s.reminders[i+1:]...)
			return
		}
	}
}

// ReminderUpdate carries the fields a partial reminder update may change.
// The notified flag is deliberately absent: it only moves false->true, via
// MarkReminderNotified.
type ReminderUpdate struct {
	ExpenseName  *string
	Amount       *float64
	DueDate      *time.Time
	ReminderDate *time.Time
}

// UpdateReminder applies a partial update to a reminder by id.
func (s *Store) UpdateReminder(id string, update ReminderUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID != id {
			continue
		}
		if update.ExpenseName != nil {
			s.reminders[i].ExpenseName = *update.ExpenseName
		}
		if update.Amount != nil {
			s.reminders[i].Amount = *update.Amount
		}
		if update.DueDate != nil {
			s.reminders[i].DueDate = *update.DueDate
		}
		if update.ReminderDate != nil {
			s.reminders[i].ReminderDate = *update.ReminderDate
		}
		return
	}
}

// DueReminders returns reminders whose reminder date has passed and that
// have not been notified yet.
func (s *Store) DueReminders(now time.Time) []core.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []core.Reminder
	for _, r := range s.reminders {
		if !r.Notified && !r.ReminderDate.After(now) {
			due = append(due, r)
		}
	}
	return due
}

// MarkReminderNotified flips the notified flag to true. The transition is
// irreversible; marking an already-notified reminder changes nothing.
func (s *Store) MarkReminderNotified(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			s.reminders[i].Notified = true
			return
		}
	}
}

func (s *Store) addReminderForLocked(expense core.RecurringExpense, dueDate time.Time) {
	s.reminders = append(s.reminders, core.Reminder{
		ID:           newID(),
		ExpenseID:    expense.ID,
		ExpenseName:  expense.Name,
		Amount:       expense.Amount,
		DueDate:      dueDate,
		ReminderDate: dueDate.Add(-core.ReminderLeadTime),
		Notified:     false,
	})
}
