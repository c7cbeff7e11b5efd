package store

import "errors"

// ErrRatesUnavailable signals a currency change attempted while the rate
// table is empty. State is left untouched; callers surface it to the user.
var ErrRatesUnavailable = errors.New("exchange rates are not available")

// ConvertAmount converts between currencies using the USD-relative rate
// table. Identical currencies, or a currency missing from the table, return
// the amount unchanged.
func (s *Store) ConvertAmount(amount float64, from, to string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convertLocked(amount, from, to)
}

func (s *Store) convertLocked(amount float64, from, to string) float64 {
	if from == to {
		return amount
	}
	fromRate, ok := s.exchangeRates[from]
	if !ok || fromRate == 0 {
		return amount
	}
	toRate, ok := s.exchangeRates[to]
	if !ok {
		return amount
	}
	return amount / fromRate * toRate
}

// SetCurrency switches the active currency, converting every monetary field
// across all collections from the old to the new one. With an empty rate
// table the call fails and nothing changes.
func (s *Store) SetCurrency(newCurrency string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.exchangeRates) == 0 {
		return ErrRatesUnavailable
	}
	old := s.currency
	if old == newCurrency {
		return nil
	}

	convert := func(amount float64) float64 {
		return s.convertLocked(amount, old, newCurrency)
	}

	s.income = convert(s.income)

	for i := range s.categories {
		c := &s.categories[i]
		c.Budget = convert(c.Budget)
		c.Spent = convert(c.Spent)
		for j := range c.Items {
			c.Items[j].Amount = convert(c.Items[j].Amount)
		}
	}

	for i := range s.recurring {
		s.recurring[i].Amount = convert(s.recurring[i].Amount)
	}

	for i := range s.reminders {
		s.reminders[i].Amount = convert(s.reminders[i].Amount)
	}

	for i := range s.goals {
		g := &s.goals[i]
		g.TargetAmount = convert(g.TargetAmount)
		g.CurrentAmount = convert(g.CurrentAmount)
		for j := range g.Contributions {
			g.Contributions[j].Amount = convert(g.Contributions[j].Amount)
		}
		for j := range g.RecurringContributions {
			g.RecurringContributions[j].Amount = convert(g.RecurringContributions[j].Amount)
		}
	}

	s.currency = newCurrency
	s.currencyChanges++
	s.recomputeExpensesLocked()
	s.recordHistoryLocked()
	return nil
}
