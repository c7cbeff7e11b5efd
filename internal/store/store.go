// Package store holds all budgeting state in memory and keeps derived
// values consistent after every mutation.
//
// A Store is constructed once per session and passed by handle to every
// consumer. Total expenses always equal the sum of category spent values,
// and each category's spent value always equals the sum of its item
// amounts. Mutations referencing an unknown id are silent no-ops.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"budget/internal/core"
)

type Store struct {
	mu sync.Mutex

	income   float64
	expenses float64
	currency string

	exchangeRates   map[string]float64
	currencyChanges int

	categories []core.Category
	recurring  []core.RecurringExpense
	reminders  []core.Reminder
	templates  []core.BudgetTemplate
	goals      []core.SavingsGoal
	shared     []core.SharedUser
	insights   []core.Insight

	history    []core.HistoryEntry
	historySeq int64

	now func() time.Time
}

// New returns an empty store denominated in USD.
func New() *Store {
	return &Store{
		currency:      "USD",
		exchangeRates: map[string]float64{},
		now:           time.Now,
	}
}

// NewSeeded returns a store preloaded with the default household budget:
// three categories with keyword sets and a starting income.
func NewSeeded() *Store {
	s := New()
	now := s.now()
	s.income = 5000
	s.categories = []core.Category{
		{
			ID:     "1",
			Name:   "Rent",
			Budget: 1500,
			Items: []core.Item{
				{ID: "1-1", Name: "Monthly Rent", Amount: 1500, CreatedAt: now},
			},
			Keywords:   []string{"rent", "apartment", "housing", "lease"},
			SharedWith: []core.SharedUser{},
		},
		{
			ID:     "2",
			Name:   "Utilities",
			Budget: 200,
			Items: []core.Item{
				{ID: "2-1", Name: "Electricity", Amount: 100, CreatedAt: now},
				{ID: "2-2", Name: "Water", Amount: 80, CreatedAt: now},
			},
			Keywords:   []string{"electricity", "water", "gas", "utility", "power", "bill"},
			SharedWith: []core.SharedUser{},
		},
		{
			ID:     "3",
			Name:   "Groceries",
			Budget: 400,
			Items: []core.Item{
				{ID: "3-1", Name: "Weekly Shopping", Amount: 250, CreatedAt: now},
				{ID: "3-2", Name: "Special Items", Amount: 100, CreatedAt: now},
			},
			Keywords:   []string{"grocery", "food", "supermarket", "market", "shopping"},
			SharedWith: []core.SharedUser{},
		},
	}
	for i := range s.categories {
		s.categories[i].Spent = s.categories[i].ItemTotal()
	}
	s.recomputeExpensesLocked()
	return s
}

// Income returns the current income.
func (s *Store) Income() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.income
}

// SetIncome replaces income. No other field is touched.
func (s *Store) SetIncome(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.income = amount
	s.recordHistoryLocked()
}

// Expenses returns the derived total: the sum of every category's spent.
func (s *Store) Expenses() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expenses
}

// Currency returns the active ISO currency code.
func (s *Store) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

// CurrencyChanges returns how many times the currency has been switched.
// Capping the count is presentation-layer policy, not enforced here.
func (s *Store) CurrencyChanges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currencyChanges
}

// ExchangeRates returns a copy of the USD-relative rate table.
func (s *Store) ExchangeRates() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	rates := make(map[string]float64, len(s.exchangeRates))
	for code, rate := range s.exchangeRates {
		rates[code] = rate
	}
	return rates
}

// SetExchangeRates replaces the rate table. On fetch failure callers simply
// skip this call, leaving the last-known table in place.
func (s *Store) SetExchangeRates(rates map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := make(map[string]float64, len(rates))
	for code, rate := range rates {
		table[code] = rate
	}
	s.exchangeRates = table
}

// History returns a copy of the append-only budget history log.
func (s *Store) History() []core.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.HistoryEntry, len(s.history))
	for i, e := range s.history {
		e.Categories = cloneCategories(e.Categories)
		out[i] = e
	}
	return out
}

// HistorySince returns entries with a sequence number strictly greater than
// seq, so archivers can resume from the last row they persisted.
func (s *Store) HistorySince(seq int64) []core.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.HistoryEntry
	for _, e := range s.history {
		if e.Seq > seq {
			e.Categories = cloneCategories(e.Categories)
			out = append(out, e)
		}
	}
	return out
}

// recomputeExpensesLocked re-derives the expenses total from the categories.
func (s *Store) recomputeExpensesLocked() {
	var total float64
	for _, c := range s.categories {
		total += c.Spent
	}
	s.expenses = total
}

// recordHistoryLocked appends a history entry capturing the current state.
// Called after every mutation that touches income, categories, expenses or
// currency.
func (s *Store) recordHistoryLocked() {
	s.historySeq++
	s.history = append(s.history, core.HistoryEntry{
		ID:         newID(),
		Seq:        s.historySeq,
		Date:       s.now(),
		Income:     s.income,
		Expenses:   s.expenses,
		Categories: cloneCategories(s.categories),
		Currency:   s.currency,
	})
}

func newID() string {
	return uuid.NewString()
}

func cloneCategories(in []core.Category) []core.Category {
	out := make([]core.Category, len(in))
	for i, c := range in {
		items := make([]core.Item, len(c.Items))
		for j, it := range c.Items {
			receipts := make([]core.Receipt, len(it.Receipts))
			copy(receipts, it.Receipts)
			it.Receipts = receipts
			items[j] = it
		}
		c.Items = items
		c.Keywords = append([]string(nil), c.Keywords...)
		c.SharedWith = append([]core.SharedUser(nil), c.SharedWith...)
		out[i] = c
	}
	return out
}
