package store

import (
	"strings"

	"budget/internal/core"
)

// Categories returns a deep copy of the category list.
func (s *Store) Categories() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCategories(s.categories)
}

// ReplaceCategories swaps in a new category list. Each category is
// normalized at this boundary: nil keyword and shared-member lists default
// to empty, and spent is re-derived from the item amounts. The expenses
// total is recomputed afterward.
func (s *Store) ReplaceCategories(categories []core.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = normalizeCategories(categories)
	s.recomputeExpensesLocked()
	s.recordHistoryLocked()
}

// AddItem appends an expense line to a category and raises its spent by the
// item amount. Unknown category ids are a no-op.
func (s *Store) AddItem(categoryID string, item core.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndexLocked(categoryID)
	if idx < 0 {
		return
	}
	if item.ID == "" {
		item.ID = newID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	c := &s.categories[idx]
	c.Items = append(c.Items, item)
	c.Spent += item.Amount
	s.recomputeExpensesLocked()
	s.recordHistoryLocked()
}

// EditItem renames an item and replaces its amount, adjusting the
// category's spent by the delta. Creation time and receipts are preserved.
func (s *Store) EditItem(categoryID, itemID, name string, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndexLocked(categoryID)
	if idx < 0 {
		return
	}
	c := &s.categories[idx]
	for i := range c.Items {
		if c.Items[i].ID != itemID {
			continue
		}
		c.Spent += amount - c.Items[i].Amount
		c.Items[i].Name = name
		c.Items[i].Amount = amount
		s.recomputeExpensesLocked()
		s.recordHistoryLocked()
		return
	}
}

// RemoveItem deletes an item and lowers the category's spent accordingly.
func (s *Store) RemoveItem(categoryID, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndexLocked(categoryID)
	if idx < 0 {
		return
	}
	c := &s.categories[idx]
	for i := range c.Items {
		if c.Items[i].ID != itemID {
			continue
		}
		c.Spent -= c.Items[i].Amount
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		s.recomputeExpensesLocked()
		s.recordHistoryLocked()
		return
	}
}

// AttachReceipt adds a receipt to an item.
func (s *Store) AttachReceipt(categoryID, itemID string, receipt core.Receipt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndexLocked(categoryID)
	if idx < 0 {
		return
	}
	if receipt.ID == "" {
		receipt.ID = newID()
	}
	if receipt.UploadDate.IsZero() {
		receipt.UploadDate = s.now()
	}
	c := &s.categories[idx]
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Receipts = append(c.Items[i].Receipts, receipt)
			s.recordHistoryLocked()
			return
		}
	}
}

// RemoveReceipt detaches a receipt from an item.
func (s *Store) RemoveReceipt(categoryID, itemID, receiptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndexLocked(categoryID)
	if idx < 0 {
		return
	}
	c := &s.categories[idx]
	for i := range c.Items {
		if c.Items[i].ID != itemID {
			continue
		}
		receipts := c.Items[i].Receipts
		for j := range receipts {
			if receipts[j].ID == receiptID {
				c.Items[i].Receipts = append(receipts[:j], receipts[j+1:]...)
				s.recordHistoryLocked()
				return
			}
		}
		return
	}
}

// AddCategoryKeyword adds a keyword to a category's set. Keywords are
// lower-cased; duplicates are ignored.
func (s *Store) AddCategoryKeyword(categoryID, keyword string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndexLocked(categoryID)
	if idx < 0 {
		return
	}
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return
	}
	c := &s.categories[idx]
	for _, k := range c.Keywords {
		if k == keyword {
			return
		}
	}
	c.Keywords = append(c.Keywords, keyword)
	s.recordHistoryLocked()
}

// RemoveCategoryKeyword drops a keyword from a category's set,
// case-insensitively.
func (s *Store) RemoveCategoryKeyword(categoryID, keyword string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndexLocked(categoryID)
	if idx < 0 {
		return
	}
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	c := &s.categories[idx]
	for i, k := range c.Keywords {
		if k == keyword {
			c.Keywords = append(c.Keywords[:i], c.Keywords[i+1:]...)
			s.recordHistoryLocked()
			return
		}
	}
}

// SuggestCategory tokenizes the expense name on whitespace and scores each
// category by how many of its keywords appear as a substring of any token.
// The first category with the strictly highest score wins; a zero score
// returns no suggestion.
func (s *Store) SuggestCategory(expenseName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := strings.Fields(strings.ToLower(expenseName))
	bestID := ""
	bestMatches := 0

	for _, c := range s.categories {
		matches := 0
		for _, keyword := range c.Keywords {
			for _, word := range words {
				if strings.Contains(word, keyword) {
					matches++
					break
				}
			}
		}
		if matches > bestMatches {
			bestID = c.ID
			bestMatches = matches
		}
	}

	if bestMatches == 0 {
		return "", false
	}
	return bestID, true
}

func (s *Store) categoryIndexLocked(id string) int {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return i
		}
	}
	return -1
}

// normalizeCategories defaults nil collections and re-derives spent so that
// bulk replacement converges to the same sums as incremental mutation.
func normalizeCategories(in []core.Category) []core.Category {
	out := cloneCategories(in)
	for i := range out {
		if out[i].Items == nil {
			out[i].Items = []core.Item{}
		}
		if out[i].Keywords == nil {
			out[i].Keywords = []string{}
		}
		if out[i].SharedWith == nil {
			out[i].SharedWith = []core.SharedUser{}
		}
		out[i].Spent = out[i].ItemTotal()
	}
	return out
}
