package store

import "budget/internal/core"

// SharedUsers returns a copy of the shared-budget member list.
func (s *Store) SharedUsers() []core.SharedUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SharedUser, len(s.shared))
	copy(out, s.shared)
	return out
}

// AddSharedUser registers a shared-budget member. Share percentages are not
// validated to sum to 100 across members.
func (s *Store) AddSharedUser(user core.SharedUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = newID()
	}
	s.shared = append(s.shared, user)
}

// SharedUserUpdate carries the fields a partial member update may change.
type SharedUserUpdate struct {
	Name            *string
	Email           *string
	SharePercentage *float64
}

// UpdateSharedUser applies a partial update to a member by id.
func (s *Store) UpdateSharedUser(id string, update SharedUserUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shared {
		if s.shared[i].ID != id {
			continue
		}
		if update.Name != nil {
			s.shared[i].Name = *update.Name
		}
		if update.Email != nil {
			s.shared[i].Email = *update.Email
		}
		if update.SharePercentage != nil {
			s.shared[i].SharePercentage = *update.SharePercentage
		}
		return
	}
}

// RemoveSharedUser deletes a member and strips them from every category's
// shared-member list.
func (s *Store) RemoveSharedUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for i := range s.shared {
		if s.shared[i].ID == id {
			s.shared = append(s.shared[:i], s.shared[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return
	}
	for i := range s.categories {
		members := s.categories[i].SharedWith
		kept := members[:0]
		for _, m := range members {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		s.categories[i].SharedWith = kept
	}
	s.recordHistoryLocked()
}
