package store

import (
	"testing"

	"budget/internal/core"
)

func TestSharedUserCRUD(t *testing.T) {
	s := testStore()
	s.AddSharedUser(core.SharedUser{ID: "u1", Name: "Sam", Email: "sam@example.com", SharePercentage: 60})
	s.AddSharedUser(core.SharedUser{Name: "Alex", Email: "alex@example.com", SharePercentage: 40})

	users := s.SharedUsers()
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[1].ID == "" {
		t.Error("member id must be assigned")
	}

	email := "sam@home.example"
	share := 75.0
	s.UpdateSharedUser("u1", SharedUserUpdate{Email: &email, SharePercentage: &share})
	got := s.SharedUsers()[0]
	if got.Email != email || got.SharePercentage != 75 {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Name != "Sam" {
		t.Errorf("unset field changed: %+v", got)
	}

	s.UpdateSharedUser("missing", SharedUserUpdate{Email: &email})
}

func TestRemoveSharedUserStripsCategoryMembership(t *testing.T) {
	s := testStore()
	sam := core.SharedUser{ID: "u1", Name: "Sam", SharePercentage: 50}
	alex := core.SharedUser{ID: "u2", Name: "Alex", SharePercentage: 50}
	s.AddSharedUser(sam)
	s.AddSharedUser(alex)
	s.ReplaceCategories([]core.Category{
		{ID: "a", Name: "A", Budget: 100, SharedWith: []core.SharedUser{sam, alex}},
		{ID: "b", Name: "B", Budget: 100, SharedWith: []core.SharedUser{sam}},
	})

	s.RemoveSharedUser("u1")

	if len(s.SharedUsers()) != 1 {
		t.Fatalf("got %d users, want 1", len(s.SharedUsers()))
	}
	for _, c := range s.Categories() {
		for _, m := range c.SharedWith {
			if m.ID == "u1" {
				t.Errorf("category %s still lists removed member", c.Name)
			}
		}
	}
	a := categoryByID(t, s, "a")
	if len(a.SharedWith) != 1 || a.SharedWith[0].ID != "u2" {
		t.Errorf("other members must survive: %+v", a.SharedWith)
	}
}

func TestRemoveSharedUserUnknownIDNoOp(t *testing.T) {
	s := testStore()
	s.AddSharedUser(core.SharedUser{ID: "u1", Name: "Sam"})
	before := len(s.History())

	s.RemoveSharedUser("missing")

	if len(s.SharedUsers()) != 1 {
		t.Error("user list changed")
	}
	if len(s.History()) != before {
		t.Error("no-op removal must not record history")
	}
}
