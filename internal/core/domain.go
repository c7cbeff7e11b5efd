package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// ReminderLeadTime is how far ahead of a due date its reminder fires.
const ReminderLeadTime = 3 * 24 * time.Hour

type (
	Frequency string

	TemplateType string

	ContributionKind string

	InsightType string
)

const (
	TemplateCustom    TemplateType = "custom"
	TemplateSeasonal  TemplateType = "seasonal"
	TemplateLifestyle TemplateType = "lifestyle"
)

const (
	ContributionOneTime   ContributionKind = "one-time"
	ContributionRecurring ContributionKind = "recurring"
)

const (
	InsightSaving         InsightType = "saving"
	InsightSpending       InsightType = "spending"
	InsightRecommendation InsightType = "recommendation"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrEmptyName        = errors.New("empty name")
	ErrZeroDueDate      = errors.New("due date cannot be zero")
)

// Item is one recorded expense line under a category.
type Item struct {
	ID        string
	Name      string
	Amount    float64
	CreatedAt time.Time
	Receipts  []Receipt
}

// Receipt is an attachment on an expense item.
type Receipt struct {
	ID          string
	ImageURL    string
	UploadDate  time.Time
	Description string
}

// Category is a named budget bucket. Spent is derived: it always equals the
// sum of the item amounts.
type Category struct {
	ID         string
	Name       string
	Budget     float64
	Spent      float64
	Items      []Item
	Keywords   []string
	SharedWith []SharedUser
}

// ItemTotal sums the category's item amounts.
func (c Category) ItemTotal() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Amount
	}
	return total
}

// RecurringExpense is a template that auto-materializes into Items on a
// schedule. NextDueDate only moves forward in time.
type RecurringExpense struct {
	ID            string
	Name          string
	Amount        float64
	CategoryID    string
	Frequency     Frequency
	NextDueDate   time.Time
	LastProcessed time.Time
}

func (re RecurringExpense) Validate() error {
	if len(strings.TrimSpace(re.Name)) == 0 {
		return ErrEmptyName
	}
	if re.Amount < 0 {
		return ErrInvalidAmount
	}
	if re.NextDueDate.IsZero() {
		return ErrZeroDueDate
	}
	switch re.Frequency {
	case Weekly, Monthly, Yearly:
	default:
		return ErrInvalidFrequency
	}
	return nil
}

// Advance returns the due date one frequency interval after from.
func (f Frequency) Advance(from time.Time) time.Time {
	switch f {
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Monthly:
		return from.AddDate(0, 1, 0)
	case Yearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}

// Reminder is a scheduled notice tied to an upcoming due date. It snapshots
// the expense name and amount at creation time. Notified transitions
// false->true exactly once.
type Reminder struct {
	ID           string
	ExpenseID    string
	ExpenseName  string
	Amount       float64
	DueDate      time.Time
	ReminderDate time.Time
	Notified     bool
}

// SavingsGoal tracks progress toward a target via contributions.
// CurrentAmount is derived: it always equals the sum of the remaining
// contribution amounts.
type SavingsGoal struct {
	ID                     string
	Name                   string
	TargetAmount           float64
	CurrentAmount          float64
	TargetDate             time.Time
	CreatedAt              time.Time
	Contributions          []Contribution
	RecurringContributions []RecurringContribution
}

// Contribution is an immutable record of money put toward a goal.
type Contribution struct {
	ID     string
	Amount float64
	Date   time.Time
	Kind   ContributionKind
}

// RecurringContribution schedules repeated contributions to a goal.
type RecurringContribution struct {
	ID                   string
	Amount               float64
	Frequency            Frequency
	StartDate            time.Time
	NextContributionDate time.Time
}

// BudgetTemplate is a frozen snapshot of income, categories and recurring
// expenses. Loading one overwrites live state.
type BudgetTemplate struct {
	ID                string
	Name              string
	Description       string
	Type              TemplateType
	Income            float64
	Categories        []Category
	RecurringExpenses []RecurringExpense
	CreatedAt         time.Time
}

// HistoryEntry is one row of the append-only budget history log. Seq is
// assigned by the store and increases monotonically.
type HistoryEntry struct {
	ID         string
	Seq        int64
	Date       time.Time
	Income     float64
	Expenses   float64
	Categories []Category
	Currency   string
}

// SharedUser is a shared-budget member. SharePercentage is not validated to
// sum to 100 across users.
type SharedUser struct {
	ID              string
	Name            string
	Email           string
	SharePercentage float64
}

// Insight is a derived observation about spending behavior. The insight set
// is regenerated wholesale on each cycle.
type Insight struct {
	ID               string
	Type             InsightType
	Category         string
	Message          string
	PotentialSavings float64
	Timestamp        time.Time
}
