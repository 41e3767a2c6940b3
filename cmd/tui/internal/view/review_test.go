package view

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/matching"
	matchingMemstore "github.com/MrJamesThe3rd/finboard/internal/matching/memstore"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func reviewFixture() []transaction.Transaction {
	tx := func(id, desc, merchant, category string, day int) transaction.Transaction {
		return transaction.Transaction{
			ID:          id,
			Date:        date(2024, time.May, day),
			Description: desc,
			Merchant:    merchant,
			Amount:      decimal.RequireFromString("-4.50"),
			Category:    category,
			Type:        transaction.TypeExpense,
			Status:      transaction.StatusCompleted,
			Account:     "Checking",
		}
	}

	return []transaction.Transaction{
		tx("r-1", "CARD 1234 BLUE BOTTLE", "Blue Bottle", transaction.Uncategorized, 3),
		tx("r-2", "Corner Bakery", "", transaction.Uncategorized, 2),
		tx("r-3", "Cinema", "", "Fun", 1),
	}
}

func TestReviewModel_CategorizesAndLearns(t *testing.T) {
	ctx := context.Background()
	s, svc := newSession(t, reviewFixture())

	rules := matching.NewService(matchingMemstore.New())
	require.NoError(t, rules.Learn(ctx, "bakery", "Food & Dining"))

	m := NewReviewModel(svc, rules, s)

	next, _ := m.Update(TimeframeSelectedMsg{Timeframe: TimeframeAll})
	m = next.(ReviewModel)

	require.Equal(t, reviewStateReviewing, m.state)
	assert.Equal(t, 2, m.total)
	require.NotNil(t, m.current)

	// Queue follows the stored order, both uncategorized rows in turn.
	assert.Equal(t, "r-1", m.current.ID)
	assert.Empty(t, m.input.Value())

	m.input.SetValue("Coffee")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ReviewModel)
	require.NotNil(t, cmd)

	next, _ = m.Update(cmd())
	m = next.(ReviewModel)

	stored, err := svc.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", stored.Category)
	assert.Equal(t, "Coffee", s.View.Transactions([]string{"r-1"})[0].Category)

	// The merchant was learned as the pattern.
	category, err := rules.Suggest(ctx, "blue bottle oakland")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", category)

	require.NotNil(t, m.current)
	assert.Equal(t, "r-2", m.current.ID)
	assert.Equal(t, "Food & Dining", m.input.Value())

	// Skipping leaves the last row untouched.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(ReviewModel)
	assert.Nil(t, m.current)
	assert.Equal(t, "All done!", m.status)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
}

func TestReviewModel_NothingToReview(t *testing.T) {
	s, svc := newSession(t, reviewFixture()[2:])
	m := NewReviewModel(svc, nil, s)

	next, _ := m.Update(TimeframeSelectedMsg{Timeframe: TimeframeAll})
	m = next.(ReviewModel)

	assert.Nil(t, m.current)
	assert.Equal(t, "No uncategorized transactions in this timeframe.", m.status)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, BackMsg{}, cmd())
}

func TestReviewModel_TimeframeLimitsQueue(t *testing.T) {
	s, svc := newSession(t, reviewFixture())
	m := NewReviewModel(svc, nil, s)

	start, end := date(2024, time.May, 1), date(2024, time.May, 2)
	next, _ := m.Update(TimeframeSelectedMsg{Timeframe: TimeframeCustom, Range: rangeOf(&start, &end)})
	m = next.(ReviewModel)

	assert.Equal(t, 1, m.total)
	require.NotNil(t, m.current)
	assert.Equal(t, "r-2", m.current.ID)
}

func TestRulePattern(t *testing.T) {
	fixture := reviewFixture()

	assert.Equal(t, "Blue Bottle", rulePattern(fixture[0]))
	assert.Equal(t, "Corner Bakery", rulePattern(fixture[1]))
}
