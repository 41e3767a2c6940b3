// Package matching remembers which category a description belongs to and
// suggests it for newly imported transactions.
package matching

import (
	"context"
	"errors"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var ErrEmptyRule = errors.New("pattern and category are required")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindCategory returns the category of the longest pattern contained in
	// description, case-insensitively, or "" when none matches.
	FindCategory(ctx context.Context, description string) (string, error)
	CreateRule(ctx context.Context, pattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the learned category for description, or "".
func (s *Service) Suggest(ctx context.Context, description string) (string, error) {
	return s.repo.FindCategory(ctx, description)
}

// Learn remembers that descriptions containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, pattern, category string) error {
	pattern, category = strings.TrimSpace(pattern), strings.TrimSpace(category)
	if pattern == "" || category == "" {
		return ErrEmptyRule
	}

	return s.repo.CreateRule(ctx, pattern, category)
}

// Apply fills in the category of every uncategorized param that a rule
// matches. Lookup failures leave the param as it was. It returns how many
// params were categorized.
func (s *Service) Apply(ctx context.Context, params []transaction.CreateParams) int {
	n := 0

	for i, p := range params {
		if p.Category != "" && p.Category != transaction.Uncategorized {
			continue
		}

		category, err := s.Suggest(ctx, p.Description)
		if err != nil || category == "" {
			continue
		}

		params[i].Category = category
		n++
	}

	return n
}
