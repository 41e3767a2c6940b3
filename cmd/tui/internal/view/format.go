package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for storage operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

var (
	activeColor = lipgloss.Color("205")
	errorColor  = lipgloss.Color("196")
	okColor     = lipgloss.Color("46")
	borderColor = lipgloss.Color("240")
)

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(activeColor).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(errorColor).Render(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	if n <= 1 {
		return string(r[:n])
	}

	return string(r[:n-1]) + "…"
}
