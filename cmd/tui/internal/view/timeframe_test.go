package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rangeOf(start, end *time.Time) transaction.DateRange {
	return transaction.DateRange{Start: start, End: end}
}

func TestTimeframe_Range(t *testing.T) {
	// A Thursday in a leap year.
	now := time.Date(2024, time.March, 14, 17, 30, 0, 0, time.UTC)

	tests := []struct {
		tf         Timeframe
		start, end time.Time
	}{
		{tf: TimeframeThisWeek, start: date(2024, time.March, 11), end: date(2024, time.March, 14)},
		{tf: TimeframeLastWeek, start: date(2024, time.March, 4), end: date(2024, time.March, 10)},
		{tf: TimeframeThisMonth, start: date(2024, time.March, 1), end: date(2024, time.March, 14)},
		{tf: TimeframeLastMonth, start: date(2024, time.February, 1), end: date(2024, time.February, 29)},
		{tf: TimeframeThisYear, start: date(2024, time.January, 1), end: date(2024, time.March, 14)},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			r := tt.tf.Range(now)
			require.NotNil(t, r.Start)
			require.NotNil(t, r.End)
			assert.Equal(t, tt.start, *r.Start)
			assert.Equal(t, tt.end, *r.End)
		})
	}

	assert.True(t, TimeframeAll.Range(now).IsZero())
	assert.True(t, TimeframeCustom.Range(now).IsZero())
}

func TestTimeframe_RangeOnMonday(t *testing.T) {
	r := TimeframeThisWeek.Range(date(2024, time.March, 11))
	assert.Equal(t, date(2024, time.March, 11), *r.Start)

	r = TimeframeLastWeek.Range(date(2024, time.March, 11))
	assert.Equal(t, date(2024, time.March, 4), *r.Start)
	assert.Equal(t, date(2024, time.March, 10), *r.End)
}

func TestParseCustomRange(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		r, err := parseCustomRange("2024-03-01", " 2024-03-31 ")
		require.NoError(t, err)
		assert.Equal(t, date(2024, time.March, 1), *r.Start)
		assert.Equal(t, date(2024, time.March, 31), *r.End)
	})

	t.Run("open end", func(t *testing.T) {
		r, err := parseCustomRange("2024-03-01", "")
		require.NoError(t, err)
		assert.NotNil(t, r.Start)
		assert.Nil(t, r.End)
	})

	t.Run("both empty", func(t *testing.T) {
		r, err := parseCustomRange("", "")
		require.NoError(t, err)
		assert.True(t, r.IsZero())
	})

	for name, in := range map[string][2]string{
		"bad start": {"03/01/2024", ""},
		"bad end":   {"", "2024-13-01"},
		"inverted":  {"2024-03-02", "2024-03-01"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseCustomRange(in[0], in[1])
			assert.Error(t, err)
		})
	}
}

func TestDescribeRange(t *testing.T) {
	start, end := date(2024, time.March, 1), date(2024, time.March, 15)

	assert.Equal(t, "All Time", DescribeRange(TimeframeAll.Range(end)))
	assert.Equal(t, "2024-03-01 to 2024-03-15", DescribeRange(rangeOf(&start, &end)))
	assert.Equal(t, "From 2024-03-01", DescribeRange(rangeOf(&start, nil)))
	assert.Equal(t, "Until 2024-03-15", DescribeRange(rangeOf(nil, &end)))
}

func TestTimeframePicker_SelectPreset(t *testing.T) {
	p := NewTimeframePicker(TimeframeAll)
	p.now = func() time.Time { return date(2024, time.March, 14) }

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, TimeframeThisWeek, msg.Timeframe)
	assert.Equal(t, date(2024, time.March, 11), *msg.Range.Start)
	assert.True(t, p.IsSelecting())
}

func TestTimeframePicker_CustomRejectsBadInput(t *testing.T) {
	p := NewTimeframePicker(TimeframeCustom)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, p.IsSelecting())

	p.startInput.SetValue("2024-03-05")
	p.endInput.SetValue("2024-03-01")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Error(t, p.err)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.IsSelecting())
	assert.NoError(t, p.err)
}
