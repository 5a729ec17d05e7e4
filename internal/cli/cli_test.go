package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/butce/internal/month"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₺0,00"},
		{"20", "₺20,00"},
		{"1234.5", "₺1.234,50"},
		{"-1500", "-₺1.500,00"},
		{"1234567.891", "₺1.234.567,89"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatMoneyShort(t *testing.T) {
	assert.Equal(t, "₺1.235", FormatMoneyShort(decimal.RequireFromString("1234.6")))
	assert.Equal(t, "-₺7.000", FormatMoneyShort(decimal.NewFromInt(-7000)))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1.000", FormatNumber(1000))
	assert.Equal(t, "-12.345.678", FormatNumber(-12345678))
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "+₺500,00", FormatDelta(decimal.NewFromInt(1500), decimal.NewFromInt(1000)))
	assert.Equal(t, "-₺500,00", FormatDelta(decimal.NewFromInt(1000), decimal.NewFromInt(1500)))
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "Ekim 2026", FormatMonth(month.New(2026, time.October)))
	assert.Equal(t, "Ocak 2025", FormatMonth(month.New(2025, time.January)))
}

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "-", FormatDay(time.Time{}))
	assert.Equal(t, "05.03.2025", FormatDay(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Kalem", "Tutar"},
		Rows: [][]string{
			{"Kira", "-₺15.000,00"},
			{Separator},
			{"Toplam", "-₺15.000,00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 7)
	w := lipgloss.Width(lines[0])
	for _, l := range lines {
		assert.Equal(t, w, lipgloss.Width(l), l)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderSparkline(t *testing.T) {
	assert.Empty(t, RenderSparkline(nil))
	assert.Equal(t, "▁▁▁", RenderSparkline([]float64{5, 5, 5}))
	assert.Equal(t, "▁█", RenderSparkline([]float64{-100, 100}))
}

func TestRenderProgressBar(t *testing.T) {
	assert.Empty(t, RenderProgressBar(1, 0, 10))
	assert.Contains(t, RenderProgressBar(3, 4, 8), "3/4")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1234.5", "1234.5", false},
		{"1234,5", "1234.5", false},
		{"1.234,50", "1234.5", false},
		{"₺1.234,50", "1234.5", false},
		{" -75 ", "-75", false},
		{"", "", true},
		{"on bin", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}
