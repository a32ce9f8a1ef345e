package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriod_Keywords(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		in    string
		start string
		end   string
		label string
	}{
		{"hoje", "2024-01-15", "2024-01-15", "hoje"},
		{"ontem", "2024-01-14", "2024-01-14", "ontem"},
		{"este mês", "2024-01-01", "2024-01-31", "Janeiro de 2024"},
		{"Mês Atual", "2024-01-01", "2024-01-31", "Janeiro de 2024"},
		{"esse mes", "2024-01-01", "2024-01-31", "Janeiro de 2024"},
		{"mês passado", "2023-12-01", "2023-12-31", "Dezembro de 2023"},
		{"ultimo mes", "2023-12-01", "2023-12-31", "Dezembro de 2023"},
		{"este ano", "2024-01-01", "2024-12-31", "2024"},
		{"ano passado", "2023-01-01", "2023-12-31", "2023"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p := r.ResolvePeriod(tt.in)
			require.NoError(t, p.Err())
			assert.Equal(t, PeriodRange, p.Status)
			assert.Equal(t, tt.start, p.Start.String())
			assert.Equal(t, tt.end, p.End.String())
			assert.Equal(t, tt.label, p.Label)
			assert.True(t, p.Bounded())
		})
	}
}

func TestResolvePeriod_AllTime(t *testing.T) {
	r := newTestResolver()

	for _, in := range []string{"todo o período", "todo o periodo", "tudo", "sempre"} {
		p := r.ResolvePeriod(in)
		assert.Equal(t, PeriodAll, p.Status, in)
		assert.Equal(t, LabelAllTime, p.Label, in)
		assert.False(t, p.Bounded(), in)
		assert.NoError(t, p.Err(), in)
	}
}

func TestResolvePeriod_Empty(t *testing.T) {
	r := newTestResolver()

	p := r.ResolvePeriod("   ")
	assert.Equal(t, PeriodUnspecified, p.Status)
	assert.Equal(t, LabelUnspecified, p.Label)
	assert.False(t, p.Bounded())
	assert.ErrorIs(t, p.Err(), ErrPeriodUnspecified)
}

func TestResolvePeriod_Months(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		in    string
		start string
		end   string
		label string
	}{
		{"fevereiro de 2024", "2024-02-01", "2024-02-29", "Fevereiro de 2024"},
		{"fevereiro 2023", "2023-02-01", "2023-02-28", "Fevereiro de 2023"},
		{"Março de 2023", "2023-03-01", "2023-03-31", "Março de 2023"},
		{"julho de 2023", "2023-07-01", "2023-07-31", "Julho de 2023"},
		{"dezembro", "2023-12-01", "2023-12-31", "Dezembro de 2023"},
		{"janeiro", "2024-01-01", "2024-01-31", "Janeiro de 2024"},
		{"em maio", "2023-05-01", "2023-05-31", "Maio de 2023"},
		{"04/2024", "2024-04-01", "2024-04-30", "Abril de 2024"},
		{"2024-02", "2024-02-01", "2024-02-29", "Fevereiro de 2024"},
		{"10/02/2024", "2024-02-01", "2024-02-29", "Fevereiro de 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p := r.ResolvePeriod(tt.in)
			require.NoError(t, p.Err())
			assert.Equal(t, tt.start, p.Start.String())
			assert.Equal(t, tt.end, p.End.String())
			assert.Equal(t, tt.label, p.Label)
		})
	}
}

func TestResolvePeriod_Unrecognized(t *testing.T) {
	r := newTestResolver()

	for _, in := range []string{"xyz", "13/2024", "31/02/2024", "marte de 2024"} {
		p := r.ResolvePeriod(in)
		assert.Equal(t, PeriodUnrecognized, p.Status, in)
		assert.True(t, p.Start.IsEmpty(), in)
		assert.True(t, p.End.IsEmpty(), in)
		assert.Equal(t, "Período '"+in+"' não reconhecido. Tente 'mês passado', 'este mês', 'julho de 2023', etc.", p.Label)
		assert.True(t, errors.Is(p.Err(), ErrPeriodUnrecognized), in)
	}
}

func TestResolvePeriod_FuzzyMonth(t *testing.T) {
	r := newTestResolver(WithFuzzyParser(FuzzyFunc(func(text string, now time.Time) (time.Time, error) {
		return time.Date(2023, 9, 20, 0, 0, 0, 0, time.UTC), nil
	})))

	p := r.ResolvePeriod("meados de setembro do ano passado")
	require.NoError(t, p.Err())
	assert.Equal(t, "2023-09-01", p.Start.String())
	assert.Equal(t, "2023-09-30", p.End.String())
}

func TestPeriodContains(t *testing.T) {
	r := newTestResolver()
	p := r.ResolvePeriod("mês passado")

	d, _ := r.ResolveDate("31/12/2023", false)
	assert.True(t, p.Contains(d))
	d, _ = r.ResolveDate("01/01/2024", false)
	assert.False(t, p.Contains(d))

	all := r.ResolvePeriod("tudo")
	assert.True(t, all.Contains(d))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Maio de 2024", MonthLabel(2024, 5))
	assert.Equal(t, "", MonthLabel(2024, 13))
}
