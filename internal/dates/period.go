package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"financebot/internal/core"
)

type PeriodStatus int

const (
	PeriodRange PeriodStatus = iota
	PeriodAll
	PeriodUnspecified
	PeriodUnrecognized
)

func (s PeriodStatus) String() string {
	switch s {
	case PeriodRange:
		return "range"
	case PeriodAll:
		return "all"
	case PeriodUnspecified:
		return "unspecified"
	case PeriodUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

const (
	LabelAllTime     = "todo o período"
	LabelUnspecified = "período não especificado"
)

var (
	ErrPeriodUnspecified  = errors.New("period not specified")
	ErrPeriodUnrecognized = errors.New("period not recognized")
)

// Period is an inclusive date range. A zero Start or End means that side is
// unbounded; both zero means all time.
type Period struct {
	Start  core.Date
	End    core.Date
	Label  string
	Status PeriodStatus
	Input  string
}

// Bounded reports whether the period restricts dates at all.
func (p Period) Bounded() bool {
	return !p.Start.IsEmpty() || !p.End.IsEmpty()
}

// Err is non-nil for empty and unrecognized inputs. Label still carries the
// user-facing message in both cases.
func (p Period) Err() error {
	switch p.Status {
	case PeriodUnspecified:
		return ErrPeriodUnspecified
	case PeriodUnrecognized:
		return fmt.Errorf("%w: %q", ErrPeriodUnrecognized, p.Input)
	default:
		return nil
	}
}

func (p Period) Contains(d core.Date) bool {
	if !p.Start.IsEmpty() && d.Before(p.Start) {
		return false
	}
	if !p.End.IsEmpty() && d.After(p.End) {
		return false
	}
	return true
}

var (
	monthYearPattern   = regexp.MustCompile(`^([a-z]+)(?:\s+de)?\s+(\d{4})$`)
	slashMonthPattern  = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	isoMonthPattern    = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	periodPrefixFiller = []string{"no mes de ", "mes de ", "em "}
)

// ResolvePeriod maps a phrase to a date range. It never fails loudly: unknown
// input comes back with Status PeriodUnrecognized and a hint in Label.
func (r *Resolver) ResolvePeriod(text string) Period {
	input := strings.TrimSpace(text)
	s := normalize(text)
	if s == "" {
		return Period{Label: LabelUnspecified, Status: PeriodUnspecified}
	}

	today := r.Today()
	switch s {
	case "hoje":
		return Period{Start: today, End: today, Label: "hoje", Input: input}
	case "ontem":
		y := today.AddDays(-1)
		return Period{Start: y, End: y, Label: "ontem", Input: input}
	case "este mes", "mes atual", "esse mes":
		return monthPeriod(today.Year(), today.Month(), input)
	case "mes passado", "ultimo mes":
		prev := today.FirstOfMonth().AddDays(-1)
		return monthPeriod(prev.Year(), prev.Month(), input)
	case "este ano", "ano atual", "esse ano":
		return yearPeriod(today.Year(), input)
	case "ano passado":
		return yearPeriod(today.Year()-1, input)
	case "todo o periodo", "todo periodo", "tudo", "sempre":
		return Period{Label: LabelAllTime, Status: PeriodAll, Input: input}
	}

	for _, prefix := range periodPrefixFiller {
		if rest := strings.TrimPrefix(s, prefix); rest != s && rest != "" {
			s = rest
			break
		}
	}

	if y, m, ok := parseMonth(s, today); ok {
		return monthPeriod(y, m, input)
	}
	if d, ok, numeric := parseNumericDate(s, today); numeric {
		if ok {
			return monthPeriod(d.Year(), d.Month(), input)
		}
		return unrecognized(input)
	}
	if d, ok := r.parseFuzzy(text); ok {
		return monthPeriod(d.Year(), d.Month(), input)
	}
	return unrecognized(input)
}

// parseMonth recognises "<mês>", "<mês> de <aaaa>", "<mês> <aaaa>", "mm/aaaa" and
// "aaaa-mm". A bare month name after the current month means last year.
func parseMonth(s string, today core.Date) (year, month int, ok bool) {
	if m, found := monthsByName[s]; found {
		year = today.Year()
		if m > today.Month() {
			year--
		}
		return year, m, true
	}
	if g := monthYearPattern.FindStringSubmatch(s); g != nil {
		if m, found := monthsByName[g[1]]; found {
			y, _ := strconv.Atoi(g[2])
			return y, m, true
		}
		return 0, 0, false
	}
	if g := slashMonthPattern.FindStringSubmatch(s); g != nil {
		m, _ := strconv.Atoi(g[1])
		y, _ := strconv.Atoi(g[2])
		return y, m, m >= 1 && m <= 12
	}
	if g := isoMonthPattern.FindStringSubmatch(s); g != nil {
		y, _ := strconv.Atoi(g[1])
		m, _ := strconv.Atoi(g[2])
		return y, m, m >= 1 && m <= 12
	}
	return 0, 0, false
}

func monthPeriod(year, month int, input string) Period {
	first := core.NewDate(year, month, 1)
	return Period{
		Start: first,
		End:   first.LastOfMonth(),
		Label: MonthLabel(year, month),
		Input: input,
	}
}

func yearPeriod(year int, input string) Period {
	return Period{
		Start: core.NewDate(year, 1, 1),
		End:   core.NewDate(year, 12, 31),
		Label: strconv.Itoa(year),
		Input: input,
	}
}

func unrecognized(input string) Period {
	return Period{
		Label:  fmt.Sprintf("Período '%s' não reconhecido. Tente 'mês passado', 'este mês', 'julho de 2023', etc.", input),
		Status: PeriodUnrecognized,
		Input:  input,
	}
}
