// Package dates turns pt-BR date and period phrases into calendar dates and
// inclusive ranges, relative to an injected clock.
package dates

import (
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"financebot/internal/core"
)

// Resolver is stateless apart from its collaborators; "today" is read from the
// clock on every call and nothing is memoized.
type Resolver struct {
	now   func() time.Time
	loc   *time.Location
	fuzzy FuzzyParser
}

type Option func(*Resolver)

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func WithFuzzyParser(p FuzzyParser) Option {
	return func(r *Resolver) {
		if p != nil {
			r.fuzzy = p
		}
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		now:   time.Now,
		loc:   time.Local,
		fuzzy: NewDateParser(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today returns the current calendar date in the resolver's location.
func (r *Resolver) Today() core.Date {
	return core.DateOf(r.now().In(r.loc))
}

var (
	dmyPattern   = regexp.MustCompile(`^(\d{1,2})([/.-])(\d{1,2})(?:([/.-])(\d{2}|\d{4}))?$`)
	isoPattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	numericShape = regexp.MustCompile(`^\d{1,4}(?:[/.-]\d{1,4}){1,2}$`)
)

var dayKeywords = map[string]int{
	"hoje":      0,
	"ontem":     -1,
	"anteontem": -2,
	"amanha":    1,
}

// ResolveDate parses text into a single date. On failure it returns today when
// defaultToToday is set, otherwise (zero, false).
func (r *Resolver) ResolveDate(text string, defaultToToday bool) (core.Date, bool) {
	today := r.Today()
	fail := func() (core.Date, bool) {
		if defaultToToday {
			return today, true
		}
		return core.Date{}, false
	}

	s := normalize(text)
	if s == "" {
		return fail()
	}
	if offset, ok := dayKeywords[s]; ok {
		return today.AddDays(offset), true
	}

	if d, ok, numeric := parseNumericDate(s, today); numeric {
		if !ok {
			slog.Debug("Rejected impossible numeric date", "text", text)
			return fail()
		}
		return d, true
	}

	if d, ok := r.parseFuzzy(text); ok {
		return d, true
	}
	return fail()
}

func (r *Resolver) parseFuzzy(text string) (core.Date, bool) {
	t, err := r.fuzzy.Parse(text, r.now().In(r.loc))
	if err != nil || t.IsZero() {
		return core.Date{}, false
	}
	return core.DateOf(t), true
}

// parseNumericDate handles DD/MM/YYYY, DD-MM-YYYY, DD.MM.YYYY and YYYY-MM-DD, the
// two digit year variants, and DD/MM, DD-MM, DD.MM. Both separators must match.
// numeric reports whether the input looked like a numeric date at all, so that
// impossible days never reach the fuzzy parser.
func parseNumericDate(s string, today core.Date) (d core.Date, ok, numeric bool) {
	if !numericShape.MatchString(s) {
		return core.Date{}, false, false
	}

	if m := isoPattern.FindStringSubmatch(s); m != nil {
		y, mo, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if !core.ValidDate(y, mo, day) {
			return core.Date{}, false, true
		}
		return core.NewDate(y, mo, day), true, true
	}

	m := dmyPattern.FindStringSubmatch(s)
	if m == nil {
		return core.Date{}, false, true
	}
	day, mo := atoi(m[1]), atoi(m[3])
	if m[5] == "" {
		y := today.Year()
		if !core.ValidDate(y, mo, day) {
			return core.Date{}, false, true
		}
		d = core.NewDate(y, mo, day)
		// A day without a year never refers to the future.
		if d.After(today) {
			if !core.ValidDate(y-1, mo, day) {
				return core.Date{}, false, true
			}
			d = core.NewDate(y-1, mo, day)
		}
		return d, true, true
	}
	if m[4] != m[2] {
		return core.Date{}, false, true
	}
	y := atoi(m[5])
	if len(m[5]) == 2 {
		y = expandYear(y)
	}
	if !core.ValidDate(y, mo, day) {
		return core.Date{}, false, true
	}
	return core.NewDate(y, mo, day), true, true
}

// expandYear applies the 1970 pivot: 00-69 is 20yy, 70-99 is 19yy.
func expandYear(yy int) int {
	if yy < 70 {
		return 2000 + yy
	}
	return 1900 + yy
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
