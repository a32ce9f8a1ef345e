package dates

import (
	"errors"
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

var errFuzzyNoMatch = errors.New("no date found")

// FuzzyParser is the last resort for free-form text such as "15 de maio" or
// "3 dias atrás". It must never panic; failures are reported as errors.
type FuzzyParser interface {
	Parse(text string, now time.Time) (time.Time, error)
}

// FuzzyFunc adapts a function to FuzzyParser.
type FuzzyFunc func(text string, now time.Time) (time.Time, error)

func (f FuzzyFunc) Parse(text string, now time.Time) (time.Time, error) { return f(text, now) }

// NoFuzzy disables the fallback entirely.
var NoFuzzy FuzzyParser = FuzzyFunc(func(string, time.Time) (time.Time, error) {
	return time.Time{}, errFuzzyNoMatch
})

// DateParser wraps go-dateparser restricted to Portuguese, day-first ordering and
// past-preferred dates.
type DateParser struct {
	languages []string
}

func NewDateParser() *DateParser {
	return &DateParser{languages: []string{"pt"}}
}

func (p *DateParser) Parse(text string, now time.Time) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = time.Time{}, errFuzzyNoMatch
		}
	}()

	cfg := &dps.Configuration{
		Languages:           p.languages,
		CurrentTime:         now,
		DateOrder:           dps.DMY,
		PreferredDateSource: dps.Past,
	}
	dt, err := dps.Parse(cfg, text)
	if err != nil {
		return time.Time{}, err
	}
	if dt.Time.IsZero() {
		return time.Time{}, errFuzzyNoMatch
	}
	return dt.Time, nil
}
