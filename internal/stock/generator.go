// Package stock fabricates deterministic daily price series. Nothing here
// is real market data.
package stock

import (
	"time"

	"market-directory/internal/apperr"
)

const dateLayout = "2006-01-02"

// FixedWindowDays is the span served for a symbol: five 365-day years.
const FixedWindowDays = 5 * 365

var ErrInvalidTimeFrame = apperr.Validation("Invalid time frame")

var lookbackDays = map[string]int{
	"5y": 5 * 365,
	"1y": 365,
	"6m": 182,
	"1m": 30,
	"1d": 1,
}

type Point struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type Generator struct {
	now func() time.Time
}

// NewGenerator returns a generator anchored at now. A nil now means
// time.Now.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// SeedFromName sums the code points of name, wrapping at 2^32.
func SeedFromName(name string) uint32 {
	var seed uint32
	for _, r := range name {
		seed += uint32(r)
	}
	return seed
}

// Days lists the UTC calendar dates from start to end, both included.
func Days(start, end time.Time) []time.Time {
	first := truncateDay(start)
	last := truncateDay(end)

	days := []time.Time{}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Named prices every day in [start, end] uniformly on [100, 200), seeded by
// the name.
func (g *Generator) Named(name string, start, end time.Time) []Point {
	rng := newMT19937(SeedFromName(name))
	return series(Days(start, end), func() float64 { return rng.uniform(100, 200) })
}

// Fixed ignores the symbol: every symbol gets the same seed-0 normal(100, 10)
// series over the last FixedWindowDays days.
func (g *Generator) Fixed(symbol string) []Point {
	end := g.now()
	start := end.AddDate(0, 0, -FixedWindowDays)

	rng := newMT19937(0)
	return series(Days(start, end), func() float64 { return rng.normal(100, 10) })
}

func Lookback(frame string) (int, error) {
	days, ok := lookbackDays[frame]
	if !ok {
		return 0, ErrInvalidTimeFrame
	}
	return days, nil
}

func (g *Generator) ForTimeFrame(name, frame string) ([]Point, error) {
	days, err := Lookback(frame)
	if err != nil {
		return nil, err
	}
	end := g.now()
	return g.Named(name, end.AddDate(0, 0, -days), end), nil
}

func series(days []time.Time, next func() float64) []Point {
	points := make([]Point, len(days))
	for i, d := range days {
		points[i] = Point{Date: d.Format(dateLayout), Price: next()}
	}
	return points
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
