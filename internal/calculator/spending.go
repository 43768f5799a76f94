package calculator

import (
	"sort"
	"time"

	"github.com/mkale/splitledger/internal/models"
)

// MonthlyTotal is the user's own spending for one calendar month.
// Month is the Unix timestamp of the first instant of the month.
type MonthlyTotal struct {
	Month int64
	Total float64
}

// TotalSpent sums the user's own split share across the given expenses.
// The user's spend on an expense is their split amount, not the full
// expense amount, regardless of who paid.
func TotalSpent(expenses []*models.Expense, userID string) float64 {
	var total float64
	for _, e := range expenses {
		if s := e.SplitFor(userID); s != nil {
			total += s.Amount
		}
	}
	return total
}

// MonthlySpending buckets the user's own split share per calendar month of
// the given year. All twelve months are present, zero-filled, in order.
func MonthlySpending(expenses []*models.Expense, userID string, year int) []MonthlyTotal {
	buckets := make(map[int64]float64, 12)
	for m := time.January; m <= time.December; m++ {
		buckets[time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Unix()] = 0
	}

	for _, e := range expenses {
		s := e.SplitFor(userID)
		if s == nil {
			continue
		}
		d := time.Unix(e.Date, 0).UTC()
		if d.Year() != year {
			continue
		}
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).Unix()
		buckets[start] += s.Amount
	}

	out := make([]MonthlyTotal, 0, len(buckets))
	for month, total := range buckets {
		out = append(out, MonthlyTotal{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
