// Package plan computes plan validity when a student buys more months.
package plan

import (
	"errors"
	"time"
)

// DaysPerMonth is the length of a purchased month. Plans are sold in blocks
// of 30 days, not calendar months.
const DaysPerMonth = 30

// MaxMonths is the largest purchase accepted in one renewal.
const MaxMonths = 120

// ErrInvalidMonths is returned for a number of months outside 1..MaxMonths.
var ErrInvalidMonths = errors.New("months must be between 1 and 120")

// NewValidity returns the validity after buying months on top of current.
//
// An expired plan restarts from now, so time already lost is not credited.
// An active plan is extended from its current expiry.
func NewValidity(current time.Time, months int, now time.Time) (time.Time, error) {
	if months <= 0 || months > MaxMonths {
		return time.Time{}, ErrInvalidMonths
	}

	days := months * DaysPerMonth

	if current.Before(now) {
		return now.AddDate(0, 0, days), nil
	}
	return current.AddDate(0, 0, days), nil
}
