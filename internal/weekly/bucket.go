// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package weekly

import (
	"fmt"
	"time"
)

// Bucket identifies one ISO-8601 week. Year is the ISO week-year, which
// differs from the calendar year for a few days around January 1.
type Bucket struct {
	Week int
	Year int
}

// BucketFor returns the ISO week containing t, evaluated in UTC.
func BucketFor(t time.Time) Bucket {
	year, week := t.UTC().ISOWeek()
	return Bucket{Week: week, Year: year}
}

// Start returns Monday 00:00 UTC of the bucket's week.
func (b Bucket) Start() time.Time {
	// January 4 is always in week 1.
	jan4 := time.Date(b.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset)
	return monday.AddDate(0, 0, 7*(b.Week-1))
}

// End returns the exclusive end of the week, the following Monday 00:00 UTC.
func (b Bucket) End() time.Time {
	return b.Start().AddDate(0, 0, 7)
}

// Contains reports whether t falls within [Start, End).
func (b Bucket) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(b.Start()) && t.Before(b.End())
}

func (b Bucket) String() string {
	return fmt.Sprintf("%d-W%02d", b.Year, b.Week)
}
