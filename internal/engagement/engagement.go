// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engagement ranks questions, replies and reviews by net
// engagement (likes minus dislikes).
package engagement

import (
	"cmp"
	"slices"
)

// Scoreable is anything carrying like and dislike counts.
type Scoreable interface {
	Engagement() (likes, dislikes int)
}

// NetScore returns likes minus dislikes. Negative values are kept.
func NetScore(item Scoreable) int {
	likes, dislikes := item.Engagement()
	return likes - dislikes
}

// Rank returns a new slice with items ordered by descending net score.
// Items with equal scores keep their input order. The input is not
// modified.
func Rank[T Scoreable](items []T) []T {
	ranked := slices.Clone(items)
	if len(ranked) < 2 {
		return ranked
	}
	slices.SortStableFunc(ranked, func(a, b T) int {
		return cmp.Compare(NetScore(b), NetScore(a))
	})
	return ranked
}

// Top returns the highest ranked item. ok is false when items is empty.
// On ties the earliest item wins.
func Top[T Scoreable](items []T) (top T, ok bool) {
	if len(items) == 0 {
		return top, false
	}
	best := 0
	bestScore := NetScore(items[0])
	for i := 1; i < len(items); i++ {
		if s := NetScore(items[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return items[best], true
}
