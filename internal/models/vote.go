// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "slices"

// VoteKind is the direction of a single user's vote.
type VoteKind string

const (
	VoteLike    VoteKind = "like"
	VoteDislike VoteKind = "dislike"
)

// Valid reports whether k is a known vote direction.
func (k VoteKind) Valid() bool {
	return k == VoteLike || k == VoteDislike
}

// Votes holds the like/dislike counters of a question or reply together
// with the sets of user IDs behind them. A user appears in at most one of
// LikedBy and DislikedBy, and each counter equals the size of its set.
type Votes struct {
	Likes      int      `json:"likes"`
	Dislikes   int      `json:"dislikes"`
	LikedBy    []string `json:"liked_by"`
	DislikedBy []string `json:"disliked_by"`
}

// Engagement returns the raw like and dislike counts used for ranking.
func (v Votes) Engagement() (likes, dislikes int) {
	return v.Likes, v.Dislikes
}

// Toggle applies a vote from userID. Voting the same way twice withdraws
// the vote; voting the other way moves it. Returns the user's vote after
// the change, or "" when it was withdrawn.
func (v *Votes) Toggle(userID string, kind VoteKind) VoteKind {
	same, other := &v.LikedBy, &v.DislikedBy
	if kind == VoteDislike {
		same, other = other, same
	}

	var result VoteKind
	if slices.Contains(*same, userID) {
		*same = remove(*same, userID)
	} else {
		*same = append(*same, userID)
		*other = remove(*other, userID)
		result = kind
	}

	v.Likes = len(v.LikedBy)
	v.Dislikes = len(v.DislikedBy)
	return result
}

// VoteOf returns the current vote of userID, or "" if none.
func (v Votes) VoteOf(userID string) VoteKind {
	switch {
	case slices.Contains(v.LikedBy, userID):
		return VoteLike
	case slices.Contains(v.DislikedBy, userID):
		return VoteDislike
	default:
		return ""
	}
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(s string) bool { return s == id })
}
