// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "qaboard/internal/slug"

// Category is one of the fixed topics a question can be tagged with.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// categoryNames is the fixed topic list, in display order.
var categoryNames = []string{
	"Reviews", "Life", "Startups", "Technology", "Career", "Sports",
	"Fitness", "Nutrition", "YouTube", "Instagram", "Facebook", "Movies",
	"Decisions", "Love", "Faith", "Family", "Marketing", "Fashion", "AI",
	"ML", "Insecurities", "College Life", "Fears", "Health Issues", "Jobs",
	"Design", "Video Editing", "Traveling", "Gaming", "Music",
	"Social Media", "Mental Health", "Relationships", "Education",
	"Finance", "Business", "Money", "Politics",
}

var (
	categories     []Category
	categoryBySlug = map[string]string{}
	categoryByName = map[string]bool{}
)

func init() {
	categories = make([]Category, len(categoryNames))
	for i, name := range categoryNames {
		s := slug.Generate(name)
		categories[i] = Category{Name: name, Slug: s}
		categoryBySlug[s] = name
		categoryByName[name] = true
	}
}

// Categories returns a copy of the fixed category list.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsCategory reports whether name is one of the fixed categories.
func IsCategory(name string) bool {
	return categoryByName[name]
}

// CategoryBySlug resolves a URL slug to its category name.
func CategoryBySlug(s string) (string, bool) {
	name, ok := categoryBySlug[s]
	return name, ok
}
