// Package sphere holds the static catalog of the 8 life spheres.
// The set is fixed configuration, not user data: exactly 8 spheres,
// 4 in the personal group and 4 in the social group, immutable at runtime.
package sphere

import (
	"errors"
	"fmt"
)

// Group classifies a sphere as inward-facing or outward-facing.
type Group string

const (
	GroupPersonal Group = "personal"
	GroupSocial   Group = "social"
)

// Lang identifies a display-label language.
type Lang string

const (
	LangEN Lang = "en"
	LangRU Lang = "ru"
)

// langs lists every language a sphere must carry a label for.
var langs = []Lang{LangEN, LangRU}

// ErrNotFound is returned when a sphere key or ID does not exist.
var ErrNotFound = errors.New("sphere not found")

// Sphere is one fixed life category.
type Sphere struct {
	ID     int             `json:"id"`
	Key    string          `json:"key"`
	Labels map[Lang]string `json:"labels"`
	Color  string          `json:"color"`
	Icon   string          `json:"icon"`
	Group  Group           `json:"group"`

	// FinanceCapable marks spheres where a financial-balance sub-score
	// is meaningful. Elsewhere the finance weight is redistributed.
	FinanceCapable bool `json:"finance_capable"`
}

// Label returns the display name for lang, falling back to English.
func (s Sphere) Label(lang Lang) string {
	if l, ok := s.Labels[lang]; ok {
		return l
	}
	return s.Labels[LangEN]
}

var spheres = []Sphere{
	{ID: 1, Key: "health", Labels: map[Lang]string{LangEN: "Health", LangRU: "Здоровье"}, Color: "#4CAF50", Icon: "heart", Group: GroupPersonal},
	{ID: 2, Key: "mind", Labels: map[Lang]string{LangEN: "Mind", LangRU: "Развитие"}, Color: "#9C27B0", Icon: "brain", Group: GroupPersonal},
	{ID: 3, Key: "work", Labels: map[Lang]string{LangEN: "Work", LangRU: "Карьера"}, Color: "#2196F3", Icon: "briefcase", Group: GroupPersonal},
	{ID: 4, Key: "finance", Labels: map[Lang]string{LangEN: "Finance", LangRU: "Финансы"}, Color: "#FF9800", Icon: "wallet", Group: GroupPersonal, FinanceCapable: true},
	{ID: 5, Key: "family", Labels: map[Lang]string{LangEN: "Family", LangRU: "Семья"}, Color: "#E91E63", Icon: "home", Group: GroupSocial},
	{ID: 6, Key: "friends", Labels: map[Lang]string{LangEN: "Friends", LangRU: "Друзья"}, Color: "#00BCD4", Icon: "users", Group: GroupSocial},
	{ID: 7, Key: "community", Labels: map[Lang]string{LangEN: "Community", LangRU: "Общество"}, Color: "#795548", Icon: "globe", Group: GroupSocial},
	{ID: 8, Key: "leisure", Labels: map[Lang]string{LangEN: "Leisure", LangRU: "Отдых"}, Color: "#FFC107", Icon: "sun", Group: GroupSocial},
}

var (
	byKey = make(map[string]Sphere, len(spheres))
	byID  = make(map[int]Sphere, len(spheres))
)

func init() {
	if err := validate(); err != nil {
		panic(fmt.Sprintf("sphere catalog invalid: %v", err))
	}
	for _, s := range spheres {
		byKey[s.Key] = s
		byID[s.ID] = s
	}
}

// validate enforces the catalog invariants at package init.
// A broken catalog is a programming error, so failure panics.
func validate() error {
	if len(spheres) != 8 {
		return fmt.Errorf("want 8 spheres, have %d", len(spheres))
	}
	keys := make(map[string]bool)
	ids := make(map[int]bool)
	groups := map[Group]int{}
	for _, s := range spheres {
		if keys[s.Key] {
			return fmt.Errorf("duplicate key %q", s.Key)
		}
		if ids[s.ID] {
			return fmt.Errorf("duplicate id %d", s.ID)
		}
		keys[s.Key] = true
		ids[s.ID] = true
		groups[s.Group]++
		for _, lang := range langs {
			if s.Labels[lang] == "" {
				return fmt.Errorf("sphere %q missing %s label", s.Key, lang)
			}
		}
	}
	if groups[GroupPersonal] != 4 || groups[GroupSocial] != 4 {
		return fmt.Errorf("want 4 personal + 4 social, have %d + %d",
			groups[GroupPersonal], groups[GroupSocial])
	}
	return nil
}

// List returns all 8 spheres ordered by ID.
func List() []Sphere {
	out := make([]Sphere, len(spheres))
	copy(out, spheres)
	return out
}

// ByKey looks up a sphere by its slug.
func ByKey(key string) (Sphere, error) {
	s, ok := byKey[key]
	if !ok {
		return Sphere{}, fmt.Errorf("key %q: %w", key, ErrNotFound)
	}
	return s, nil
}

// ByID looks up a sphere by its numeric ID.
func ByID(id int) (Sphere, error) {
	s, ok := byID[id]
	if !ok {
		return Sphere{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// Personal returns the 4 personal-group spheres in catalog order.
func Personal() []Sphere {
	return group(GroupPersonal)
}

// Social returns the 4 social-group spheres in catalog order.
func Social() []Sphere {
	return group(GroupSocial)
}

func group(g Group) []Sphere {
	out := make([]Sphere, 0, 4)
	for _, s := range spheres {
		if s.Group == g {
			out = append(out, s)
		}
	}
	return out
}
