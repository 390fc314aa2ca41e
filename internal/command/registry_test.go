package command

import (
	"reflect"
	"testing"
)

func TestRegistryNormalizesPatterns(t *testing.T) {
	r := NewRegistry()
	r.Register(&Definition{
		Patterns:    []string{"  Open Chrome ", "LAUNCH CHROME"},
		Handler:     noop(),
		Description: "chrome",
		Category:    CategoryApps,
	})

	got := r.All()[0].Patterns
	want := []string{"open chrome", "launch chrome"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("patterns = %v, want %v", got, want)
	}
}

func TestRegistrySkipsInvalid(t *testing.T) {
	r := NewRegistry()
	r.Register(
		&Definition{Patterns: nil, Handler: noop(), Description: "no patterns"},
		&Definition{Patterns: []string{"ok"}, Handler: nil, Description: "no handler"},
		&Definition{Patterns: []string{"good"}, Handler: noop(), Description: "good", Category: CategoryApps},
	)

	if len(r.All()) != 1 {
		t.Fatalf("registered %d commands, want 1", len(r.All()))
	}
	if r.All()[0].Description != "good" {
		t.Errorf("kept %q, want good", r.All()[0].Description)
	}
}

func TestRegistryDuplicatePatternFirstWins(t *testing.T) {
	r := NewRegistry()
	r.Register(
		&Definition{Patterns: []string{"lock"}, Handler: noop(), Description: "first", Category: CategoryPower},
		&Definition{Patterns: []string{"lock"}, Handler: noop(), Description: "second", Category: CategoryPower},
	)

	// Both stay registered (preserved behavior), but matching resolves to
	// the first.
	m := NewMatcher(r, DefaultThreshold)
	res := m.Match("lock")
	if !res.Matched() || res.Command.Description != "first" {
		t.Fatalf("duplicate pattern resolved to %+v, want first", res)
	}
}

func TestRegistryByCategoryAndCategories(t *testing.T) {
	r := testRegistry()

	apps := r.ByCategory(CategoryApps)
	if len(apps) != 1 || apps[0].Description != "Open Google Chrome" {
		t.Errorf("ByCategory(apps) = %v", apps)
	}
	if got := r.ByCategory("nonexistent"); got != nil {
		t.Errorf("ByCategory(nonexistent) = %v, want nil", got)
	}

	want := []string{CategoryApps, CategoryBrowser, CategorySystem}
	if got := r.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
}
