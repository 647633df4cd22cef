// Package slug turns display names into URL-safe identifiers that are unique
// within one entity type.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Placeholder is used when a name normalizes to nothing.
const Placeholder = "unnamed"

type Entity string

const (
	EntityProduct  Entity = "product"
	EntityStore    Entity = "store"
	EntityCategory Entity = "category"
)

var (
	disallowedRegex = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	multiDashRegex  = regexp.MustCompile(`-+`)
)

// Normalize lowercases name and reduces it to [a-z0-9-].
func Normalize(name string) string {
	s := strings.Map(foldSpace, strings.ToLower(name))
	s = disallowedRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, "-")
	s = multiDashRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return Placeholder
	}
	return s
}

// foldSpace maps every Unicode space, such as a no-break space, to ' '.
func foldSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// Candidate returns base for n == 0 and base-n otherwise.
func Candidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// Checker reports whether slug is already used by an entity of the given
// type other than excludeID.
type Checker interface {
	Exists(ctx context.Context, entity Entity, slug string, excludeID string) (bool, error)
}

type Generator struct {
	checker Checker
}

func NewGenerator(checker Checker) *Generator {
	return &Generator{checker: checker}
}

// Generate returns the first free slug for name: base, base-1, base-2, ...
func (g *Generator) Generate(ctx context.Context, name string, entity Entity, excludeID string) (string, error) {
	s, _, err := g.GenerateFrom(ctx, name, entity, excludeID, 0)
	return s, err
}

// GenerateFrom probes counters starting at start and returns the free slug
// together with the counter that produced it. Callers that lose a race at
// insert time retry with counter+1.
func (g *Generator) GenerateFrom(
	ctx context.Context,
	name string,
	entity Entity,
	excludeID string,
	start int,
) (string, int, error) {
	base := Normalize(name)

	for n := start; ; n++ {
		candidate := Candidate(base, n)

		taken, err := g.checker.Exists(ctx, entity, candidate, excludeID)
		if err != nil {
			return "", 0, fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, n, nil
		}
	}
}
