package core

import (
	"fmt"
	"strings"

	"github.com/BlackPhoenix134/flecs-go/native"
)

// term is one entry of a filter expression. "Position, !Frozen" parses into
// a required Position term and an excluded Frozen term.
type term struct {
	name    string
	exclude bool
}

// boundTerm is a term resolved against the component and entity names of a
// world.
type boundTerm struct {
	id      native.EntityId
	exclude bool
}

// parseExpr splits a comma separated filter expression into terms. An empty
// expression is valid and yields no terms, which turns the system into a
// task that runs once per tick.
func parseExpr(expr string) ([]term, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	parts := strings.Split(expr, ",")
	terms := make([]term, 0, len(parts))

	for _, part := range parts {
		name := strings.TrimSpace(part)

		var exclude bool
		if strings.HasPrefix(name, "!") {
			exclude = true
			name = strings.TrimSpace(name[1:])
		}

		if !validTermName(name) {
			return nil, fmt.Errorf("invalid term %q in expression %q", part, expr)
		}

		terms = append(terms, term{name: name, exclude: exclude})
	}

	return terms, nil
}

func validTermName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '.':
		default:
			return false
		}
	}

	return true
}

// resolveTerms binds term names to entity ids. Every name must already be
// registered with the engine.
func resolveTerms(terms []term, lookup func(name string) native.EntityId) ([]boundTerm, error) {
	bound := make([]boundTerm, 0, len(terms))

	for _, t := range terms {
		id := lookup(t.name)
		if id == 0 {
			return nil, fmt.Errorf("unknown term %q", t.name)
		}

		bound = append(bound, boundTerm{id: id, exclude: t.exclude})
	}

	return bound, nil
}
