package command

import (
	log "log/slog"
	"sort"

	"matrix/internal/text"
)

// Registry holds the ordered command table. Registration happens once
// during startup; afterwards the registry is read-only and needs no
// locking. Declaration order is the tie-break authority for matching.
type Registry struct {
	commands []*Definition
}

func NewRegistry() *Registry { return &Registry{} }

// Register appends definitions in order. Patterns are normalized here so
// the matcher never has to. Empty patterns, missing handlers and trigger
// phrases already claimed by an earlier command are reported as warnings;
// the earlier registration keeps winning.
func (r *Registry) Register(defs ...*Definition) {
	seen := make(map[string]string, len(r.commands)*3)
	for _, cmd := range r.commands {
		for _, p := range cmd.Patterns {
			seen[p] = cmd.Description
		}
	}

	for _, def := range defs {
		if len(def.Patterns) == 0 {
			log.Warn("Command has no trigger phrases, skipping", "command", def.Description)
			continue
		}
		if def.Handler == nil {
			log.Warn("Command has no handler, skipping", "command", def.Description)
			continue
		}

		for i, p := range def.Patterns {
			norm := text.Normalize(p)
			def.Patterns[i] = norm
			if owner, dup := seen[norm]; dup {
				log.Warn("Duplicate trigger phrase, first registration wins",
					"pattern", norm, "owner", owner, "command", def.Description)
				continue
			}
			seen[norm] = def.Description
		}

		r.commands = append(r.commands, def)
	}

	log.Info("Command registry ready", "commands", len(r.commands), "categories", len(r.Categories()))
}

// All returns the commands in registration order.
func (r *Registry) All() []*Definition {
	return r.commands
}

// ByCategory returns the commands of one category, registration order kept.
func (r *Registry) ByCategory(category string) []*Definition {
	var out []*Definition
	for _, cmd := range r.commands {
		if cmd.Category == category {
			out = append(out, cmd)
		}
	}
	return out
}

// Categories returns the distinct categories, sorted.
func (r *Registry) Categories() []string {
	set := make(map[string]bool)
	for _, cmd := range r.commands {
		set[cmd.Category] = true
	}

	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
