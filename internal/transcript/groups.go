// Package transcript groups conversation contents into atomic units that
// keep function calls and their responses together.
package transcript

import "github.com/calyptra/vertex-agent/internal/genai"

// GroupKind denotes the atomic unit type.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupCall
)

// Group describes a contiguous span of contents [Start, End) in the original
// slice. A call group is a model turn carrying functionCall parts plus the
// user turns that follow it (result text and functionResponse turns), up to
// the next model turn.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into contents
	End   int // exclusive index into contents
	// Complete is true for call groups whose every requested function name
	// has a functionResponse in the following user turns.
	Complete bool
}

// GroupContents splits contents into groups.
// Invariants:
//   - A call group starts at a model turn containing at least one
//     functionCall part and extends through all immediately following user
//     turns.
//   - Completeness requires every called name to appear among the
//     functionResponse parts of those user turns; error responses count.
//   - Everything else is a singleton.
func GroupContents(contents []genai.Content) []Group {
	groups := make([]Group, 0, len(contents))
	for i := 0; i < len(contents); {
		c := contents[i]
		called := functionCallNames(c)
		if c.Role == genai.RoleModel && len(called) > 0 {
			j := i + 1
			responded := make(map[string]struct{})
			for j < len(contents) && contents[j].Role == genai.RoleUser {
				for _, name := range functionResponseNames(contents[j]) {
					responded[name] = struct{}{}
				}
				j++
			}
			groups = append(groups, Group{
				Kind:     GroupCall,
				Start:    i,
				End:      j,
				Complete: coversAll(responded, called),
			})
			i = j
			continue
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1, Complete: true})
		i++
	}
	return groups
}

// TrimDangling drops trailing incomplete call groups so a persisted
// transcript never ends with a functionCall awaiting its response.
func TrimDangling(contents []genai.Content) []genai.Content {
	groups := GroupContents(contents)
	end := len(contents)
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i].Complete {
			break
		}
		end = groups[i].Start
	}
	return contents[:end]
}

// Helpers

func functionCallNames(c genai.Content) []string {
	var names []string
	for _, p := range c.Parts {
		if p.FunctionCall != nil {
			names = append(names, p.FunctionCall.Name)
		}
	}
	return names
}

func functionResponseNames(c genai.Content) []string {
	var names []string
	for _, p := range c.Parts {
		if p.FunctionResponse != nil {
			names = append(names, p.FunctionResponse.Name)
		}
	}
	return names
}

// coversAll checks that every required name has a response.
func coversAll(have map[string]struct{}, required []string) bool {
	for _, name := range required {
		if _, ok := have[name]; !ok {
			return false
		}
	}
	return true
}
