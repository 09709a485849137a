// Package vars holds named values the model can reference indirectly in
// function-call arguments.
package vars

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Binding is one stored variable. Identity is the name; last write wins.
type Binding struct {
	Value       any    `yaml:"value" json:"value"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        string `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// NotFoundError reports a lookup of an unset variable.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("variable %q is not set", e.Name)
}

// Store is a process-lifetime mapping of variable names to bindings. It is
// read and written across orchestration runs; access is single-threaded by
// design, so there is no locking.
type Store struct {
	bindings map[string]Binding
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{bindings: make(map[string]Binding)}
}

// Set stores value under name and returns the name.
func (s *Store) Set(name string, value any, description, kind string) string {
	s.bindings[name] = Binding{Value: value, Description: description, Kind: kind}
	return name
}

// Get returns the value bound to name, or a *NotFoundError.
func (s *Store) Get(name string) (any, error) {
	b, ok := s.bindings[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return b.Value, nil
}

// Has reports whether name is bound.
func (s *Store) Has(name string) bool {
	_, ok := s.bindings[name]
	return ok
}

// List returns a copy of all bindings.
func (s *Store) List() map[string]Binding {
	out := make(map[string]Binding, len(s.bindings))
	for k, v := range s.bindings {
		out[k] = v
	}
	return out
}

// Names returns all bound names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for k := range s.bindings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Describe renders a human-readable summary of current bindings for the
// system instruction. Values are elided; the model addresses them by name.
func (s *Store) Describe() string {
	if len(s.bindings) == 0 {
		return "(no variables stored)"
	}
	var b strings.Builder
	for _, name := range s.Names() {
		bind := s.bindings[name]
		fmt.Fprintf(&b, "- %s", name)
		if bind.Kind != "" {
			fmt.Fprintf(&b, " (%s)", bind.Kind)
		}
		if bind.Description != "" {
			fmt.Fprintf(&b, ": %s", bind.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// LoadFile merges a YAML seed file of bindings into the store:
//
//	current_user:
//	  value: alice
//	  description: signed-in account name
//	  kind: text
func (s *Store) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read variable seed %s", path)
	}
	var seed map[string]Binding
	if err := yaml.Unmarshal(b, &seed); err != nil {
		return errors.Wrapf(err, "parse variable seed %s", path)
	}
	for name, bind := range seed {
		s.bindings[name] = bind
	}
	return nil
}
