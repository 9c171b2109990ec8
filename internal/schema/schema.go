package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// EntityType identifies the semantic type bound to a parameter. System
// entities are prefixed with "sys."; anything else names a custom entity
// that needs its own language files.
type EntityType string

const (
	SysAny         EntityType = "sys.any"
	SysPerson      EntityType = "sys.person"
	SysInteger     EntityType = "sys.integer"
	SysDate        EntityType = "sys.date"
	SysEmail       EntityType = "sys.email"
	SysURL         EntityType = "sys.url"
	SysPhoneNumber EntityType = "sys.phone-number"
	SysLanguage    EntityType = "sys.language"
	SysColor       EntityType = "sys.color"
	SysMusicArtist EntityType = "sys.music-artist"
	SysMusicGenre  EntityType = "sys.music-genre"
)

// systemEntities is the set of predeclared system entity types.
var systemEntities = map[EntityType]bool{
	SysAny:         true,
	SysPerson:      true,
	SysInteger:     true,
	SysDate:        true,
	SysEmail:       true,
	SysURL:         true,
	SysPhoneNumber: true,
	SysLanguage:    true,
	SysColor:       true,
	SysMusicArtist: true,
	SysMusicGenre:  true,
}

// IsSystem reports whether e is one of the predeclared system entities.
func (e EntityType) IsSystem() bool {
	return systemEntities[e]
}

// SystemEntities returns the predeclared system entity types, sorted.
func SystemEntities() []EntityType {
	out := make([]EntityType, 0, len(systemEntities))
	for e := range systemEntities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Parameter describes one declared intent parameter.
type Parameter struct {
	Name       string     `json:"name" yaml:"name"`
	EntityType EntityType `json:"entity_type" yaml:"entity_type"`
	IsList     bool       `json:"is_list" yaml:"is_list"`
	Required   bool       `json:"required" yaml:"required"`
	Default    any        `json:"default,omitempty" yaml:"default,omitempty"`
}

// Schema maps parameter names to their declaration.
type Schema map[string]Parameter

// Names returns the parameter names in lexical order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the parameter declared under name.
func (s Schema) Lookup(name string) (Parameter, bool) {
	p, ok := s[name]
	return p, ok
}

// Intent is a named intent together with its parameter schema.
type Intent struct {
	Name   string `json:"name"`
	Params Schema `json:"parameters"`
}

// ParameterSchema returns the intent's parameter schema. A nil schema is
// returned as an empty one.
func (i Intent) ParameterSchema() Schema {
	if i.Params == nil {
		return Schema{}
	}
	return i.Params
}

// IntentName returns the intent's name.
func (i Intent) IntentName() string { return i.Name }

var (
	parameterNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	intentNameRe    = regexp.MustCompile(`[^a-zA-Z_.]`)
)

// ValidateIntentName checks that name only contains letters, underscores and
// dots, starts with a letter and has no repeated underscores.
func ValidateIntentName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid intent name: must not be empty")
	}
	if intentNameRe.MatchString(name) {
		return fmt.Errorf("invalid intent name %q: must only contain letters, underscore or dot", name)
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return fmt.Errorf("invalid intent name %q: must start with a letter", name)
	}
	if strings.Contains(name, "__") {
		return fmt.Errorf("invalid intent name %q: must not contain __", name)
	}
	return nil
}

// ValidateParameterName checks that name can be referenced from an example
// utterance annotation.
func ValidateParameterName(name string) error {
	if !parameterNameRe.MatchString(name) {
		return fmt.Errorf("invalid parameter name %q: must match [A-Za-z0-9_]+", name)
	}
	return nil
}
