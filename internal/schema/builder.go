package schema

import (
	"errors"
	"fmt"
	"reflect"
)

// Builder assembles an Intent declaration one parameter at a time. Problems
// are collected and reported together by Build.
type Builder struct {
	name   string
	params Schema
	errs   []error
}

// NewBuilder starts the declaration of the intent called name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, params: Schema{}}
}

// Param declares a required, single-valued parameter.
func (b *Builder) Param(name string, entity EntityType) *Builder {
	return b.add(Parameter{Name: name, EntityType: entity, Required: true})
}

// ListParam declares a required, list-valued parameter.
func (b *Builder) ListParam(name string, entity EntityType) *Builder {
	return b.add(Parameter{Name: name, EntityType: entity, IsList: true, Required: true})
}

// Optional declares a single-valued parameter with a default value.
func (b *Builder) Optional(name string, entity EntityType, def any) *Builder {
	return b.add(Parameter{Name: name, EntityType: entity, Default: def})
}

// OptionalList declares a list-valued parameter with a default value, which
// must itself be a slice.
func (b *Builder) OptionalList(name string, entity EntityType, def any) *Builder {
	return b.add(Parameter{Name: name, EntityType: entity, IsList: true, Default: def})
}

// Add declares a fully specified parameter.
func (b *Builder) Add(p Parameter) *Builder {
	return b.add(p)
}

func (b *Builder) add(p Parameter) *Builder {
	if err := ValidateParameterName(p.Name); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	if _, dup := b.params[p.Name]; dup {
		b.errs = append(b.errs, fmt.Errorf("parameter %q declared twice", p.Name))
		return b
	}
	if p.EntityType == "" {
		b.errs = append(b.errs, fmt.Errorf("parameter %q: entity type is required", p.Name))
		return b
	}
	if !p.Required && p.IsList && !isSequence(p.Default) {
		b.errs = append(b.errs, fmt.Errorf("list parameter %q has non-list default value %v", p.Name, p.Default))
		return b
	}
	b.params[p.Name] = p
	return b
}

// Build validates the declaration and returns the Intent.
func (b *Builder) Build() (Intent, error) {
	errs := b.errs
	if err := ValidateIntentName(b.name); err != nil {
		errs = append([]error{err}, errs...)
	}
	if len(errs) > 0 {
		return Intent{}, fmt.Errorf("intent %q: %w", b.name, errors.Join(errs...))
	}

	params := make(Schema, len(b.params))
	for name, p := range b.params {
		params[name] = p
	}
	return Intent{Name: b.name, Params: params}, nil
}

// MustBuild is like Build but panics on error. It is meant for intents
// declared as package-level variables.
func (b *Builder) MustBuild() Intent {
	intent, err := b.Build()
	if err != nil {
		panic(err)
	}
	return intent
}

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
