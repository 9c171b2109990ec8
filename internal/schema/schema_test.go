package schema

import (
	"strings"
	"testing"
)

func TestBuilder_ParameterFlags(t *testing.T) {
	intent, err := NewBuilder("smalltalk.greet_friends").
		Param("required_param", SysPerson).
		ListParam("required_list_param", SysPerson).
		Optional("optional_param", SysPerson, "John").
		OptionalList("optional_list_param", SysPerson, []string{"Al", "John"}).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	tests := []struct {
		name     string
		isList   bool
		required bool
	}{
		{"required_param", false, true},
		{"required_list_param", true, true},
		{"optional_param", false, false},
		{"optional_list_param", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := intent.ParameterSchema().Lookup(tt.name)
			if !ok {
				t.Fatalf("parameter %q not in schema", tt.name)
			}
			if p.Name != tt.name {
				t.Errorf("Name = %q, want %q", p.Name, tt.name)
			}
			if p.EntityType != SysPerson {
				t.Errorf("EntityType = %q, want %q", p.EntityType, SysPerson)
			}
			if p.IsList != tt.isList {
				t.Errorf("IsList = %v, want %v", p.IsList, tt.isList)
			}
			if p.Required != tt.required {
				t.Errorf("Required = %v, want %v", p.Required, tt.required)
			}
		})
	}

	if p := intent.Params["optional_param"]; p.Default != "John" {
		t.Errorf("optional_param default = %v, want John", p.Default)
	}
}

func TestBuilder_NoParams(t *testing.T) {
	intent, err := NewBuilder("hello").Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(intent.ParameterSchema()) != 0 {
		t.Errorf("expected empty schema, got %v", intent.ParameterSchema())
	}
}

func TestBuilder_ListDefaultMustBeSequence(t *testing.T) {
	_, err := NewBuilder("greet_friends").
		OptionalList("friend_names", SysPerson, "Al").
		Build()
	if err == nil {
		t.Fatal("expected error for non-list default on list parameter")
	}
	if !strings.Contains(err.Error(), "friend_names") {
		t.Errorf("error should name the parameter, got: %v", err)
	}
}

func TestBuilder_CollectsErrors(t *testing.T) {
	_, err := NewBuilder("_bad").
		Param("x", SysAny).
		Param("x", SysAny).
		Param("not-valid", SysAny).
		Param("y", "").
		Build()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"must start with a letter", "declared twice", "not-valid", "entity type is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should contain %q", msg, want)
		}
	}
}

func TestMustBuild_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild should panic on invalid declaration")
		}
	}()
	NewBuilder("bad name").MustBuild()
}

func TestValidateIntentName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"hello", false},
		{"smalltalk.user_name_give", false},
		{"", true},
		{".hello", true},
		{"_hello", true},
		{"hello__world", true},
		{"hello-world", true},
		{"hello1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIntentName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIntentName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestEntityType_IsSystem(t *testing.T) {
	if !SysPerson.IsSystem() {
		t.Error("sys.person should be a system entity")
	}
	if EntityType("pizza_type").IsSystem() {
		t.Error("pizza_type should be a custom entity")
	}
	all := SystemEntities()
	if len(all) != 11 {
		t.Errorf("expected 11 system entities, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Errorf("SystemEntities not sorted: %v", all)
		}
	}
}

func TestSchema_Names(t *testing.T) {
	s := Schema{
		"b": {Name: "b", EntityType: SysAny},
		"a": {Name: "a", EntityType: SysAny},
	}
	names := s.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
	if (Intent{Name: "x"}).ParameterSchema() == nil {
		t.Error("ParameterSchema should never be nil")
	}
}
