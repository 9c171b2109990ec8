package agent

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ziadkadry99/intentlang/internal/schema"
)

func TestRegister(t *testing.T) {
	a := New("pizza_bot")
	greet := schema.NewBuilder("greet").MustBuild()
	order := schema.NewBuilder("order_pizza").
		Param("pizza", "pizza_type").
		ListParam("toppings", "topping").
		Param("when", schema.SysDate).
		MustBuild()

	if err := a.Register(order); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := a.Register(greet); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := a.Register(greet); err == nil {
		t.Error("expected error registering a duplicate intent")
	}
	if err := a.Register(schema.Intent{Name: "bad__name"}); err == nil {
		t.Error("expected error registering an invalid intent name")
	}

	var names []string
	for _, i := range a.Intents() {
		names = append(names, i.Name)
	}
	if !reflect.DeepEqual(names, []string{"order_pizza", "greet"}) {
		t.Errorf("Intents() = %v, want registration order", names)
	}

	if _, ok := a.Intent("order_pizza"); !ok {
		t.Error("Intent(order_pizza) not found")
	}
	if _, ok := a.Intent("missing"); ok {
		t.Error("Intent(missing) should not be found")
	}

	want := []schema.EntityType{"pizza_type", "topping"}
	if got := a.CustomEntities(); !reflect.DeepEqual(got, want) {
		t.Errorf("CustomEntities() = %v, want %v", got, want)
	}
}

func TestParseManifest(t *testing.T) {
	a, err := ParseManifest([]byte(`
name: example_agent
intents:
  - name: smalltalk.user_name_give
    parameters:
      user_name: sys.person
      friend_names: { entity: sys.person, list: true, default: [Al, John] }
      nickname: { entity: sys.any, default: null }
  - name: greet
`))
	if err != nil {
		t.Fatalf("ParseManifest() error: %v", err)
	}
	if a.Name() != "example_agent" {
		t.Errorf("Name() = %q", a.Name())
	}

	intent, ok := a.Intent("smalltalk.user_name_give")
	if !ok {
		t.Fatal("intent not registered")
	}
	tests := []struct {
		name     string
		required bool
		isList   bool
		def      any
	}{
		{"user_name", true, false, nil},
		{"friend_names", false, true, []any{"Al", "John"}},
		{"nickname", false, false, nil},
	}
	for _, tt := range tests {
		p, ok := intent.Params.Lookup(tt.name)
		if !ok {
			t.Errorf("parameter %s missing", tt.name)
			continue
		}
		if p.Required != tt.required || p.IsList != tt.isList || !reflect.DeepEqual(p.Default, tt.def) {
			t.Errorf("parameter %s = %+v", tt.name, p)
		}
		if p.EntityType == "" {
			t.Errorf("parameter %s has no entity type", tt.name)
		}
	}

	greet, ok := a.Intent("greet")
	if !ok || len(greet.Params) != 0 {
		t.Errorf("greet = %+v, %v", greet, ok)
	}
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing name", "intents: []\n", "agent name is required"},
		{"unknown top level field", "name: a\nintent: []\n", "not found"},
		{"unknown parameter field", "name: a\nintents:\n  - name: x\n    parameters:\n      p: {entity: sys.any, lst: true}\n", "unknown parameter field"},
		{"invalid intent name", "name: a\nintents:\n  - name: 1abc\n", "1abc"},
		{"list default not a list", "name: a\nintents:\n  - name: x\n    parameters:\n      p: {entity: sys.any, list: true, default: one}\n", "non-list default"},
		{"duplicate intent", "name: a\nintents:\n  - name: x\n  - name: x\n", "already registered"},
		{"parameter sequence", "name: a\nintents:\n  - name: x\n    parameters:\n      p: [sys.any]\n", "must be an entity type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	first := New("bot")
	if err := first.Register(schema.NewBuilder("greet").MustBuild()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	c := NewCurrent(first)
	if _, ok := c.Intent("greet"); !ok {
		t.Error("expected greet in the first agent")
	}

	second := New("bot")
	if err := second.Register(schema.NewBuilder("farewell").MustBuild()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	c.Store(second)
	if _, ok := c.Intent("greet"); ok {
		t.Error("greet should be gone after Store")
	}
	if _, ok := c.Intent("farewell"); !ok {
		t.Error("expected farewell after Store")
	}
	if c.Load() != second {
		t.Error("Load should return the stored agent")
	}

	if _, ok := (&Current{}).Intent("greet"); ok {
		t.Error("empty holder should not find intents")
	}
}
