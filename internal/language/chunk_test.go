package language

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ziadkadry99/intentlang/internal/schema"
)

var testSchema = schema.Schema{
	"user_name": {Name: "user_name", EntityType: schema.SysPerson, Required: true},
	"count":     {Name: "count", EntityType: schema.SysInteger, Required: true},
	"city":      {Name: "city", EntityType: "city_name", IsList: true, Required: true},
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		example string
		want    []UtteranceChunk
	}{
		{
			name:    "empty",
			example: "",
			want:    nil,
		},
		{
			name:    "plain text",
			example: "Hello there",
			want:    []UtteranceChunk{TextChunk{Text: "Hello there"}},
		},
		{
			name:    "entity in the middle",
			example: "My name is $user_name{Guido}!",
			want: []UtteranceChunk{
				TextChunk{Text: "My name is "},
				EntityChunk{EntityType: schema.SysPerson, ParameterName: "user_name", ParameterValue: "Guido"},
				TextChunk{Text: "!"},
			},
		},
		{
			name:    "entity only",
			example: "$user_name{Guido}",
			want: []UtteranceChunk{
				EntityChunk{EntityType: schema.SysPerson, ParameterName: "user_name", ParameterValue: "Guido"},
			},
		},
		{
			name:    "adjacent entities",
			example: "$count{3}$city{Rome}",
			want: []UtteranceChunk{
				EntityChunk{EntityType: schema.SysInteger, ParameterName: "count", ParameterValue: "3"},
				EntityChunk{EntityType: "city_name", ParameterName: "city", ParameterValue: "Rome"},
			},
		},
		{
			name:    "two entities with text between",
			example: "I want $count{2} tickets to $city{Milan} please",
			want: []UtteranceChunk{
				TextChunk{Text: "I want "},
				EntityChunk{EntityType: schema.SysInteger, ParameterName: "count", ParameterValue: "2"},
				TextChunk{Text: " tickets to "},
				EntityChunk{EntityType: "city_name", ParameterName: "city", ParameterValue: "Milan"},
				TextChunk{Text: " please"},
			},
		},
		{
			name:    "value with spaces and punctuation",
			example: "call me $user_name{Guido van Rossum, Jr.}",
			want: []UtteranceChunk{
				TextChunk{Text: "call me "},
				EntityChunk{EntityType: schema.SysPerson, ParameterName: "user_name", ParameterValue: "Guido van Rossum, Jr."},
			},
		},
		{
			name:    "empty value is literal",
			example: "hi $user_name{}",
			want:    []UtteranceChunk{TextChunk{Text: "hi $user_name{}"}},
		},
		{
			name:    "unbalanced brace is literal",
			example: "hi $user_name{Guido",
			want:    []UtteranceChunk{TextChunk{Text: "hi $user_name{Guido"}},
		},
		{
			name:    "dollar without name is literal",
			example: "it costs ${5}",
			want:    []UtteranceChunk{TextChunk{Text: "it costs ${5}"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.example, testSchema, "test_intent")
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.example, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) =\n  %#v\nwant\n  %#v", tt.example, got, tt.want)
			}
			if back := Annotate(got); back != tt.example {
				t.Errorf("Annotate() = %q, want %q", back, tt.example)
			}
		})
	}
}

func TestTokenize_UnknownParameter(t *testing.T) {
	_, err := Tokenize("hello $nobody{Bob}", testSchema, "greet")
	if err == nil {
		t.Fatal("expected error for undeclared parameter")
	}
	var unknown *UnknownParameterError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownParameterError, got %T: %v", err, err)
	}
	if unknown.ParameterName != "nobody" {
		t.Errorf("ParameterName = %q, want nobody", unknown.ParameterName)
	}
	if unknown.IntentName != "greet" {
		t.Errorf("IntentName = %q, want greet", unknown.IntentName)
	}
	if unknown.Example != "hello $nobody{Bob}" {
		t.Errorf("Example = %q", unknown.Example)
	}
}

func TestPlainText(t *testing.T) {
	chunks, err := Tokenize("My name is $user_name{Guido}!", testSchema, "x")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if got := PlainText(chunks); got != "My name is Guido!" {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestNewExampleUtterance(t *testing.T) {
	intent := schema.NewBuilder("user_name_give").Param("user_name", schema.SysPerson).MustBuild()

	ex, err := NewExampleUtterance("I am $user_name{Ada}", intent)
	if err != nil {
		t.Fatalf("NewExampleUtterance error: %v", err)
	}
	if ex.String() != "I am $user_name{Ada}" {
		t.Errorf("String() = %q", ex.String())
	}
	if ex.PlainText() != "I am Ada" {
		t.Errorf("PlainText() = %q", ex.PlainText())
	}
	entities := ex.Entities()
	if len(entities) != 1 || entities[0].ParameterValue != "Ada" {
		t.Errorf("Entities() = %v", entities)
	}

	// Mutating the returned slice must not affect the example.
	chunks := ex.Chunks()
	chunks[0] = TextChunk{Text: "changed"}
	if _, ok := ex.Chunks()[0].(TextChunk); !ok || ex.Chunks()[0].(TextChunk).Text != "I am " {
		t.Error("Chunks() exposed internal state")
	}

	if _, err := NewExampleUtterance("I am $nickname{Ada}", intent); err == nil {
		t.Error("expected construction to fail for undeclared parameter")
	}
}

func TestTokenizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	textGen := gen.AlphaString()
	entityGen := gopter.CombineGens(
		gen.OneConstOf("user_name", "count", "city"),
		gen.AlphaString(),
	).Map(func(vals []interface{}) string {
		return "$" + vals[0].(string) + "{v" + vals[1].(string) + "}"
	})
	exampleGen := gen.SliceOf(gen.OneGenOf(textGen, entityGen)).Map(func(pieces []string) string {
		return strings.Join(pieces, " ")
	})

	properties.Property("annotating the chunks reconstructs the example", prop.ForAll(
		func(example string) bool {
			chunks, err := Tokenize(example, testSchema, "prop")
			return err == nil && Annotate(chunks) == example
		},
		exampleGen,
	))

	properties.Property("text chunks are never empty nor adjacent", prop.ForAll(
		func(example string) bool {
			chunks, err := Tokenize(example, testSchema, "prop")
			if err != nil {
				return false
			}
			prevText := false
			for _, c := range chunks {
				tc, isText := c.(TextChunk)
				if isText && (tc.Text == "" || prevText) {
					return false
				}
				prevText = isText
			}
			return true
		},
		exampleGen,
	))

	properties.Property("entity chunks carry the schema entity type", prop.ForAll(
		func(example string) bool {
			chunks, err := Tokenize(example, testSchema, "prop")
			if err != nil {
				return false
			}
			for _, c := range chunks {
				if ec, ok := c.(EntityChunk); ok {
					if ec.EntityType != testSchema[ec.ParameterName].EntityType {
						return false
					}
				}
			}
			return true
		},
		exampleGen,
	))

	properties.Property("unannotated text is a single chunk", prop.ForAll(
		func(text string) bool {
			chunks, err := Tokenize(text, testSchema, "prop")
			if err != nil {
				return false
			}
			if text == "" {
				return len(chunks) == 0
			}
			return len(chunks) == 1 && chunks[0] == TextChunk{Text: text}
		},
		gen.AnyString().Map(func(s string) string { return strings.ReplaceAll(s, "$", "") }),
	))

	properties.Property("single annotation yields one entity chunk", prop.ForAll(
		func(name, value string) bool {
			chunks, err := Tokenize("$"+name+"{"+value+"}", testSchema, "prop")
			if err != nil || len(chunks) != 1 {
				return false
			}
			ec, ok := chunks[0].(EntityChunk)
			return ok && ec.ParameterName == name && ec.ParameterValue == value
		},
		gen.OneConstOf("user_name", "count", "city"),
		gen.AlphaString().Map(func(s string) string { return "x" + s }),
	))

	properties.Property("undeclared parameters are rejected", prop.ForAll(
		func(name string) bool {
			_, err := Tokenize("say $"+name+"{something}", testSchema, "prop")
			var unknown *UnknownParameterError
			return errors.As(err, &unknown) && unknown.ParameterName == name
		},
		gen.Identifier().Map(func(s string) string { return "zz_" + s }),
	))

	properties.TestingRun(t)
}
