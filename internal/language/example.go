package language

import "github.com/ziadkadry99/intentlang/internal/schema"

// SchemaProvider supplies the parameter schema of an intent.
type SchemaProvider interface {
	IntentName() string
	ParameterSchema() schema.Schema
}

// ExampleUtterance is one example utterance of an intent. It is validated
// against the intent schema when constructed and never changes afterwards.
type ExampleUtterance struct {
	text   string
	chunks []UtteranceChunk
}

// NewExampleUtterance tokenizes text against the schema of intent. It fails
// if text references an undeclared parameter.
func NewExampleUtterance(text string, intent SchemaProvider) (ExampleUtterance, error) {
	chunks, err := Tokenize(text, intent.ParameterSchema(), intent.IntentName())
	if err != nil {
		return ExampleUtterance{}, err
	}
	return ExampleUtterance{text: text, chunks: chunks}, nil
}

// String returns the annotated example text.
func (e ExampleUtterance) String() string { return e.text }

// Chunks returns the example as a sequence of text and entity chunks.
//
//	"My name is $user_name{Guido}!" ->
//	  TextChunk{"My name is "}
//	  EntityChunk{sys.person, "user_name", "Guido"}
//	  TextChunk{"!"}
func (e ExampleUtterance) Chunks() []UtteranceChunk {
	out := make([]UtteranceChunk, len(e.chunks))
	copy(out, e.chunks)
	return out
}

// Entities returns only the entity chunks of the example.
func (e ExampleUtterance) Entities() []EntityChunk {
	var out []EntityChunk
	for _, c := range e.chunks {
		if ec, ok := c.(EntityChunk); ok {
			out = append(out, ec)
		}
	}
	return out
}

// PlainText returns the example with annotations replaced by their values.
func (e ExampleUtterance) PlainText() string { return PlainText(e.chunks) }

// intentRef adapts a bare schema to SchemaProvider.
type intentRef struct {
	name   string
	schema schema.Schema
}

func (r intentRef) IntentName() string             { return r.name }
func (r intentRef) ParameterSchema() schema.Schema { return r.schema }
