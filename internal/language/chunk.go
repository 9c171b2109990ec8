// Package language parses the language resources of an intent: example
// utterances annotated with parameter references, slot filling prompts and
// responses grouped by rendering capability.
//
// An example utterance references a parameter as $name{value}, where value is
// an example of the parameter's entity:
//
//	examples:
//	  - My name is $user_name{Guido}!
//
// There is no escaping. Markers that do not match the syntax, such as "$x{}"
// or an unbalanced brace, are kept as literal text.
package language

import (
	"regexp"
	"strings"

	"github.com/ziadkadry99/intentlang/internal/schema"
)

// UtteranceChunk is one segment of a tokenized example utterance: either a
// TextChunk or an EntityChunk.
type UtteranceChunk interface {
	isChunk()
}

// TextChunk is a literal piece of an example utterance.
type TextChunk struct {
	Text string
}

// EntityChunk is a parameter reference within an example utterance.
// ParameterValue is the example text standing for an instance of EntityType.
type EntityChunk struct {
	EntityType     schema.EntityType
	ParameterName  string
	ParameterValue string
}

func (TextChunk) isChunk()   {}
func (EntityChunk) isChunk() {}

var exampleParameterRe = regexp.MustCompile(`\$([A-Za-z0-9_]+)\{([^}]+)\}`)

// Tokenize splits example into literal and entity chunks, validating every
// parameter reference against s. intentName is only used in errors.
func Tokenize(example string, s schema.Schema, intentName string) ([]UtteranceChunk, error) {
	var chunks []UtteranceChunk
	last := 0
	for _, m := range exampleParameterRe.FindAllStringSubmatchIndex(example, -1) {
		start, end := m[0], m[1]
		name := example[m[2]:m[3]]
		value := example[m[4]:m[5]]

		if start > last {
			chunks = append(chunks, TextChunk{Text: example[last:start]})
		}

		param, ok := s[name]
		if !ok {
			return nil, &UnknownParameterError{Example: example, ParameterName: name, IntentName: intentName}
		}
		chunks = append(chunks, EntityChunk{
			EntityType:     param.EntityType,
			ParameterName:  name,
			ParameterValue: value,
		})
		last = end
	}

	if last < len(example) {
		chunks = append(chunks, TextChunk{Text: example[last:]})
	}
	return chunks, nil
}

// Annotate is the inverse of Tokenize: it renders chunks back into an
// annotated example string.
func Annotate(chunks []UtteranceChunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		switch c := c.(type) {
		case TextChunk:
			sb.WriteString(c.Text)
		case EntityChunk:
			sb.WriteString("$")
			sb.WriteString(c.ParameterName)
			sb.WriteString("{")
			sb.WriteString(c.ParameterValue)
			sb.WriteString("}")
		}
	}
	return sb.String()
}

// PlainText returns the utterance as a user would type it, with parameter
// values in place of their annotations.
func PlainText(chunks []UtteranceChunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		switch c := c.(type) {
		case TextChunk:
			sb.WriteString(c.Text)
		case EntityChunk:
			sb.WriteString(c.ParameterValue)
		}
	}
	return sb.String()
}
