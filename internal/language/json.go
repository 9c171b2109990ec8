package language

import (
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/intentlang/internal/schema"
)

// chunkJSON is the wire form of an UtteranceChunk.
type chunkJSON struct {
	Type           string            `json:"type"`
	Text           string            `json:"text,omitempty"`
	EntityType     schema.EntityType `json:"entity_type,omitempty"`
	ParameterName  string            `json:"parameter_name,omitempty"`
	ParameterValue string            `json:"parameter_value,omitempty"`
}

func (c TextChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(chunkJSON{Type: "text", Text: c.Text})
}

func (c EntityChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(chunkJSON{
		Type:           "entity",
		EntityType:     c.EntityType,
		ParameterName:  c.ParameterName,
		ParameterValue: c.ParameterValue,
	})
}

type exampleJSON struct {
	Text   string           `json:"text"`
	Chunks []UtteranceChunk `json:"chunks"`
}

func (e ExampleUtterance) MarshalJSON() ([]byte, error) {
	chunks := e.chunks
	if chunks == nil {
		chunks = []UtteranceChunk{}
	}
	return json.Marshal(exampleJSON{Text: e.text, Chunks: chunks})
}

// UnmarshalJSON restores an example previously encoded with MarshalJSON.
// The chunks are trusted as they were validated when first built.
func (e *ExampleUtterance) UnmarshalJSON(b []byte) error {
	var raw struct {
		Text   string      `json:"text"`
		Chunks []chunkJSON `json:"chunks"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	chunks := make([]UtteranceChunk, 0, len(raw.Chunks))
	for i, c := range raw.Chunks {
		switch c.Type {
		case "text":
			chunks = append(chunks, TextChunk{Text: c.Text})
		case "entity":
			chunks = append(chunks, EntityChunk{
				EntityType:     c.EntityType,
				ParameterName:  c.ParameterName,
				ParameterValue: c.ParameterValue,
			})
		default:
			return fmt.Errorf("chunk %d: unknown chunk type %q", i, c.Type)
		}
	}
	if got := Annotate(chunks); got != raw.Text {
		return fmt.Errorf("chunks render %q, expected %q", got, raw.Text)
	}
	e.text = raw.Text
	e.chunks = chunks
	return nil
}

func (r TextResponse) MarshalJSON() ([]byte, error) {
	type alias TextResponse
	return json.Marshal(struct {
		Type ResponseKind `json:"type"`
		alias
	}{KindText, alias(r)})
}

func (r QuickRepliesResponse) MarshalJSON() ([]byte, error) {
	type alias QuickRepliesResponse
	return json.Marshal(struct {
		Type ResponseKind `json:"type"`
		alias
	}{KindQuickReplies, alias(r)})
}

func (r ImageResponse) MarshalJSON() ([]byte, error) {
	type alias ImageResponse
	return json.Marshal(struct {
		Type ResponseKind `json:"type"`
		alias
	}{KindImage, alias(r)})
}

func (r CardResponse) MarshalJSON() ([]byte, error) {
	type alias CardResponse
	return json.Marshal(struct {
		Type ResponseKind `json:"type"`
		alias
	}{KindCard, alias(r)})
}

func (r CustomPayloadResponse) MarshalJSON() ([]byte, error) {
	type alias CustomPayloadResponse
	return json.Marshal(struct {
		Type ResponseKind `json:"type"`
		alias
	}{KindCustomPayload, alias(r)})
}

// DecodeResponse decodes a response encoded with its MarshalJSON method,
// using the "type" field to pick the concrete type. Numbers inside a custom
// payload come back as float64 whatever their type when loaded.
func DecodeResponse(b []byte) (IntentResponse, error) {
	var head struct {
		Type ResponseKind `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case KindText:
		var r TextResponse
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		return r, nil
	case KindQuickReplies:
		var r QuickRepliesResponse
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		qr, err := NewQuickRepliesResponse(r.Replies)
		if err != nil {
			return nil, err
		}
		return qr, nil
	case KindImage:
		var r ImageResponse
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		return r, nil
	case KindCard:
		var r CardResponse
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		return r, nil
	case KindCustomPayload:
		var r CustomPayloadResponse
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, &UnsupportedResponseTypeError{Key: string(head.Type)}
}

type languageDataJSON struct {
	ExampleUtterances  []ExampleUtterance                 `json:"example_utterances"`
	SlotFillingPrompts map[string][]string                `json:"slot_filling_prompts"`
	Responses          map[ResponseGroup][]IntentResponse `json:"responses"`
}

func (d IntentLanguageData) MarshalJSON() ([]byte, error) {
	out := languageDataJSON{
		ExampleUtterances:  d.ExampleUtterances,
		SlotFillingPrompts: d.SlotFillingPrompts,
		Responses:          d.Responses,
	}
	if out.ExampleUtterances == nil {
		out.ExampleUtterances = []ExampleUtterance{}
	}
	if out.SlotFillingPrompts == nil {
		out.SlotFillingPrompts = map[string][]string{}
	}
	if out.Responses == nil {
		out.Responses = map[ResponseGroup][]IntentResponse{}
	}
	return json.Marshal(out)
}

func (d *IntentLanguageData) UnmarshalJSON(b []byte) error {
	var raw struct {
		ExampleUtterances  []ExampleUtterance                   `json:"example_utterances"`
		SlotFillingPrompts map[string][]string                  `json:"slot_filling_prompts"`
		Responses          map[ResponseGroup][]json.RawMessage `json:"responses"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	result := Empty()
	if raw.ExampleUtterances != nil {
		result.ExampleUtterances = raw.ExampleUtterances
	}
	if raw.SlotFillingPrompts != nil {
		result.SlotFillingPrompts = raw.SlotFillingPrompts
	}
	for group, items := range raw.Responses {
		if _, err := ParseResponseGroup(string(group)); err != nil {
			return err
		}
		responses := make([]IntentResponse, 0, len(items))
		for i, item := range items {
			r, err := DecodeResponse(item)
			if err != nil {
				return fmt.Errorf("responses.%s[%d]: %w", group, i, err)
			}
			responses = append(responses, r)
		}
		result.Responses[group] = responses
	}
	*d = *result
	return nil
}
