package language

import (
	"fmt"
	"sort"

	"github.com/ziadkadry99/intentlang/internal/schema"
)

// IntentLanguageData is the language data of one intent in one language.
//
// ExampleUtterances are the messages the intent is trained on.
// SlotFillingPrompts map a parameter name to the prompts used to ask for it
// when it could not be tagged in the user message. Responses are the
// messages sent once the intent is matched, by response group.
type IntentLanguageData struct {
	ExampleUtterances  []ExampleUtterance
	SlotFillingPrompts map[string][]string
	Responses          map[ResponseGroup][]IntentResponse
}

// Empty returns language data with every section empty.
func Empty() *IntentLanguageData {
	return &IntentLanguageData{
		ExampleUtterances:  []ExampleUtterance{},
		SlotFillingPrompts: map[string][]string{},
		Responses:          map[ResponseGroup][]IntentResponse{},
	}
}

// ResponsesFor returns the responses suitable for group. When GroupRich is
// requested and no rich response is defined, the default responses are
// returned instead.
func (d *IntentLanguageData) ResponsesFor(group ResponseGroup) []IntentResponse {
	if group == GroupRich && len(d.Responses[GroupRich]) == 0 {
		group = GroupDefault
	}
	return d.Responses[group]
}

// Section keys of a language document.
const (
	sectionExamples           = "examples"
	sectionSlotFillingPrompts = "slot_filling_prompts"
	sectionResponses          = "responses"
)

// Load builds the language data of intentName from doc, the decoded content
// of its language file:
//
//	examples:
//	  - an example utterance with $foo{42} as a parameter
//	slot_filling_prompts:
//	  foo:
//	    - Tell me the value for "foo"
//	responses:
//	  default:
//	    - text: A plain text response
//	  rich:
//	    - quick_replies: [a reply chip, another one]
//
// A nil or empty document yields empty language data. Every failure is
// returned as a *LanguageLoadError wrapping the cause.
func Load(doc any, s schema.Schema, intentName string) (*IntentLanguageData, error) {
	data, err := load(doc, intentRef{name: intentName, schema: s})
	if err != nil {
		return nil, &LanguageLoadError{IntentName: intentName, Cause: err}
	}
	return data, nil
}

// LoadIntent is Load for an intent that provides its own schema.
func LoadIntent(doc any, intent SchemaProvider) (*IntentLanguageData, error) {
	return Load(doc, intent.ParameterSchema(), intent.IntentName())
}

func load(doc any, intent SchemaProvider) (*IntentLanguageData, error) {
	result := Empty()
	if doc == nil {
		return result, nil
	}
	root, ok := asMap(doc)
	if !ok {
		return nil, &MalformedDocumentError{Reason: fmt.Sprintf("expected a mapping, found %s", describe(doc))}
	}

	examples, err := loadExamples(root[sectionExamples], intent)
	if err != nil {
		return nil, err
	}
	result.ExampleUtterances = examples

	prompts, err := loadSlotFillingPrompts(root[sectionSlotFillingPrompts])
	if err != nil {
		return nil, err
	}
	result.SlotFillingPrompts = prompts

	responses, err := loadResponses(root[sectionResponses])
	if err != nil {
		return nil, err
	}
	result.Responses = responses

	return result, nil
}

func loadExamples(v any, intent SchemaProvider) ([]ExampleUtterance, error) {
	if v == nil {
		return []ExampleUtterance{}, nil
	}
	items, ok := asList(v)
	if !ok {
		return nil, &MalformedDocumentError{Section: sectionExamples, Reason: fmt.Sprintf("expected a list, found %s", describe(v))}
	}
	out := make([]ExampleUtterance, 0, len(items))
	for i, item := range items {
		text, ok := item.(string)
		if !ok {
			return nil, &MalformedDocumentError{Section: sectionExamples, Reason: fmt.Sprintf("item %d: expected a string, found %s", i, describe(item))}
		}
		ex, err := NewExampleUtterance(text, intent)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}

// loadSlotFillingPrompts only checks the structure of the section. Parameter
// names are not checked against the schema.
func loadSlotFillingPrompts(v any) (map[string][]string, error) {
	out := map[string][]string{}
	if v == nil {
		return out, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, &MalformedDocumentError{Section: sectionSlotFillingPrompts, Reason: fmt.Sprintf("expected a mapping, found %s", describe(v))}
	}
	for name, raw := range m {
		items, ok := asList(raw)
		if !ok {
			return nil, &MalformedDocumentError{Section: sectionSlotFillingPrompts, Reason: fmt.Sprintf("parameter %q: expected a list of prompts, found %s", name, describe(raw))}
		}
		prompts := make([]string, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, &MalformedDocumentError{Section: sectionSlotFillingPrompts, Reason: fmt.Sprintf("parameter %q: prompt %d: expected a string, found %s", name, i, describe(item))}
			}
			prompts[i] = s
		}
		out[name] = prompts
	}
	return out, nil
}

func loadResponses(v any) (map[ResponseGroup][]IntentResponse, error) {
	out := map[ResponseGroup][]IntentResponse{}
	if v == nil {
		return out, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, &MalformedDocumentError{Section: sectionResponses, Reason: fmt.Sprintf("expected a mapping of response groups, found %s", describe(v))}
	}

	// Sorted so that the reported error does not depend on map order.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group, err := ParseResponseGroup(key)
		if err != nil {
			return nil, err
		}
		responses, err := loadResponseGroup(group, m[key])
		if err != nil {
			return nil, err
		}
		out[group] = responses
	}
	return out, nil
}

func loadResponseGroup(group ResponseGroup, v any) ([]IntentResponse, error) {
	if v == nil {
		return []IntentResponse{}, nil
	}
	items, ok := asList(v)
	if !ok {
		return nil, &MalformedDocumentError{Section: sectionResponses, Reason: fmt.Sprintf("group %q: expected a list of responses, found %s", group, describe(v))}
	}
	out := make([]IntentResponse, 0, len(items))
	for i, item := range items {
		r, err := parseResponseItem(group, item)
		if err != nil {
			return nil, fmt.Errorf("responses.%s[%d]: %w", group, i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// parseResponseItem handles one single-key record such as {text: ...}.
func parseResponseItem(group ResponseGroup, item any) (IntentResponse, error) {
	record, ok := asMap(item)
	if !ok || len(record) != 1 {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("expected a record with a single response type key, found %s", describeRecord(record, item))}
	}
	var key string
	var value any
	for k, v := range record {
		key, value = k, v
	}

	kind := ResponseKind(key)
	if !isResponseKind(kind) {
		return nil, &UnsupportedResponseTypeError{Key: key}
	}
	if !group.Allows(kind) {
		return nil, &InvalidResponseGroupError{Group: group, Kind: kind}
	}
	return ParseResponse(key, value)
}

func isResponseKind(k ResponseKind) bool {
	for _, known := range responseKinds {
		if k == known {
			return true
		}
	}
	return false
}

func describeRecord(record map[string]any, item any) string {
	if record == nil {
		return describe(item)
	}
	return fmt.Sprintf("a mapping with %d keys", len(record))
}
