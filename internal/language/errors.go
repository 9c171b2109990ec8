package language

import (
	"fmt"
	"strings"
)

// UnknownParameterError is returned when an example utterance references a
// parameter the intent does not declare.
type UnknownParameterError struct {
	Example       string
	ParameterName string
	IntentName    string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("example %q references parameter $%s, but intent %s does not define such parameter",
		e.Example, e.ParameterName, e.IntentName)
}

// MalformedResponseError is returned when a response record does not have
// the shape its kind requires.
type MalformedResponseError struct {
	Kind   ResponseKind
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Kind == "" {
		return "malformed response: " + e.Reason
	}
	return fmt.Sprintf("malformed %s response: %s", e.Kind, e.Reason)
}

// MalformedPayloadError is returned when a custom payload is not a single
// name mapped to a mapping of fields. KeyCount is set when the record has
// the wrong number of keys.
type MalformedPayloadError struct {
	Name     string
	KeyCount int
	Reason   string
}

func (e *MalformedPayloadError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("custom payload %q: %s", e.Name, e.Reason)
	case e.Reason != "":
		return "malformed custom payload: " + e.Reason
	default:
		return fmt.Sprintf("custom payload must contain a single key naming the payload, found %d keys", e.KeyCount)
	}
}

// QuickReplyLimit is the maximum length, in characters, of a quick reply.
const QuickReplyLimit = 20

// QuickReplyTooLongError is returned when a quick reply exceeds
// QuickReplyLimit characters.
type QuickReplyTooLongError struct {
	Reply  string
	Length int
}

func (e *QuickReplyTooLongError) Error() string {
	return fmt.Sprintf("quick replies must be at most %d chars, quick reply %q is %d chars long",
		QuickReplyLimit, e.Reply, e.Length)
}

// UnsupportedResponseTypeError is returned for a response record whose key
// is not a known response kind.
type UnsupportedResponseTypeError struct {
	Key string
}

func (e *UnsupportedResponseTypeError) Error() string {
	return fmt.Sprintf("unsupported response type %q (expected one of %s)", e.Key, joinKinds(responseKinds))
}

// UnsupportedResponseGroupError is returned for a response group outside
// the fixed set.
type UnsupportedResponseGroupError struct {
	Group string
}

func (e *UnsupportedResponseGroupError) Error() string {
	return fmt.Sprintf("unsupported response group %q in 'responses': only 'default' and 'rich' are supported", e.Group)
}

// InvalidResponseGroupError is returned when a response kind is placed in a
// group that does not accept it.
type InvalidResponseGroupError struct {
	Group ResponseGroup
	Kind  ResponseKind
}

func (e *InvalidResponseGroupError) Error() string {
	return fmt.Sprintf("response type %q found in response group %q: only %s are allowed there, define a 'rich' group for rich responses",
		e.Kind, e.Group, joinKinds(defaultGroupKinds))
}

// MalformedDocumentError is returned when a section of a language document
// does not have the expected structure.
type MalformedDocumentError struct {
	Section string
	Reason  string
}

func (e *MalformedDocumentError) Error() string {
	if e.Section == "" {
		return "malformed language document: " + e.Reason
	}
	return fmt.Sprintf("malformed language document: section %q: %s", e.Section, e.Reason)
}

// LanguageLoadError wraps any failure that occurs while loading the language
// document of an intent.
type LanguageLoadError struct {
	IntentName string
	Cause      error
}

func (e *LanguageLoadError) Error() string {
	return fmt.Sprintf("failed to load language data for intent %s: %v", e.IntentName, e.Cause)
}

func (e *LanguageLoadError) Unwrap() error { return e.Cause }

// EntityLoadError wraps any failure that occurs while loading the language
// document of a custom entity.
type EntityLoadError struct {
	EntityName string
	Cause      error
}

func (e *EntityLoadError) Error() string {
	return fmt.Sprintf("failed to load language data for entity %s: %v", e.EntityName, e.Cause)
}

func (e *EntityLoadError) Unwrap() error { return e.Cause }

func joinKinds(kinds []ResponseKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = "'" + string(k) + "'"
	}
	return strings.Join(parts, ", ")
}
