package language

import (
	"fmt"
	"sort"
)

// ParseResponse builds the response of the given kind from the value found
// under its key in a language document.
func ParseResponse(kind string, v any) (IntentResponse, error) {
	var (
		r   IntentResponse
		err error
	)
	switch ResponseKind(kind) {
	case KindText:
		r, err = ParseText(v)
	case KindQuickReplies:
		r, err = ParseQuickReplies(v)
	case KindImage:
		r, err = ParseImage(v)
	case KindCard:
		r, err = ParseCard(v)
	case KindCustomPayload:
		r, err = ParseCustomPayload(v)
	default:
		return nil, &UnsupportedResponseTypeError{Key: kind}
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ParseText accepts either a single string or a list of alternative
// strings:
//
//	- text: This is a response
//	- text:
//	  - This is a response
//	  - This is an alternative response
func ParseText(v any) (TextResponse, error) {
	choices, err := stringOrList(v)
	if err != nil {
		return TextResponse{}, &MalformedResponseError{Kind: KindText, Reason: err.Error()}
	}
	return TextResponse{Choices: choices}, nil
}

// ParseQuickReplies accepts a single reply or a list of replies, each
// rendered as a separate chip.
func ParseQuickReplies(v any) (QuickRepliesResponse, error) {
	replies, err := stringOrList(v)
	if err != nil {
		return QuickRepliesResponse{}, &MalformedResponseError{Kind: KindQuickReplies, Reason: err.Error()}
	}
	return NewQuickRepliesResponse(replies)
}

// ParseImage accepts the image URL as a string, or a mapping with a
// required url and an optional title.
func ParseImage(v any) (ImageResponse, error) {
	if s, ok := v.(string); ok {
		return ImageResponse{URL: s}, nil
	}
	m, ok := asMap(v)
	if !ok {
		return ImageResponse{}, &MalformedResponseError{Kind: KindImage, Reason: fmt.Sprintf("expected a URL or a mapping, found %s", describe(v))}
	}
	fields, err := stringFields(m, []string{"url"}, []string{"title"})
	if err != nil {
		return ImageResponse{}, &MalformedResponseError{Kind: KindImage, Reason: err.Error()}
	}
	return ImageResponse{URL: fields["url"], Title: fields["title"]}, nil
}

// ParseCard accepts a mapping with a required title and optional subtitle,
// image and link.
func ParseCard(v any) (CardResponse, error) {
	m, ok := asMap(v)
	if !ok {
		return CardResponse{}, &MalformedResponseError{Kind: KindCard, Reason: fmt.Sprintf("expected a mapping, found %s", describe(v))}
	}
	fields, err := stringFields(m, []string{"title"}, []string{"subtitle", "image", "link"})
	if err != nil {
		return CardResponse{}, &MalformedResponseError{Kind: KindCard, Reason: err.Error()}
	}
	return CardResponse{
		Title:    fields["title"],
		Subtitle: fields["subtitle"],
		Image:    fields["image"],
		Link:     fields["link"],
	}, nil
}

// ParseCustomPayload accepts a mapping with a single key, the payload name,
// whose value is the mapping of payload fields:
//
//	- custom:
//	    custom_location:
//	      latitude: 45.484907
//	      longitude: 9.203299
func ParseCustomPayload(v any) (CustomPayloadResponse, error) {
	m, ok := asMap(v)
	if !ok {
		return CustomPayloadResponse{}, &MalformedPayloadError{Reason: fmt.Sprintf("expected a mapping in the form 'payload_name: {...}', found %s", describe(v))}
	}
	if len(m) != 1 {
		return CustomPayloadResponse{}, &MalformedPayloadError{KeyCount: len(m)}
	}
	var name string
	var content any
	for k, v := range m {
		name, content = k, v
	}
	payload, ok := asMap(content)
	if !ok {
		return CustomPayloadResponse{}, &MalformedPayloadError{Name: name, KeyCount: 1, Reason: fmt.Sprintf("payload must be a mapping, found %s", describe(content))}
	}
	return CustomPayloadResponse{Name: name, Payload: payload}, nil
}

// stringOrList accepts a string or a sequence of strings.
func stringOrList(v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return append([]string(nil), v...), nil
	}
	if items, ok := asList(v); ok {
		out := make([]string, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d: expected a string, found %s", i, describe(item))
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a string or a list of strings, found %s", describe(v))
}

// stringFields extracts string fields from m. Required fields must be
// present and non-null; unknown keys are rejected.
func stringFields(m map[string]any, required, optional []string) (map[string]string, error) {
	known := make(map[string]bool, len(required)+len(optional))
	for _, k := range required {
		known[k] = true
	}
	for _, k := range optional {
		known[k] = true
	}
	var unknown []string
	for k := range m {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unexpected fields %q", unknown)
	}

	out := make(map[string]string, len(known))
	for k := range known {
		raw, present := m[k]
		if !present || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("field %q: expected a string, found %s", k, describe(raw))
		}
		out[k] = s
	}
	for _, k := range required {
		if _, ok := out[k]; !ok {
			return nil, fmt.Errorf("missing required field %q", k)
		}
	}
	return out, nil
}
