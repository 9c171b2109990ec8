package language

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestIntentLanguageData_JSONRoundTrip(t *testing.T) {
	doc := decode(t, `
examples:
  - I want $count{2} $pizza{margherita}
slot_filling_prompts:
  count:
    - How many?
responses:
  default:
    - text: Coming up
  rich:
    - quick_replies: [Track, Cancel]
    - image: {url: "https://example.com/p.png", title: Pizza}
    - card: {title: Order, subtitle: Two pizzas}
    - custom:
        order_summary:
          total: 12.5
`)
	data, err := LoadIntent(doc, orderPizza)
	if err != nil {
		t.Fatalf("LoadIntent error: %v", err)
	}

	b, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	for _, fragment := range []string{`"type":"quick_replies"`, `"type":"entity"`, `"parameter_name":"pizza"`} {
		if !strings.Contains(string(b), fragment) {
			t.Errorf("encoded data missing %s: %s", fragment, b)
		}
	}

	var back IntentLanguageData
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !reflect.DeepEqual(back.Responses, data.Responses) {
		t.Errorf("responses differ after round trip:\n  %#v\n  %#v", back.Responses, data.Responses)
	}
	if !reflect.DeepEqual(back.SlotFillingPrompts, data.SlotFillingPrompts) {
		t.Errorf("prompts differ: %v", back.SlotFillingPrompts)
	}
	if len(back.ExampleUtterances) != 1 || !reflect.DeepEqual(back.ExampleUtterances[0].Chunks(), data.ExampleUtterances[0].Chunks()) {
		t.Errorf("examples differ: %v", back.ExampleUtterances)
	}
}

func TestIntentLanguageData_MarshalEmpty(t *testing.T) {
	b, err := json.Marshal(IntentLanguageData{})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"example_utterances":[],"slot_filling_prompts":{},"responses":{}}`
	if string(b) != want {
		t.Errorf("Marshal = %s, want %s", b, want)
	}
}

func TestExampleUtterance_UnmarshalRejectsMismatch(t *testing.T) {
	var e ExampleUtterance
	err := json.Unmarshal([]byte(`{"text":"hello","chunks":[{"type":"text","text":"goodbye"}]}`), &e)
	if err == nil {
		t.Error("expected error when chunks do not render the text")
	}
}

func TestDecodeResponse_UnknownType(t *testing.T) {
	if _, err := DecodeResponse([]byte(`{"type":"video"}`)); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestDecodeResponse_PayloadNumbersAreFloats(t *testing.T) {
	r, err := ParseCustomPayload(map[string]any{"location": map[string]any{"lat": 1, "zoom": 12.5}})
	if err != nil {
		t.Fatalf("ParseCustomPayload: %v", err)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded, err := DecodeResponse(b)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	payload := decoded.(CustomPayloadResponse).Payload
	want := map[string]any{"lat": float64(1), "zoom": 12.5}
	if !reflect.DeepEqual(payload, want) {
		t.Errorf("payload = %#v, want %#v", payload, want)
	}
}
