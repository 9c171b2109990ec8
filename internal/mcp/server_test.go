package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/intentlang/internal/agent"
	"github.com/ziadkadry99/intentlang/internal/catalog"
	"github.com/ziadkadry99/intentlang/internal/db"
	"github.com/ziadkadry99/intentlang/internal/language"
	"github.com/ziadkadry99/intentlang/internal/schema"
)

var orderPizza = schema.NewBuilder("order_pizza").
	Param("pizza", "pizza_type").
	Optional("count", schema.SysInteger, 1).
	MustBuild()

// setupTestServer creates a Server over an in-memory catalog holding one
// loaded and one failed intent.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	a := agent.New("pizza_bot")
	if err := a.Register(orderPizza); err != nil {
		t.Fatalf("Register: %v", err)
	}

	data, err := language.LoadIntent(map[string]any{
		"examples": []any{"I want $count{2} $pizza{margherita}", "pizza please"},
		"responses": map[string]any{
			"default": []any{map[string]any{"text": "On its way"}},
		},
	}, orderPizza)
	if err != nil {
		t.Fatalf("LoadIntent: %v", err)
	}

	report := &agent.LoadReport{
		Agent:     "pizza_bot",
		Languages: []language.Code{language.English, language.Italian},
		Intents: []agent.IntentResult{
			{Intent: "order_pizza", Language: language.English, Data: data},
			{Intent: "order_pizza", Language: language.Italian, Err: &language.LanguageLoadError{
				IntentName: "order_pizza",
				Cause:      errors.New("language file not found, expected it/order_pizza.yaml"),
			}},
		},
		Entities: []agent.EntityResult{
			{Entity: "pizza_type", Language: language.English, Entries: []language.EntityEntry{
				{Value: "margherita", Synonyms: []string{"margherita", "plain"}},
			}},
		},
	}

	store := catalog.NewStore(database)
	if _, err := store.Replace(context.Background(), report, "fp"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	return NewServer(store, a)
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result, resultText(result)
}

func resultText(result *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func TestNewServer(t *testing.T) {
	srv := setupTestServer(t)
	if srv.mcp == nil {
		t.Fatal("expected mcp server to be initialized")
	}
	if srv.store == nil {
		t.Fatal("expected store to be set")
	}
}

func TestToolDefinitions(t *testing.T) {
	tools := []struct {
		name string
		tool mcp.Tool
	}{
		{"list_intents", listIntentsTool},
		{"get_intent_language", getIntentLanguageTool},
		{"get_entity", getEntityTool},
		{"tokenize_example", tokenizeExampleTool},
	}

	for _, tt := range tools {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.name {
				t.Errorf("expected tool name %q, got %q", tt.name, tt.tool.Name)
			}
			if tt.tool.Description == "" {
				t.Error("expected non-empty description")
			}
		})
	}
}

func TestHandleListIntents(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name    string
		args    map[string]any
		want    []string
		notWant []string
	}{
		{
			name: "all",
			args: map[string]any{},
			want: []string{"Found 2 entries", "order_pizza [en] 2 examples", "order_pizza [it] FAILED"},
		},
		{
			name:    "by language",
			args:    map[string]any{"language": "en"},
			want:    []string{"Found 1 entries", "[en]"},
			notWant: []string{"[it]"},
		},
		{
			name:    "failed only",
			args:    map[string]any{"status": "failed"},
			want:    []string{"[it] FAILED", "language file not found"},
			notWant: []string{"[en]"},
		},
		{
			name: "no match",
			args: map[string]any{"language": "de"},
			want: []string{"No intents found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, text := callTool(t, srv.handleListIntents, tt.args)
			if result.IsError {
				t.Fatalf("unexpected tool error: %s", text)
			}
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("expected %q in output:\n%s", w, text)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(text, w) {
					t.Errorf("did not expect %q in output:\n%s", w, text)
				}
			}
		})
	}
}

func TestHandleGetIntentLanguage(t *testing.T) {
	srv := setupTestServer(t)

	result, text := callTool(t, srv.handleGetIntentLanguage, map[string]any{"intent": "order_pizza", "language": "en"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text)
	}
	var data language.IntentLanguageData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		t.Fatalf("result is not language data: %v\n%s", err, text)
	}
	if len(data.ExampleUtterances) != 2 {
		t.Errorf("expected 2 examples, got %d", len(data.ExampleUtterances))
	}

	// Rich falls back to the default responses.
	result, text = callTool(t, srv.handleGetIntentLanguage, map[string]any{"intent": "order_pizza", "language": "en", "group": "rich"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "On its way") {
		t.Errorf("expected default responses for rich group, got:\n%s", text)
	}

	errorCases := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing intent", map[string]any{"language": "en"}, "intent"},
		{"missing language", map[string]any{"intent": "order_pizza"}, "language"},
		{"unknown pair", map[string]any{"intent": "greet", "language": "en"}, "No language data"},
		{"failed pair", map[string]any{"intent": "order_pizza", "language": "it"}, "language file not found"},
		{"bad group", map[string]any{"intent": "order_pizza", "language": "en", "group": "fancy"}, "fancy"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			result, text := callTool(t, srv.handleGetIntentLanguage, tt.args)
			if !result.IsError {
				t.Fatalf("expected tool error, got:\n%s", text)
			}
			if !strings.Contains(text, tt.want) {
				t.Errorf("expected %q in error, got %q", tt.want, text)
			}
		})
	}
}

func TestHandleGetEntity(t *testing.T) {
	srv := setupTestServer(t)

	result, text := callTool(t, srv.handleGetEntity, map[string]any{"entity": "pizza_type", "language": "en"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "margherita") || !strings.Contains(text, "plain") {
		t.Errorf("unexpected entity output:\n%s", text)
	}

	result, _ = callTool(t, srv.handleGetEntity, map[string]any{"entity": "pizza_type", "language": "it"})
	if !result.IsError {
		t.Error("expected error for a missing entity")
	}
}

func TestHandleTokenizeExample(t *testing.T) {
	srv := setupTestServer(t)

	result, text := callTool(t, srv.handleTokenizeExample, map[string]any{
		"intent":  "order_pizza",
		"example": "I want $count{2} $pizza{diavola}",
	})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", text)
	}
	for _, want := range []string{`1. text   "I want "`, `entity count="2" (sys.integer)`, `entity pizza="diavola" (pizza_type)`} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}

	result, text = callTool(t, srv.handleTokenizeExample, map[string]any{
		"intent":  "order_pizza",
		"example": "to $street{Via Roma}",
	})
	if !result.IsError || !strings.Contains(text, "street") {
		t.Errorf("expected unknown parameter error, got %q", text)
	}

	result, _ = callTool(t, srv.handleTokenizeExample, map[string]any{"intent": "greet", "example": "hi"})
	if !result.IsError {
		t.Error("expected error for unknown intent")
	}
}
