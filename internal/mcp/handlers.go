package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/intentlang/internal/catalog"
	"github.com/ziadkadry99/intentlang/internal/language"
)

// handleListIntents lists the entries of the current catalog snapshot.
func (s *Server) handleListIntents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := catalog.ListFilter{
		Language: request.GetString("language", ""),
		Status:   catalog.Status(request.GetString("status", "")),
	}

	entries, err := s.store.List(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing intents failed: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No intents found. The catalog may be empty. Run `intentlang index` to build it."), nil
	}

	return mcp.NewToolResultText(formatEntries(entries)), nil
}

// handleGetIntentLanguage returns the language data of one intent as JSON.
func (s *Server) handleGetIntentLanguage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	intent, err := request.RequireString("intent")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: intent"), nil
	}
	lang, err := request.RequireString("language")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: language"), nil
	}

	entry, err := s.store.Get(ctx, intent, lang)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading catalog failed: %v", err)), nil
	}
	if entry == nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"No language data for intent %q in %q. Run `intentlang index` after adding %s/%s.yaml.",
			intent, lang, lang, intent,
		)), nil
	}
	if entry.Status == catalog.StatusFailed {
		return mcp.NewToolResultError(entry.Error), nil
	}

	var v any = entry.Data
	if g := request.GetString("group", ""); g != "" {
		group, err := language.ParseResponseGroup(g)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		v = entry.Data.ResponsesFor(group)
	}
	return jsonResult(v)
}

// handleGetEntity returns the entries of a custom entity as JSON.
func (s *Server) handleGetEntity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entity, err := request.RequireString("entity")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: entity"), nil
	}
	lang, err := request.RequireString("language")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: language"), nil
	}

	entry, err := s.store.Entities(ctx, entity, lang)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading catalog failed: %v", err)), nil
	}
	if entry == nil {
		return mcp.NewToolResultError(fmt.Sprintf("No entity %q in %q.", entity, lang)), nil
	}
	if entry.Status == catalog.StatusFailed {
		return mcp.NewToolResultError(entry.Error), nil
	}
	return jsonResult(entry.Entries)
}

// handleTokenizeExample splits an example utterance into chunks.
func (s *Server) handleTokenizeExample(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("intent")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: intent"), nil
	}
	example, err := request.RequireString("example")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: example"), nil
	}

	intent, ok := s.intents.Intent(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown intent %q", name)), nil
	}
	chunks, err := language.Tokenize(example, intent.ParameterSchema(), intent.Name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatChunks(chunks)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// formatEntries renders catalog entries as a readable list.
func formatEntries(entries []catalog.IntentEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d entries:\n\n", len(entries))
	for _, e := range entries {
		if e.Status == catalog.StatusFailed {
			fmt.Fprintf(&b, "- %s [%s] FAILED: %s\n", e.Intent, e.Language, e.Error)
			continue
		}
		fmt.Fprintf(&b, "- %s [%s] %d examples\n", e.Intent, e.Language, e.ExampleCount)
	}
	return b.String()
}

// formatChunks renders one chunk per line.
func formatChunks(chunks []language.UtteranceChunk) string {
	if len(chunks) == 0 {
		return "(empty example)"
	}
	var b strings.Builder
	for i, c := range chunks {
		switch c := c.(type) {
		case language.TextChunk:
			fmt.Fprintf(&b, "%d. text   %q\n", i+1, c.Text)
		case language.EntityChunk:
			fmt.Fprintf(&b, "%d. entity %s=%q (%s)\n", i+1, c.ParameterName, c.ParameterValue, c.EntityType)
		}
	}
	return b.String()
}
