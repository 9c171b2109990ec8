package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listIntentsTool defines the list_intents MCP tool.
var listIntentsTool = mcp.NewTool("list_intents",
	mcp.WithDescription("List the intents of the agent with, for each language, whether its language file loaded and how many example utterances it has."),
	mcp.WithString("language",
		mcp.Description("Only list entries for this language code, e.g. en or it"),
	),
	mcp.WithString("status",
		mcp.Description("Only list entries with this load status"),
		mcp.Enum("loaded", "failed"),
	),
)

// getIntentLanguageTool defines the get_intent_language MCP tool.
var getIntentLanguageTool = mcp.NewTool("get_intent_language",
	mcp.WithDescription("Get the parsed language data of one intent in one language: example utterances split into chunks, slot filling prompts and responses."),
	mcp.WithString("intent",
		mcp.Required(),
		mcp.Description("Intent name"),
	),
	mcp.WithString("language",
		mcp.Required(),
		mcp.Description("Language code"),
	),
	mcp.WithString("group",
		mcp.Description("Only return the responses for this group. Rich falls back to default when no rich response is defined."),
		mcp.Enum("default", "rich"),
	),
)

// getEntityTool defines the get_entity MCP tool.
var getEntityTool = mcp.NewTool("get_entity",
	mcp.WithDescription("Get the values and synonyms of a custom entity in one language."),
	mcp.WithString("entity",
		mcp.Required(),
		mcp.Description("Custom entity name"),
	),
	mcp.WithString("language",
		mcp.Required(),
		mcp.Description("Language code"),
	),
)

// tokenizeExampleTool defines the tokenize_example MCP tool.
var tokenizeExampleTool = mcp.NewTool("tokenize_example",
	mcp.WithDescription("Split an annotated example utterance such as \"I am $user_name{Ada}\" into text and entity chunks, checking parameters against the intent."),
	mcp.WithString("intent",
		mcp.Required(),
		mcp.Description("Intent whose parameters the example may reference"),
	),
	mcp.WithString("example",
		mcp.Required(),
		mcp.Description("Example utterance with $parameter{value} annotations"),
	),
)
