package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Descriptions are what an agent sees when choosing a
// tool, so they state what the tool does and what it needs, nothing else.

var quickAddToolDef = mcp.NewTool("content_quick_add",
	mcp.WithDescription("Capture a new content idea. Creates the record remotely and mirrors it locally."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Title of the idea")),
)

var updateToolDef = mcp.NewTool("content_update",
	mcp.WithDescription("Edit a content item. Only the provided fields change; the local mirror is updated even if the remote write fails."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id or unique id prefix")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("status", mcp.Description("Pipeline stage: Idea, Drafting, Ready or Published")),
	mcp.WithArray("platforms", mcp.Description("Target platforms; an empty array clears them"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("body", mcp.Description("Markdown body")),
	mcp.WithString("notes", mcp.Description("Free-form notes")),
	mcp.WithString("scheduled_at", mcp.Description("Publication date, RFC 3339")),
	mcp.WithBoolean("clear_schedule", mcp.Description("Remove the publication date")),
)

var listToolDef = mcp.NewTool("content_list",
	mcp.WithDescription("List content items from the local mirror, newest edit first. Run content_sync for fresh data."),
	mcp.WithString("status", mcp.Description("Filter by pipeline stage")),
	mcp.WithString("platform", mcp.Description("Filter by platform")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
)

var showToolDef = mcp.NewTool("content_show",
	mcp.WithDescription("Show one content item from the local mirror, with its body flattened to plain text."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id or unique id prefix")),
)

var archiveToolDef = mcp.NewTool("content_archive",
	mcp.WithDescription("Archive a content item remotely and remove it from the local mirror."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id or unique id prefix")),
)

var syncToolDef = mcp.NewTool("content_sync",
	mcp.WithDescription("Reconcile the local mirror against the remote collections. Reports the per-collection outcome."),
)

var analyzeToolDef = mcp.NewTool("content_analyze",
	mcp.WithDescription("Run the AI analysis of an idea: verdict, angle, suggested platforms, target format and offer."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id or unique id prefix")),
	mcp.WithString("persona", mcp.Description("Persona id or name; defaults to the first analysis persona")),
	mcp.WithString("model", mcp.Description("Model profile id or code; defaults to the configured model")),
)

var interviewToolDef = mcp.NewTool("content_interview",
	mcp.WithDescription("Generate interview questions for an idea, or record the answers when provided."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id or unique id prefix")),
	mcp.WithString("persona", mcp.Description("Persona id or name")),
	mcp.WithString("model", mcp.Description("Model profile id or code")),
	mcp.WithString("answers", mcp.Description("Interview answers to record instead of generating questions")),
)

var draftToolDef = mcp.NewTool("content_draft",
	mcp.WithDescription("Generate the content piece for an item. The response is validated; an invalid payload leaves the item unchanged."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id or unique id prefix")),
	mcp.WithString("format", mcp.Description("Target format; defaults to the analyzed one")),
	mcp.WithString("persona", mcp.Description("Persona id or name")),
	mcp.WithString("model", mcp.Description("Model profile id or code")),
)

var personaListToolDef = mcp.NewTool("persona_list",
	mcp.WithDescription("List personas from the local mirror."),
	mcp.WithString("category", mcp.Description("Filter: analysis, interview or drafting")),
)

var modelListToolDef = mcp.NewTool("model_list",
	mcp.WithDescription("List usable model profiles, built-ins included."),
)
