package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("outline_page",
		mcp.WithPromptDescription("Turn the plain paragraphs of a page into a structured outline"),
		mcp.WithArgument("pageId",
			mcp.ArgumentDescription("ID of the page to restructure"),
			mcp.RequiredArgument(),
		),
	), s.handleOutlinePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("task_list",
		mcp.WithPromptDescription("Create a page holding a to-do list for a goal"),
		mcp.WithArgument("goal",
			mcp.ArgumentDescription("What the tasks should achieve"),
			mcp.RequiredArgument(),
		),
	), s.handleTaskListPrompt)
}

func (s *Server) handleOutlinePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	pageID := req.Params.Arguments["pageId"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Outline page %s", pageID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Restructure page %s into an outline. Follow these steps:

1. Call read_page to get the numbered blocks.
2. Use set_block_kind with h1 for the main title and h2/h3 for section titles.
3. Turn runs of short related lines into lists with set_block_kind ul or ol.
4. Use indent/outdent to nest supporting points under their section.
5. Use format_block to bold key terms sparingly.

Call read_page again after each change: block indexes shift when lists are created or split.`, pageID),
				},
			},
		},
	}, nil
}

func (s *Server) handleTaskListPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	goal := req.Params.Arguments["goal"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Task list for: %s", goal),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Create a task page for the goal "%s":

1. Use create_page with the goal as the title and content made of an <h1> followed by a <ul class="todo-list"> with one <li class="todo-item"> per task.
2. Keep each task short and actionable.
3. Use toggle_todo to mark tasks that are already done.`, goal),
				},
			},
		},
	}, nil
}
