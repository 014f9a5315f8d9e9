package mcpapi

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/osvalOrd/TrelloClone/internal/adapters/server/common"
	"github.com/osvalOrd/TrelloClone/internal/domain"
)

// defaultActor attributes tool calls that do not name an actor.
var defaultActor = common.Actor{ID: "mcp", Type: string(domain.ActorTypeAgent)}

// actorArgs holds optional caller identity shared by mutating tools.
type actorArgs struct {
	ActorID   string `json:"actor_id"`
	ActorType string `json:"actor_type"`
}

// actor resolves tool-call identity, falling back to the MCP agent.
func (a actorArgs) actor() common.Actor {
	id := strings.TrimSpace(a.ActorID)
	if id == "" {
		return defaultActor
	}
	typ := strings.TrimSpace(a.ActorType)
	if typ == "" {
		typ = defaultActor.Type
	}
	return common.Actor{ID: id, Type: typ}
}

// actorOptions declares the optional identity arguments on one tool.
func actorOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("actor_id", mcp.Description("Caller name recorded in the activity log")),
		mcp.WithString("actor_type", mcp.Description("user|agent|system"), mcp.Enum("user", "agent", "system")),
	}
}

// newMutationTool builds one tool definition with the shared actor arguments appended.
func newMutationTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append(opts, actorOptions()...)...)
}

// registerColumnTools registers add/rename/delete column tools.
func registerColumnTools(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		newMutationTool(
			"trelloclone.add_column",
			mcp.WithDescription("Append a new empty column to the right edge of the board."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Column title")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				actorArgs
				Title string `json:"title"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			col, err := board.AddColumn(ctx, common.AddColumnRequest{Title: args.Title, Actor: args.actor()})
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("add_column", col)
		},
	)

	srv.AddTool(
		newMutationTool(
			"trelloclone.rename_column",
			mcp.WithDescription("Change the title of one column."),
			mcp.WithString("column_id", mcp.Required(), mcp.Description("Column identifier")),
			mcp.WithString("title", mcp.Required(), mcp.Description("New column title")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				actorArgs
				ColumnID string `json:"column_id"`
				Title    string `json:"title"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			if strings.TrimSpace(args.ColumnID) == "" {
				return mcp.NewToolResultError(`invalid_request: required argument "column_id" not found`), nil
			}
			col, err := board.RenameColumn(ctx, common.RenameColumnRequest{
				ColumnID: args.ColumnID,
				Title:    args.Title,
				Actor:    args.actor(),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("rename_column", col)
		},
	)

	srv.AddTool(
		newMutationTool(
			"trelloclone.delete_column",
			mcp.WithDescription("Delete one column together with every card it holds."),
			mcp.WithString("column_id", mcp.Required(), mcp.Description("Column identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				actorArgs
				ColumnID string `json:"column_id"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			if strings.TrimSpace(args.ColumnID) == "" {
				return mcp.NewToolResultError(`invalid_request: required argument "column_id" not found`), nil
			}
			if err := board.DeleteColumn(ctx, args.ColumnID, args.actor()); err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("delete_column", map[string]any{"deleted": args.ColumnID})
		},
	)
}

// registerCardTools registers add/update/delete card tools.
func registerCardTools(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		newMutationTool(
			"trelloclone.add_card",
			mcp.WithDescription("Append a new card to the bottom of one column."),
			mcp.WithString("column_id", mcp.Required(), mcp.Description("Column identifier")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Card title")),
			mcp.WithString("description", mcp.Description("Markdown description")),
			mcp.WithArray("labels", mcp.Description("Labels as name or name:#color"), mcp.WithStringItems()),
			mcp.WithString("due_at", mcp.Description("Due date, RFC 3339 or YYYY-MM-DD")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				actorArgs
				ColumnID    string   `json:"column_id"`
				Title       string   `json:"title"`
				Description string   `json:"description"`
				Labels      []string `json:"labels"`
				DueAt       string   `json:"due_at"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			if strings.TrimSpace(args.ColumnID) == "" {
				return mcp.NewToolResultError(`invalid_request: required argument "column_id" not found`), nil
			}
			labels, err := parseLabelArgs(args.Labels)
			if err != nil {
				return invalidRequestToolResult(err), nil
			}
			card, err := board.AddCard(ctx, common.AddCardRequest{
				ColumnID:    args.ColumnID,
				Title:       args.Title,
				Description: args.Description,
				Labels:      labels,
				DueAt:       args.DueAt,
				Actor:       args.actor(),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("add_card", card)
		},
	)

	srv.AddTool(
		newMutationTool(
			"trelloclone.update_card",
			mcp.WithDescription("Edit one card. Omitted fields keep their current value."),
			mcp.WithString("card_id", mcp.Required(), mcp.Description("Card identifier")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New markdown description")),
			mcp.WithArray("labels", mcp.Description("Replacement labels as name or name:#color"), mcp.WithStringItems()),
			mcp.WithString("due_at", mcp.Description("New due date, RFC 3339 or YYYY-MM-DD")),
			mcp.WithBoolean("clear_due_at", mcp.Description("Remove the due date")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				actorArgs
				CardID      string    `json:"card_id"`
				Title       *string   `json:"title"`
				Description *string   `json:"description"`
				Labels      *[]string `json:"labels"`
				DueAt       *string   `json:"due_at"`
				ClearDueAt  bool      `json:"clear_due_at"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			if strings.TrimSpace(args.CardID) == "" {
				return mcp.NewToolResultError(`invalid_request: required argument "card_id" not found`), nil
			}
			in := common.UpdateCardRequest{
				CardID:      args.CardID,
				Title:       args.Title,
				Description: args.Description,
				DueAt:       args.DueAt,
				ClearDueAt:  args.ClearDueAt,
				Actor:       args.actor(),
			}
			if args.Labels != nil {
				labels, err := parseLabelArgs(*args.Labels)
				if err != nil {
					return invalidRequestToolResult(err), nil
				}
				in.Labels = &labels
			}
			card, err := board.UpdateCard(ctx, in)
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("update_card", card)
		},
	)

	srv.AddTool(
		newMutationTool(
			"trelloclone.delete_card",
			mcp.WithDescription("Delete one card."),
			mcp.WithString("card_id", mcp.Required(), mcp.Description("Card identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				actorArgs
				CardID string `json:"card_id"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			if strings.TrimSpace(args.CardID) == "" {
				return mcp.NewToolResultError(`invalid_request: required argument "card_id" not found`), nil
			}
			if err := board.DeleteCard(ctx, args.CardID, args.actor()); err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("delete_card", map[string]any{"deleted": args.CardID})
		},
	)
}

// registerMoveTools registers card move and column reorder tools.
func registerMoveTools(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		newMutationTool(
			"trelloclone.move_card",
			mcp.WithDescription("Move one card by position. to_index is measured after the card is removed from its source."),
			mcp.WithString("from_column_id", mcp.Required(), mcp.Description("Source column identifier")),
			mcp.WithNumber("from_index", mcp.Required(), mcp.Description("Source position within the column")),
			mcp.WithString("to_column_id", mcp.Required(), mcp.Description("Destination column identifier")),
			mcp.WithNumber("to_index", mcp.Required(), mcp.Description("Destination position")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				actorArgs
				FromColumnID string `json:"from_column_id"`
				FromIndex    int    `json:"from_index"`
				ToColumnID   string `json:"to_column_id"`
				ToIndex      int    `json:"to_index"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			out, err := board.MoveCard(ctx, common.MoveCardRequest{
				FromColumnID: args.FromColumnID,
				FromIndex:    args.FromIndex,
				ToColumnID:   args.ToColumnID,
				ToIndex:      args.ToIndex,
				Actor:        args.actor(),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("move_card", out)
		},
	)

	srv.AddTool(
		newMutationTool(
			"trelloclone.reorder_columns",
			mcp.WithDescription("Move the column at position from so that it ends up at position to."),
			mcp.WithNumber("from", mcp.Required(), mcp.Description("Current column position")),
			mcp.WithNumber("to", mcp.Required(), mcp.Description("Destination column position")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				actorArgs
				From int `json:"from"`
				To   int `json:"to"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			out, err := board.ReorderColumns(ctx, common.ReorderColumnsRequest{
				From:  args.From,
				To:    args.To,
				Actor: args.actor(),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			return jsonResult("reorder_columns", out)
		},
	)
}

// parseLabelArgs converts compact label strings into transport labels.
func parseLabelArgs(raw []string) ([]common.Label, error) {
	out := make([]common.Label, 0, len(raw))
	for _, item := range raw {
		label, err := domain.ParseLabel(item)
		if err != nil {
			return nil, err
		}
		out = append(out, common.Label{Name: label.Name, Color: label.Color, TextColor: label.TextColor})
	}
	return out, nil
}

// invalidRequestToolResult maps argument decoding failures to invalid_request tool errors.
func invalidRequestToolResult(err error) *mcp.CallToolResult {
	if err == nil {
		return mcp.NewToolResultError("invalid_request: malformed arguments")
	}
	return mcp.NewToolResultError("invalid_request: " + err.Error())
}
