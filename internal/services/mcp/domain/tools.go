package domain

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vmoranv/aolastar/internal/services/aolastar/commands"
)

// DefaultConversationID keys paging state when neither the caller nor the
// transport supplies a conversation. Stdio serves a single client.
const DefaultConversationID = "mcp"

// Commands is the command surface exposed as MCP tools.
type Commands interface {
	Help() commands.Result
	HandlePacketCommand(ctx context.Context, conversationID string, argument string) commands.Result
	HandleAttributeCommand(ctx context.Context, argument string) commands.Result
	HandleAttributeImageCommand(ctx context.Context, argument string) commands.Result
	HandleDecrypt(content string) commands.Result
	HandleEncrypt(content string) commands.Result
}

// HelpInput represents the MCP tool input for the help text.
type HelpInput struct{}

// PacketsInput represents the MCP tool input for packet listing.
type PacketsInput struct {
	Argument       string `json:"argument,omitempty" jsonschema:"next, prev, reset, a page number or a search pattern; empty re-shows the current page"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"optional paging conversation; defaults to the MCP session"`
}

// AttributeInput represents the MCP tool input for attribute lookups.
type AttributeInput struct {
	Argument string `json:"argument,omitempty" jsonschema:"attribute id, or ls to list every attribute"`
}

// AttributeImageInput represents the MCP tool input for relation images.
type AttributeImageInput struct {
	AttributeID string `json:"attribute_id" jsonschema:"attribute id to draw"`
}

// CodecInput represents the MCP tool input for the base64/JSON codec.
type CodecInput struct {
	Content string `json:"content" jsonschema:"text to decode or encode"`
}

// CommandResult represents the MCP tool output of every command.
type CommandResult struct {
	Text      string `json:"text" jsonschema:"reply text"`
	Code      string `json:"code,omitempty" jsonschema:"error code, empty on success"`
	Retryable bool   `json:"retryable,omitempty" jsonschema:"whether retrying later may succeed"`
}

// HelpTool defines the MCP tool schema for the help text.
func HelpTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        commands.CommandHelp,
		Description: "Show the available aolastar commands",
	}
}

// PacketsTool defines the MCP tool schema for packet listing.
func PacketsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        commands.CommandPackets,
		Description: "List known protocol packets page by page, optionally filtered by a regular expression over packet names",
	}
}

// AttributeTool defines the MCP tool schema for attribute lookups.
func AttributeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        commands.CommandAttribute,
		Description: "List attributes (ls) or show the attack and defense relations of one attribute",
	}
}

// AttributeImageTool defines the MCP tool schema for relation images.
func AttributeImageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        commands.CommandAttributeImage,
		Description: "Draw the attack and defense relations of one attribute as a PNG image",
	}
}

// DecryptTool defines the MCP tool schema for base64 decoding.
func DecryptTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        commands.CommandDecrypt,
		Description: "Decode base64 content, pretty-printing it when it is JSON",
	}
}

// EncryptTool defines the MCP tool schema for base64 encoding.
func EncryptTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        commands.CommandEncrypt,
		Description: "Encode text as base64, compacting it first when it is JSON",
	}
}

// HelpHandler returns the help text.
func HelpHandler(cmds Commands) mcp.ToolHandlerFor[HelpInput, CommandResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ HelpInput) (*mcp.CallToolResult, CommandResult, error) {
		return toolResult(cmds.Help())
	}
}

// PacketsHandler pages packets for the caller's conversation.
func PacketsHandler(cmds Commands) mcp.ToolHandlerFor[PacketsInput, CommandResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PacketsInput) (*mcp.CallToolResult, CommandResult, error) {
		conversationID := strings.TrimSpace(input.ConversationID)
		if conversationID == "" {
			conversationID = sessionConversation(req)
		}
		return toolResult(cmds.HandlePacketCommand(ctx, conversationID, input.Argument))
	}
}

// AttributeHandler lists attributes or formats one attribute's relations.
func AttributeHandler(cmds Commands) mcp.ToolHandlerFor[AttributeInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AttributeInput) (*mcp.CallToolResult, CommandResult, error) {
		return toolResult(cmds.HandleAttributeCommand(ctx, input.Argument))
	}
}

// AttributeImageHandler renders one attribute's relations and returns the
// PNG as image content followed by the caption.
func AttributeImageHandler(cmds Commands) mcp.ToolHandlerFor[AttributeImageInput, CommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AttributeImageInput) (*mcp.CallToolResult, CommandResult, error) {
		return toolResult(cmds.HandleAttributeImageCommand(ctx, input.AttributeID))
	}
}

// DecryptHandler decodes base64 content.
func DecryptHandler(cmds Commands) mcp.ToolHandlerFor[CodecInput, CommandResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CodecInput) (*mcp.CallToolResult, CommandResult, error) {
		return toolResult(cmds.HandleDecrypt(input.Content))
	}
}

// EncryptHandler encodes content as base64.
func EncryptHandler(cmds Commands) mcp.ToolHandlerFor[CodecInput, CommandResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CodecInput) (*mcp.CallToolResult, CommandResult, error) {
		return toolResult(cmds.HandleEncrypt(input.Content))
	}
}

// toolResult maps a command result onto MCP content. Failed commands stay
// tool results with IsError set so clients see the localized text.
func toolResult(result commands.Result) (*mcp.CallToolResult, CommandResult, error) {
	output := CommandResult{
		Text:      result.Text,
		Code:      string(result.Code),
		Retryable: result.Code.Transient(),
	}
	content := make([]mcp.Content, 0, 2)
	if len(result.Image) > 0 {
		content = append(content, &mcp.ImageContent{Data: result.Image, MIMEType: "image/png"})
	}
	content = append(content, &mcp.TextContent{Text: result.Text})
	return &mcp.CallToolResult{
		Content: content,
		IsError: result.Code != "",
	}, output, nil
}

func sessionConversation(req *mcp.CallToolRequest) string {
	if req != nil && req.Session != nil {
		if id := strings.TrimSpace(req.Session.ID()); id != "" {
			return id
		}
	}
	return DefaultConversationID
}
