package service

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vmoranv/aolastar/internal/services/mcp/domain"
)

// helpResourceURI addresses the help text as a readable resource.
const helpResourceURI = "aolastar://help"

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

func registerCommandTools(registrar mcpRegistrationTarget, cmds domain.Commands) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.HelpTool(), handler: domain.HelpHandler(cmds)},
		{tool: domain.PacketsTool(), handler: domain.PacketsHandler(cmds)},
		{tool: domain.AttributeTool(), handler: domain.AttributeHandler(cmds)},
		{tool: domain.AttributeImageTool(), handler: domain.AttributeImageHandler(cmds)},
		{tool: domain.DecryptTool(), handler: domain.DecryptHandler(cmds)},
		{tool: domain.EncryptTool(), handler: domain.EncryptHandler(cmds)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

// registerHelpResource exposes the help text for clients that browse resources.
func registerHelpResource(registrar mcpRegistrationTarget, cmds domain.Commands) {
	registrar.AddResource(&mcp.Resource{
		URI:      helpResourceURI,
		Name:     "help",
		MIMEType: "text/plain",
	}, func(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      helpResourceURI,
				MIMEType: "text/plain",
				Text:     cmds.Help().Text,
			}},
		}, nil
	})
}
