// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is the implementation name announced to MCP clients.
const ServerName = "scholarcheck"

// NewServer returns an MCP server with every tool of s registered.
func NewServer(version string, s *Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	mcp.AddTool(server, MetadataFindDuplicates, s.FindDuplicates)
	mcp.AddTool(server, MetadataListColumns, s.ListColumns)
	return server
}
