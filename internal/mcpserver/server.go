// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes workspace tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/voidwyrm/revw/internal/apperr"
	"github.com/voidwyrm/revw/internal/docservice"
	"github.com/voidwyrm/revw/internal/format"
	"github.com/voidwyrm/revw/internal/index"
	"github.com/voidwyrm/revw/internal/record"
	"github.com/voidwyrm/revw/internal/storage"
)

// Server wraps the MCP server with workspace tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all workspace tools registered.
func New(store storage.Provider, db *index.DB) *Server {
	s := &Server{svc: docservice.NewService(store, db)}

	s.mcp = server.NewMCPServer(
		"revw",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Full-text search through record contents across all documents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a document's content, optionally converted to another serialization."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. topics/records.md)")),
		mcp.WithString("format", mcp.Description("Optional target format: md, json or toon (defaults to the stored serialization)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new document at the specified path. The extension picks the "+
			"serialization (.md, .json or .toon). Empty content creates the default template. "+
			"Read the contract first via the get_format_contract tool or the revw://document-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new document")),
		mcp.WithString("content", mcp.Description("Content in the serialization matching the extension (empty for the default template)")),
	), s.createDocument)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Prepend a note to the INSIDE section of a document, stamped with the current time."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note text")),
	), s.addNote)

	s.mcp.AddTool(mcp.NewTool("convert_document",
		mcp.WithDescription("Convert a document into another file; the target extension picks the "+
			"serialization. Set append to merge into an existing target instead of refusing it."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Relative path of the document to convert")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Relative path of the file to write")),
		mcp.WithString("section", mcp.Description("Restrict the conversion to one section: outside or inside")),
		mcp.WithBoolean("append", mcp.Description("Merge the converted records into an existing target")),
	), s.convertDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all documents with their record counts."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("get_format_contract",
		mcp.WithDescription("Returns the canonical document format contract covering all three "+
			"serializations. Call this before creating or converting documents."),
	), s.getFormatContract)

	// Resource: document format contract.
	s.mcp.AddResource(
		mcp.NewResource("revw://document-format", "Document Format Contract",
			mcp.WithResourceDescription("Canonical document serializations (md, json, toon) that all documents follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	name := req.GetString("format", "")
	if name == "" {
		doc, err := s.svc.GetDocument(ctx, path)
		if err != nil {
			return docErrorResult(path, err), nil
		}
		return mcp.NewToolResultText(doc.Content), nil
	}

	ft, err := format.ParseName(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.RawDocument(ctx, path, ft)
	if err != nil {
		return docErrorResult(path, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) createDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content := req.GetString("content", "")

	doc, err := s.svc.CreateDocument(ctx, path, []byte(content))
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return mcp.NewToolResultError(fmt.Sprintf("document already exists: %s", path)), nil
		}
		return docErrorResult(path, err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (%d outside, %d inside)",
		doc.Path, doc.OutsideCount, doc.InsideCount)), nil
}

func (s *Server) addNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.svc.AddInsideRecord(ctx, path, text)
	if err != nil {
		return docErrorResult(path, err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added note to %s (%d inside records)",
		doc.Path, doc.InsideCount)), nil
}

func (s *Server) convertDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dst, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var section *record.Section
	if name := req.GetString("section", ""); name != "" {
		sec, err := record.ParseSection(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		section = &sec
	}
	appendTo := req.GetBool("append", false)

	doc, err := s.svc.ConvertDocument(ctx, src, dst, section, appendTo)
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return mcp.NewToolResultError(fmt.Sprintf("target already exists: %s (set append to merge)", dst)), nil
		}
		return docErrorResult(src, err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("converted %s to %s (%d outside, %d inside)",
		src, doc.Path, doc.OutsideCount, doc.InsideCount)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListDocuments(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getFormatContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentFormatContract), nil
}

func (s *Server) readFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "revw://document-format",
			MIMEType: "text/markdown",
			Text:     DocumentFormatContract,
		},
	}, nil
}

// docErrorResult maps service errors onto tool results: a missing file
// and a parse failure get messages an LLM can act on.
func docErrorResult(path string, err error) *mcp.CallToolResult {
	var ferr *format.FormatError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path))
	case errors.As(err, &ferr):
		return mcp.NewToolResultError(fmt.Sprintf("malformed document %s: %s", path, ferr.Error()))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
