package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/VamsiKurapati/docrender"
)

// renderSummary is returned by render_document instead of the PDF bytes.
type renderSummary struct {
	Output   string                  `json:"output"`
	Pages    int                     `json:"pages"`
	Bytes    int                     `json:"bytes"`
	Degraded []docrender.Degradation `json:"degraded"`
}

func boolPtr(b bool) *bool { return &b }

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("render_document",
		mcp.WithDescription("Render a design document (pages of positioned text, image, svg and shape elements) to a PDF file. "+
			"Images with template:<name> or cloud:<name> sources are fetched; failures become placeholders listed under degraded."),
		mcp.WithString("document", mcp.Description("Document JSON: {\"pages\":[{\"width\",\"height\",\"background\",\"elements\":[...]}]}"), mcp.Required()),
		mcp.WithString("output", mcp.Description("Path of the PDF file to write (must end in .pdf)"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRenderDocument)

	s.mcp.AddTool(mcp.NewTool("health_check",
		mcp.WithDescription("Check that asset resolution and element compilation work, and report the host environment. Does not launch the browser."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleHealthCheck)
}

func (s *Server) handleRenderDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	output := req.GetString("output", "")
	if output == "" {
		return nil, fmt.Errorf("output is required")
	}
	if !strings.EqualFold(filepath.Ext(output), ".pdf") {
		return nil, fmt.Errorf("output %q must have a .pdf extension", output)
	}

	data, err := documentArg(args["document"])
	if err != nil {
		return nil, err
	}
	doc, err := docrender.Parse(data)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	res, err := s.renderer.Render(ctx, doc)
	s.limiter.Release()
	if err != nil {
		s.logger.Error("render_document failed", "error", err)
		return nil, fmt.Errorf("render document: %w", err)
	}

	if err := os.WriteFile(output, res.PDF, 0o644); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	degraded := res.Degraded
	if degraded == nil {
		degraded = []docrender.Degradation{}
	}
	return jsonResult(renderSummary{
		Output:   output,
		Pages:    res.Pages,
		Bytes:    len(res.PDF),
		Degraded: degraded,
	})
}

func (s *Server) handleHealthCheck(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.renderer.Health(ctx))
}

// documentArg accepts the document as a JSON string or as an already
// decoded object.
func documentArg(v any) ([]byte, error) {
	switch d := v.(type) {
	case nil:
		return nil, errors.New("document is required")
	case string:
		if strings.TrimSpace(d) == "" {
			return nil, errors.New("document is required")
		}
		return []byte(d), nil
	default:
		data, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		return data, nil
	}
}
