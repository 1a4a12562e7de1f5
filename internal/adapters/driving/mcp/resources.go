package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for notesearch resources.
	uriScheme = "notesearch://"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "The integrated services, in the order results are grouped",
		MIMEType:    mimeJSON,
	}, s.handleSourcesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "recent",
		Name:        "recent-searches",
		Description: "Recently completed searches, newest first",
		MIMEType:    mimeJSON,
	}, s.handleRecentResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sources/{source}",
		Name:        "source",
		Description: "One integrated service, addressed by its anchor such as Google-Drive",
		MIMEType:    mimeJSON,
	}, s.handleSourceResource)
}

type sourceInfo struct {
	Name   string `json:"name"`
	Anchor string `json:"anchor"`
	Icon   string `json:"icon"`
	Rank   int    `json:"rank"`
}

func describeSource(src domain.SearchSource) sourceInfo {
	return sourceInfo{
		Name:   src.String(),
		Anchor: src.Anchor(),
		Icon:   src.Icon(),
		Rank:   src.Rank(),
	}
}

// handleSourcesResource lists the integrated services.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources := domain.AllSources()
	infos := make([]sourceInfo, len(sources))
	for i, src := range sources {
		infos[i] = describeSource(src)
	}
	return jsonResource(req.Params.URI, infos)
}

// handleSourceResource describes one integrated service.
func (s *Server) handleSourceResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	src, ok := extractSource(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, describeSource(src))
}

// handleRecentResource returns the recent-search history.
func (s *Server) handleRecentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.recentSearches(ctx))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractSource resolves a URI like notesearch://sources/Google-Drive.
func extractSource(uri string) (domain.SearchSource, bool) {
	const prefix = uriScheme + "sources/"

	if !strings.HasPrefix(uri, prefix) {
		return "", false
	}
	anchor := strings.TrimPrefix(uri, prefix)
	if anchor == "" {
		return "", false
	}
	for _, src := range domain.DisplayOrder {
		if strings.EqualFold(src.Anchor(), anchor) {
			return src, true
		}
	}
	return "", false
}
