package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/pricecheck/models"
)

// apiClient calls the pricecheck HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// get issues GET path?params and decodes a 200 body into out. Non-200
// responses are decoded as models.ErrorResponse and returned as errors.
func (c *apiClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr models.ErrorResponse
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == "" {
			return fmt.Errorf("API returned HTTP %d", resp.StatusCode)
		}
		msg := apiErr.Error
		if apiErr.Message != "" {
			msg += ": " + apiErr.Message
		}
		if apiErr.Code != "" {
			msg = fmt.Sprintf("[%s] %s", apiErr.Code, msg)
		}
		return fmt.Errorf("%s", msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func handleSearch(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		params := url.Values{"q": {query}}
		if platform := request.GetString("platform", ""); platform != "" {
			params.Set("platform", platform)
		}
		if request.GetBool("dedupe", false) {
			params.Set("dedupe", "true")
		}

		var resp models.SearchResponse
		if err := c.get(ctx, "/api/search", params, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(renderSearch(&resp)), nil
	}
}

func handleProduct(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawURL, err := request.RequireString("url")
		if err != nil || strings.TrimSpace(rawURL) == "" {
			return mcp.NewToolResultError("url is required"), nil
		}

		params := url.Values{"url": {rawURL}}
		if format := request.GetString("format", ""); format != "" {
			params.Set("format", format)
		}

		var resp models.ProductResponse
		if err := c.get(ctx, "/api/product", params, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if resp.Data == nil {
			return mcp.NewToolResultError("product lookup returned no data"), nil
		}
		return mcp.NewToolResultText(renderProduct(resp.Data)), nil
	}
}

// renderSearch formats listings as a numbered list, cheapest first.
func renderSearch(resp *models.SearchResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Results for %q: %d offer(s)\n", resp.Query, resp.Count)
	for i, l := range resp.Results {
		fmt.Fprintf(&b, "\n%d. %s\n   Price: %s\n", i+1, l.Title, l.Price)
		if l.Platform != "" {
			fmt.Fprintf(&b, "   Platform: %s\n", l.Platform)
		}
		if l.SourceURL != "" {
			fmt.Fprintf(&b, "   Link: %s\n", l.SourceURL)
		}
	}
	return b.String()
}

func renderProduct(d *models.ProductDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", d.Title)
	if d.Price != "" {
		fmt.Fprintf(&b, "Price: %s\n", d.Price)
	}
	fmt.Fprintf(&b, "Source: %s\n", d.SourceURL)
	if len(d.Images) > 0 {
		b.WriteString("Images (" + strconv.Itoa(len(d.Images)) + "):\n")
		for _, img := range d.Images {
			b.WriteString("- " + img + "\n")
		}
	}
	if d.Description != "" {
		b.WriteString("\n" + d.Description + "\n")
	}
	return b.String()
}
