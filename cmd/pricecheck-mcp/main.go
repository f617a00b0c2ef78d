package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	apiURL := os.Getenv("PRICECHECK_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:3000"
	}

	s := server.NewMCPServer(
		"pricecheck",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	client := newAPIClient(apiURL, 60*time.Second)

	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search live shopping results for a product and return offers sorted from cheapest to most expensive."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Product search keywords"),
		),
		mcp.WithString("platform",
			mcp.Description("Source to search: 'bing' (default) or 'all' (every registered source)"),
			mcp.Enum("bing", "all"),
		),
		mcp.WithBoolean("dedupe",
			mcp.Description("Collapse near-identical offers with the same price"),
		),
	)
	s.AddTool(searchTool, handleSearch(client))

	productTool := mcp.NewTool("get_product",
		mcp.WithDescription("Fetch a product page and return its title, price, description and image links."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL of the product page"),
		),
		mcp.WithString("format",
			mcp.Description("Description format: 'text' (default) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
	)
	s.AddTool(productTool, handleProduct(client))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
