// Package mcp exposes the lattice engine over the Model Context Protocol,
// so AI agents can run determinations and worksheets as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"lattice"
	"lattice/internal/presentation/graph"
	"lattice/pkg/domain"
	"lattice/pkg/worksheet"
)

// EvaluateResponse is the structured result of an evaluation tool call.
type EvaluateResponse struct {
	TreeID  string              `json:"tree_id" jsonschema_description:"The tree that was evaluated"`
	Outcome string              `json:"outcome" jsonschema_description:"The terminal outcome"`
	Trace   []domain.TraceEntry `json:"trace" jsonschema_description:"The step-by-step determination trace"`
}

// Server wraps the lattice Engine and exposes it as an MCP Server.
type Server struct {
	engine    *lattice.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *lattice.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(lattice.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: evaluate_tree
	evaluateTool := mcp.NewTool("evaluate_tree",
		mcp.WithDescription("Evaluate a determination tree against a set of facts and return the outcome with its trace."),
		mcp.WithString("tree_id", mcp.Required(), mcp.Description("The ID of the tree to evaluate")),
		mcp.WithString("facts", mcp.Required(), mcp.Description("JSON object of facts: booleans, numbers, categories, and ISO dates")),
		mcp.WithString("case_id", mcp.Description("Optional case ID to persist the result under")),
		mcp.WithOutputSchema[EvaluateResponse](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: list_trees
	s.mcpServer.AddTool(mcp.NewTool("list_trees",
		mcp.WithDescription("List the IDs of all available determination trees."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.engine.Trees()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing trees failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render a tree as a Mermaid flowchart for introspection."),
		mcp.WithString("tree_id", mcp.Required(), mcp.Description("The ID of the tree to render")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		treeID, err := request.RequireString("tree_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tree, err := s.engine.Tree(treeID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("resolving tree failed: %v", err)), nil
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(tree, nil)), nil
	})

	// TOOL: net_capital_gains
	nettingTool := mcp.NewTool("net_capital_gains",
		mcp.WithDescription("Net capital gains and losses across rate categories."),
		mcp.WithString("items", mcp.Required(), mcp.Description("JSON array of gain/loss items with per-category amounts")),
		mcp.WithOutputSchema[worksheet.NettingResult](),
	)
	s.mcpServer.AddTool(nettingTool, mcp.NewStructuredToolHandler(s.handleNetting))

	// TOOL: compute_qbi
	qbiTool := mcp.NewTool("compute_qbi",
		mcp.WithDescription("Compute the qualified business income deduction."),
		mcp.WithString("filing_status", mcp.Required(), mcp.Description("Filing status: single, mfj, mfs, hh, or qss")),
		mcp.WithString("input", mcp.Required(), mcp.Description("JSON object with qualified_income, modified_taxable_income, agi, w2_wages, ubia")),
		mcp.WithOutputSchema[worksheet.QBIResult](),
	)
	s.mcpServer.AddTool(qbiTool, mcp.NewStructuredToolHandler(s.handleQBI))

	// TOOL: compute_social_security
	ssaTool := mcp.NewTool("compute_social_security",
		mcp.WithDescription("Compute the taxable portion of Social Security benefits."),
		mcp.WithString("filing_status", mcp.Required(), mcp.Description("Filing status: single, mfj, mfs, hh, or qss")),
		mcp.WithString("input", mcp.Required(), mcp.Description("JSON object with benefits, non_ssa_agi, and optional add-backs")),
		mcp.WithOutputSchema[worksheet.SSAResult](),
	)
	s.mcpServer.AddTool(ssaTool, mcp.NewStructuredToolHandler(s.handleSocialSecurity))
}

// Handler methods for structured tools

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EvaluateResponse, error) {
	treeID, _ := args["tree_id"].(string)
	factsStr, _ := args["facts"].(string)

	var raw map[string]any
	if err := json.Unmarshal([]byte(factsStr), &raw); err != nil {
		return EvaluateResponse{}, fmt.Errorf("parsing facts: %w", err)
	}
	facts, err := domain.FactsFromMap(raw)
	if err != nil {
		return EvaluateResponse{}, fmt.Errorf("building facts: %w", err)
	}

	var eval *domain.Evaluation
	if caseID, ok := args["case_id"].(string); ok && caseID != "" {
		eval, err = s.engine.EvaluateCase(ctx, caseID, treeID, facts)
	} else {
		eval, err = s.engine.Evaluate(treeID, facts)
	}
	if err != nil {
		return EvaluateResponse{}, fmt.Errorf("evaluation failed: %w", err)
	}

	return EvaluateResponse{
		TreeID:  eval.TreeID,
		Outcome: string(eval.Outcome),
		Trace:   eval.Trace,
	}, nil
}

func (s *Server) handleNetting(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (worksheet.NettingResult, error) {
	itemsStr, _ := args["items"].(string)

	var items []worksheet.GainLoss
	if err := json.Unmarshal([]byte(itemsStr), &items); err != nil {
		return worksheet.NettingResult{}, fmt.Errorf("parsing items: %w", err)
	}
	return worksheet.NetCapitalGains(items...), nil
}

func (s *Server) handleQBI(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (worksheet.QBIResult, error) {
	statusStr, _ := args["filing_status"].(string)
	inputStr, _ := args["input"].(string)

	status, err := domain.ParseFilingStatus(statusStr)
	if err != nil {
		return worksheet.QBIResult{}, err
	}
	phase, err := s.engine.Table().QBIFor(status)
	if err != nil {
		return worksheet.QBIResult{}, err
	}

	var input worksheet.QBIInput
	if err := json.Unmarshal([]byte(inputStr), &input); err != nil {
		return worksheet.QBIResult{}, fmt.Errorf("parsing input: %w", err)
	}
	return worksheet.ComputeQBI(input, phase)
}

func (s *Server) handleSocialSecurity(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (worksheet.SSAResult, error) {
	statusStr, _ := args["filing_status"].(string)
	inputStr, _ := args["input"].(string)

	status, err := domain.ParseFilingStatus(statusStr)
	if err != nil {
		return worksheet.SSAResult{}, err
	}
	th, err := s.engine.Table().SSAFor(status)
	if err != nil {
		return worksheet.SSAResult{}, err
	}

	var input worksheet.SSAInput
	if err := json.Unmarshal([]byte(inputStr), &input); err != nil {
		return worksheet.SSAResult{}, fmt.Errorf("parsing input: %w", err)
	}
	return worksheet.ComputeTaxableSocialSecurity(input, th)
}

func (s *Server) registerResources() {
	// EXPOSE: lattice://trees
	s.mcpServer.AddResource(mcp.NewResource("lattice://trees", "Available Determination Trees",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.engine.Trees()
		if err != nil {
			return nil, fmt.Errorf("failed to list trees: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "lattice://trees",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: lattice://thresholds
	s.mcpServer.AddResource(mcp.NewResource("lattice://thresholds", "Threshold Table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Table())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal table: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "lattice://thresholds",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
