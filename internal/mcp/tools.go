package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/treesketch/pkg/sketch"
)

// ErrEmptyDocument indicates a tool call without document content.
var ErrEmptyDocument = errors.New("mcp: document must not be empty")

// Tool names exposed to MCP clients.
const (
	toolSketchGenerate = "sketch_generate"
	toolSketchShingles = "sketch_shingles"
	toolSketchCompare  = "sketch_compare"
)

// SketchGenerateInput is the input for the sketch_generate tool.
type SketchGenerateInput struct {
	// Document is the raw JSON document to fingerprint.
	Document string `json:"document" jsonschema:"the JSON document to fingerprint"`
}

// SketchGenerateOutput is the output of the sketch_generate tool.
type SketchGenerateOutput struct {
	Sketch    []uint64 `json:"sketch"`
	NumHashes int      `json:"num_hashes"`
}

// SketchShinglesInput is the input for the sketch_shingles tool.
type SketchShinglesInput struct {
	// Document is the raw JSON document to extract features from.
	Document string `json:"document" jsonschema:"the JSON document to extract features from"`
}

// SketchShinglesOutput is the output of the sketch_shingles tool.
type SketchShinglesOutput struct {
	Shingles []uint32 `json:"shingles"`
	Count    int      `json:"count"`
}

// SketchCompareInput is the input for the sketch_compare tool. The two
// documents are sketched under the server configuration and compared.
type SketchCompareInput struct {
	DocumentA string `json:"document_a" jsonschema:"first JSON document"`
	DocumentB string `json:"document_b" jsonschema:"second JSON document"`

	// Bounded enables early-terminating estimation against the configured
	// similarity threshold.
	Bounded bool `json:"bounded,omitempty" jsonschema:"use bounded estimation against the configured threshold"`
}

// SketchCompareOutput is the output of the sketch_compare tool.
type SketchCompareOutput struct {
	Similarity float64 `json:"similarity"`
	Duplicate  bool    `json:"duplicate"`
	Threshold  float64 `json:"threshold"`
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        toolSketchGenerate,
		Description: "Generate a MinHash sketch of a JSON document for similarity comparison",
	}, s.handleSketchGenerate)
	s.toolNames = append(s.toolNames, toolSketchGenerate)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        toolSketchShingles,
		Description: "Extract the frequency-filtered shingle feature set of a JSON document",
	}, s.handleSketchShingles)
	s.toolNames = append(s.toolNames, toolSketchShingles)

	mcpsdk.AddTool(s.mcp, &mcpsdk.Tool{
		Name:        toolSketchCompare,
		Description: "Estimate the Jaccard similarity of two JSON documents via their sketches",
	}, s.handleSketchCompare)
	s.toolNames = append(s.toolNames, toolSketchCompare)
}

func (s *Server) handleSketchGenerate(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input SketchGenerateInput,
) (*mcpsdk.CallToolResult, SketchGenerateOutput, error) {
	if input.Document == "" {
		return nil, SketchGenerateOutput{}, ErrEmptyDocument
	}

	sk, err := s.sketcher.GenerateSketchJSON([]byte(input.Document))
	if err != nil {
		return nil, SketchGenerateOutput{}, fmt.Errorf("generate sketch: %w", err)
	}

	s.logger.DebugContext(ctx, "sketch generated", "num_hashes", len(sk))

	return nil, SketchGenerateOutput{Sketch: sk, NumHashes: len(sk)}, nil
}

func (s *Server) handleSketchShingles(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input SketchShinglesInput,
) (*mcpsdk.CallToolResult, SketchShinglesOutput, error) {
	if input.Document == "" {
		return nil, SketchShinglesOutput{}, ErrEmptyDocument
	}

	set, err := s.sketcher.GenerateShingleSetJSON([]byte(input.Document))
	if err != nil {
		return nil, SketchShinglesOutput{}, fmt.Errorf("extract shingles: %w", err)
	}

	s.logger.DebugContext(ctx, "shingle set extracted", "count", len(set))

	return nil, SketchShinglesOutput{Shingles: set, Count: len(set)}, nil
}

func (s *Server) handleSketchCompare(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input SketchCompareInput,
) (*mcpsdk.CallToolResult, SketchCompareOutput, error) {
	if input.DocumentA == "" || input.DocumentB == "" {
		return nil, SketchCompareOutput{}, ErrEmptyDocument
	}

	ska, err := s.sketcher.GenerateSketchJSON([]byte(input.DocumentA))
	if err != nil {
		return nil, SketchCompareOutput{}, fmt.Errorf("sketch document A: %w", err)
	}

	skb, err := s.sketcher.GenerateSketchJSON([]byte(input.DocumentB))
	if err != nil {
		return nil, SketchCompareOutput{}, fmt.Errorf("sketch document B: %w", err)
	}

	var compareOpts *sketch.CompareOptions
	if input.Bounded {
		compareOpts = &sketch.CompareOptions{
			SimilarityThreshold: s.cfg.Compare.SimilarityThreshold,
			ErrorTolerance:      s.cfg.Compare.ErrorTolerance,
		}
	}

	sim, err := s.sketcher.CompareSketches(ska, skb, compareOpts)
	if err != nil {
		return nil, SketchCompareOutput{}, fmt.Errorf("compare sketches: %w", err)
	}

	s.logger.DebugContext(ctx, "sketches compared", "similarity", sim)

	return nil, SketchCompareOutput{
		Similarity: sim,
		Duplicate:  sim >= s.cfg.Compare.SimilarityThreshold,
		Threshold:  s.cfg.Compare.SimilarityThreshold,
	}, nil
}
