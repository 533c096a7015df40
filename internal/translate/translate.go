// Package translate turns a caseworker's free-text query into a structured
// filter request using a Claude model. The model is instructed to answer
// with strict JSON; anything else degrades to a typed, user-facing failure
// so the caller keeps its last-known-good filter state.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/normalize"
	"github.com/caseworks/directory-cli/pkg/anthropic"
)

const systemPrompt = `You convert a caseworker's free-text request into a JSON search filter for an assistance-resource directory. Respond with ONLY a JSON object of this shape, no prose:
{"filters": {"assistance_types": ["<code>"], "zip_codes": ["<zip>"], "statuses": ["active"], "county": "", "city": "", "neighborhood": "", "organization": "", "days": ["Mo"], "time": {"type": "morning|afternoon|evening|before|after|between", "start": "HH:MM", "end": "HH:MM"}, "keywords": [], "max_miles": 5}, "interpretation": "<one sentence restating what you searched for>", "geocode_address": "<street address if the user gave one, else omit>"}
Omit every filter field the query does not imply. Use only assistance-type codes and zip codes from the provided context. Days are two-letter codes: Mo Tu We Th Fr Sa Su.`

const userPromptFormat = `Query: %s

Available assistance types:
%s
Known zip codes: %s`

// Context is the directory vocabulary handed to the model so it emits only
// valid codes.
type Context struct {
	AssistanceTypes []model.AssistanceType
	ZipCodes        []string
}

// Result is a successful translation.
type Result struct {
	Filters        model.FilterRequest `json:"filters"`
	Interpretation string              `json:"interpretation"`
	GeocodeAddress string              `json:"geocode_address,omitempty"`
}

// Error is a collaborator failure with a message fit for display.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return "translate: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Service is the translation operation, extracted for test doubles.
type Service interface {
	Translate(ctx context.Context, query string, tc Context) (*Result, error)
}

// Translator implements Service on an Anthropic client.
type Translator struct {
	client    anthropic.Client
	modelName string
}

// New creates a Translator using the given model.
func New(client anthropic.Client, modelName string) *Translator {
	return &Translator{client: client, modelName: modelName}
}

// Translate runs one query through the model.
func (t *Translator) Translate(ctx context.Context, query string, tc Context) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &Error{Message: "enter a search phrase first"}
	}

	resp, err := t.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     t.modelName,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: userPrompt(query, tc)},
		},
	})
	if err != nil {
		return nil, &Error{Message: "the search assistant is unavailable right now", Cause: err}
	}

	result, err := parseResult(resp.Text())
	if err != nil {
		zap.L().Warn("translate: unparsable model output",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, &Error{Message: "could not understand that search, try rewording it", Cause: err}
	}

	zap.L().Debug("translate: query translated",
		zap.String("query", query),
		zap.String("interpretation", result.Interpretation),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return result, nil
}

func userPrompt(query string, tc Context) string {
	var types strings.Builder
	for _, at := range tc.AssistanceTypes {
		fmt.Fprintf(&types, "  %s = %s (%s)\n", at.Code, at.Name, at.Group)
	}
	return fmt.Sprintf(userPromptFormat, query, types.String(), strings.Join(tc.ZipCodes, ", "))
}

// rawResult tolerates collection fields arriving as JSON-encoded strings.
type rawResult struct {
	Filters        normalize.RawFilter `json:"filters"`
	Interpretation string              `json:"interpretation"`
	GeocodeAddress string              `json:"geocode_address"`
}

func parseResult(text string) (*Result, error) {
	cleaned := stripFences(text)

	var raw rawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, err
	}
	return &Result{
		Filters:        normalize.Request(raw.Filters),
		Interpretation: raw.Interpretation,
		GeocodeAddress: strings.TrimSpace(raw.GeocodeAddress),
	}, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
