// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/winregi/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxParseAttempts = 3

// Expander implements ai.QueryExpander using OpenAI-compatible chat APIs.
type Expander struct {
	client   llms.Model
	maxTerms int
	timeout  time.Duration
	logger   *slog.Logger
}

var _ ai.QueryExpander = (*Expander)(nil)

// expansion is the JSON shape requested from the model.
type expansion struct {
	Keywords []string `json:"keywords"`
}

// newExpander is an internal constructor that returns the concrete type.
func newExpander(config *ai.Config, client llms.Model) (*Expander, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if client == nil {
		var err error
		client, err = openai.New(
			openai.WithBaseURL(config.Host),
			openai.WithToken(config.Token),
			openai.WithModel(config.Model),
		)
		if err != nil {
			return nil, err
		}
	}

	return &Expander{
		client:   client,
		maxTerms: config.MaxTerms,
		timeout:  config.Timeout,
		logger:   slog.Default().With("component", "openai-expander"),
	}, nil
}

// NewExpander creates a query expander using the provided configuration.
//
// Returns ai.QueryExpander interface to enforce abstraction.
func NewExpander(config *ai.Config) (ai.QueryExpander, error) {
	return newExpander(config, nil)
}

// ExpandQuery asks the model for keywords related to query.
// Malformed responses are retried; a transport error is returned at once.
func (e *Expander) ExpandQuery(ctx context.Context, query string) ([]string, error) {
	query = scrubString(query)
	if query == "" {
		return []string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildSystemPrompt(e.maxTerms)),
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}

	var result expansion
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []string{}, nil
		}

		responseText := repairJSON(stripCodeFence(response.Choices[0].Content))
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing expansion response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse expansion response after retries", "err", lastErr)
		return nil, lastErr
	}

	keywords := make([]string, 0, len(result.Keywords))
	for _, k := range result.Keywords {
		k = cleanKeyword(k)
		if k == "" || slices.Contains(keywords, k) {
			continue
		}
		keywords = append(keywords, k)
		if len(keywords) == e.maxTerms {
			break
		}
	}

	e.logger.Debug("expanded query", "query", query, "keywords", keywords)
	return keywords, nil
}
