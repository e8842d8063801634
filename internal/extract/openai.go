package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"inkwell/atlas/internal/logger"
	"inkwell/atlas/internal/util"
)

const (
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 12000
	DefaultRetries   = 3
)

const systemPrompt = `You index research papers for a personal literature library.
Read the paper text and fill in every field of the response schema.
Use only information present in the text. Leave a string empty or a list
empty when the paper does not say. Keywords are short lowercase technical
terms (3 to 8 of them). The category is computer-vision, nlp or
machine-learning, whichever fits the paper's main contribution.`

const userPrompt = `File: %s

Paper text:
%s`

// Config configures an OpenAIExtractor.
type Config struct {
	APIKey    string
	BaseURL   string // empty uses the OpenAI default
	Model     string
	MaxTokens int
	// Retries bounds attempts at a reply that parses and validates.
	Retries int
	// HTTPClient is used for both the model API and URL sources.
	HTTPClient *http.Client
}

// OpenAIExtractor extracts metadata with a chat model that supports
// JSON-schema structured output.
type OpenAIExtractor struct {
	client    *openai.Client
	loader    *Loader
	model     string
	maxTokens int
	retries   int
}

// NewOpenAIExtractor creates an extractor, applying defaults for unset
// config fields. It returns ErrNoAPIKey when cfg has no key.
func NewOpenAIExtractor(cfg Config) (*OpenAIExtractor, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultRetries
	}

	options := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		options = append(options, option.WithHTTPClient(cfg.HTTPClient))
	}
	client := openai.NewClient(options...)

	return &OpenAIExtractor{
		client:    &client,
		loader:    NewLoader(cfg.HTTPClient),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		retries:   cfg.Retries,
	}, nil
}

// Extract loads src, asks the model for its metadata, and returns the
// validated and normalized result.
func (e *OpenAIExtractor) Extract(ctx context.Context, src Source) (*Metadata, error) {
	text, err := e.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(userPrompt, src.Name(), Truncate(text, e.maxTokens))

	attempt := 0
	return util.RetryWithContext(ctx, e.retries, func(ctx context.Context) (*Metadata, error) {
		attempt++
		meta, err := e.complete(ctx, prompt)
		if err != nil {
			logger.Warn("Extraction attempt failed", "source", src, "attempt", attempt, "error", err)
			return nil, err
		}
		return meta, nil
	})
}

func (e *OpenAIExtractor) complete(ctx context.Context, prompt string) (*Metadata, error) {
	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "paper_metadata",
					Description: openai.String("Bibliographic and technical metadata of one research paper"),
					Schema:      GenerateSchema(Metadata{}),
					Strict:      openai.Bool(true),
				},
			},
		},
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.1),
	}

	start := time.Now()
	response, err := e.client.Chat.Completions.New(ctx, body)
	if err != nil {
		return nil, classifyAPIError(err)
	}
	logger.Debug("Chat completion finished",
		"model", e.model,
		"prompt_tokens", response.Usage.PromptTokens,
		"completion_tokens", response.Usage.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response from model")
	}
	content := response.Choices[0].Message.Content
	if content == "" {
		return nil, fmt.Errorf("empty response from model (finish_reason: %s)", response.Choices[0].FinishReason)
	}

	var meta Metadata
	if err := UnmarshalFlexible(content, &meta); err != nil {
		return nil, err
	}
	if err := meta.Normalize(); err != nil {
		return nil, err
	}
	return &meta, nil
}

// classifyAPIError marks status errors as permanent. The client has already
// retried rate limits and server errors with backoff, and other 4xx
// responses fail the same way every time.
func classifyAPIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", util.ErrPermanent, err)
	}
	return err
}
