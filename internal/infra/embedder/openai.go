package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/templepass/ai-service/internal/domain/chatbot"
	"github.com/templepass/ai-service/pkg/metrics"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint. The same
// instance embeds the corpus at startup and every query afterwards, which is
// what keeps similarity scores comparable.
type OpenAIEmbedder struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
	encoding   *tiktoken.Tiktoken
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// NewOpenAIEmbedder constructs the embedder.
func NewOpenAIEmbedder(apiKey, baseURL, model string, logger *slog.Logger) (*OpenAIEmbedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("embedding api key cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("embedding model cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("init token encoding: %w", err)
		}
	}
	return &OpenAIEmbedder{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger:   logger.With("component", "embedder.openai"),
		encoding: encoding,
	}, nil
}

// Embed returns one vector per input text, in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(embeddingRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encode embedding request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request embeddings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("embedding request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var decoded embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(decoded.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(decoded.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range decoded.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding response index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	for i, vec := range vectors {
		if len(vec) == 0 {
			return nil, fmt.Errorf("embedding response missing vector for input %d", i)
		}
	}

	e.logUsage(texts, decoded)
	return vectors, nil
}

func (e *OpenAIEmbedder) logUsage(texts []string, decoded embeddingResponse) {
	usage := metrics.TokenUsage{
		PromptTokens: decoded.Usage.PromptTokens,
		TotalTokens:  decoded.Usage.TotalTokens,
	}
	if usage.IsZero() && e.encoding != nil {
		// Endpoint did not report usage; count locally.
		for _, text := range texts {
			usage.PromptTokens += len(e.encoding.Encode(text, nil, nil))
		}
		usage.TotalTokens = usage.PromptTokens
	}
	e.logger.Debug("embedding usage", "inputs", len(texts), "promptTokens", usage.PromptTokens, "totalTokens", usage.TotalTokens)
}

var _ chatbot.Embedder = (*OpenAIEmbedder)(nil)
