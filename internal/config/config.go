package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting of the backend and the terminal client.
type Config struct {
	Server    ServerConfig
	Client    ClientConfig
	AI        AIConfig
	Knowledge KnowledgeConfig
	Log       LogConfig
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	client, err := LoadClient()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	knowledge, err := loadKnowledgeConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Client:    client,
		AI:        ai,
		Knowledge: knowledge,
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	// HistoryLimit caps the exchanges kept for GET /api/chat/.
	HistoryLimit int
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173"))

	historyLimit := 200
	if v, err := parseOptionalIntEnv("CHAT_HISTORY_LIMIT"); err != nil {
		return ServerConfig{}, err
	} else if v != nil {
		if *v < 1 {
			return ServerConfig{}, fmt.Errorf("invalid CHAT_HISTORY_LIMIT value %d", *v)
		}
		historyLimit = *v
	}

	addr := port
	// ":8000" and "127.0.0.1:8000" are accepted as-is.
	if !strings.Contains(port, ":") {
		if _, err := strconv.Atoi(port); err != nil {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	return ServerConfig{Addr: addr, AllowedOrigins: origins, HistoryLimit: historyLimit}, nil
}

// ClientConfig describes how the terminal client reaches the backend.
type ClientConfig struct {
	BaseURL string
	// Timeout bounds each request; zero leaves requests unbounded.
	Timeout time.Duration
}

// LoadClient reads only the terminal client settings, so a malformed backend
// variable never affects the client. On error the returned config still
// carries the base URL.
func LoadClient() (ClientConfig, error) {
	cfg := ClientConfig{BaseURL: getEnvOrDefault("LEECHAT_BASE_URL", "http://127.0.0.1:8000")}

	timeout, err := parseDurationEnv("LEECHAT_TIMEOUT", 0)
	if err != nil {
		return cfg, err
	}
	cfg.Timeout = timeout
	return cfg, nil
}

// Provider names the answer generator.
type Provider string

const (
	ProviderAuto   Provider = ""
	ProviderGemini Provider = "gemini"
	ProviderArk    Provider = "ark"
	ProviderMock   Provider = "mock"
)

// AIConfig describes the language model behind /api/chat/.
type AIConfig struct {
	Provider Provider

	GeminiAPIKey         string
	GeminiModel          string
	GeminiEmbeddingModel string
	Temperature          *float64
	TopP                 *float64
	MaxTokens            *int

	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string
}

// placeholderGeminiKey is the sample value shipped in .env templates.
const placeholderGeminiKey = "your-gemini-api-key-here"

// GeminiEnabled reports whether a real Gemini key is configured.
func (c AIConfig) GeminiEnabled() bool {
	return c.GeminiAPIKey != "" && c.GeminiAPIKey != placeholderGeminiKey
}

// ArkEnabled reports whether Ark credentials and a model are configured.
func (c AIConfig) ArkEnabled() bool {
	return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
}

// ResolvedProvider picks the generator to use. An explicit provider wins;
// otherwise Gemini, then Ark, then the mock answerer.
func (c AIConfig) ResolvedProvider() Provider {
	if c.Provider != ProviderAuto {
		return c.Provider
	}
	switch {
	case c.GeminiEnabled():
		return ProviderGemini
	case c.ArkEnabled():
		return ProviderArk
	default:
		return ProviderMock
	}
}

// NewArkChatModel creates the Ark chat model used by the eino chain.
func (c AIConfig) NewArkChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.ArkEnabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY and Model, or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.ArkBaseURL,
		Region:      c.ArkRegion,
		APIKey:      c.ArkAPIKey,
		AccessKey:   c.ArkAccessKey,
		SecretKey:   c.ArkSecretKey,
		Model:       c.ArkModel,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	provider := Provider(strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER"))))
	switch provider {
	case ProviderAuto, ProviderGemini, ProviderArk, ProviderMock:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q", provider)
	}

	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("AI_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider:             provider,
		GeminiAPIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiEmbeddingModel: getEnvOrDefault("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		Temperature:          temperature,
		TopP:                 topP,
		MaxTokens:            maxTokens,
		ArkAPIKey:            strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey:         strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey:         strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:             strings.TrimSpace(os.Getenv("Model")),
		ArkBaseURL:           getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:            getEnvOrDefault("ARK_REGION", "cn-beijing"),
	}, nil
}

// KnowledgeConfig describes where retrieval context comes from.
type KnowledgeConfig struct {
	Dir        string
	ChunkSize  int
	TopK       int
	Embeddings bool
}

func loadKnowledgeConfig() (KnowledgeConfig, error) {
	chunkSize := 500
	if v, err := parseOptionalIntEnv("KNOWLEDGE_CHUNK_SIZE"); err != nil {
		return KnowledgeConfig{}, err
	} else if v != nil {
		if *v < 1 {
			return KnowledgeConfig{}, fmt.Errorf("invalid KNOWLEDGE_CHUNK_SIZE value %d", *v)
		}
		chunkSize = *v
	}

	topK := 3
	if v, err := parseOptionalIntEnv("KNOWLEDGE_TOP_K"); err != nil {
		return KnowledgeConfig{}, err
	} else if v != nil {
		if *v < 1 {
			topK = 1
		} else {
			topK = *v
		}
	}

	embeddings, err := parseBoolEnv("KNOWLEDGE_EMBEDDINGS", true)
	if err != nil {
		return KnowledgeConfig{}, err
	}

	return KnowledgeConfig{
		Dir:        getEnvOrDefault("KNOWLEDGE_DIR", "./knowledge"),
		ChunkSize:  chunkSize,
		TopK:       topK,
		Embeddings: embeddings,
	}, nil
}

// LogConfig describes logger level and output format.
type LogConfig struct {
	Level  string
	Format string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid %s value %q: must not be negative", key, raw)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
