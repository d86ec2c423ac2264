package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/lee-electronics/assistant/internal/config"
	"github.com/lee-electronics/assistant/internal/handler"
	"github.com/lee-electronics/assistant/internal/model/persona"
	"github.com/lee-electronics/assistant/internal/service/ai"
	"github.com/lee-electronics/assistant/internal/service/chat"
	"github.com/lee-electronics/assistant/internal/service/knowledge"
	"github.com/lee-electronics/assistant/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		logger.Warnf("failed to load .env file: %v; continuing with system environment variables only", envErr)
	}
	log := logger.L()

	var geminiClient *genai.Client
	if cfg.AI.GeminiEnabled() {
		geminiClient, err = genai.NewClient(ctx, option.WithAPIKey(cfg.AI.GeminiAPIKey))
		if err != nil {
			logger.Warnf("failed to create Gemini client: %v", err)
			geminiClient = nil
		} else {
			defer geminiClient.Close()
		}
	} else {
		logger.Warn("Gemini API key not configured")
	}

	generator, err := ai.NewGenerator(ctx, cfg.AI, persona.LeeElectronics(), geminiClient)
	if err != nil {
		logger.Warnf("failed to initialize AI generator: %v; answering with mock responses", err)
		generator = ai.MockGenerator{}
	}
	logger.WithField("live", generator.Live()).Infof("answer generator ready (%T)", generator)

	corpus := knowledge.Load(cfg.Knowledge.Dir, cfg.Knowledge.ChunkSize, log)
	retriever := newRetriever(cfg.Knowledge, cfg.AI, corpus, geminiClient, log)

	chatSvc := chat.NewService(retriever, ai.NewService(generator, log),
		chat.WithLogger(log),
		chat.WithHistoryLimit(cfg.Server.HistoryLimit),
	)

	router := handler.NewRouter(chatSvc, cfg.Server.AllowedOrigins, log)

	startServer(ctx, cfg.Server, router)
}

func newRetriever(kcfg config.KnowledgeConfig, acfg config.AIConfig, corpus *knowledge.Corpus, gemini *genai.Client, log *logrus.Logger) knowledge.Retriever {
	if kcfg.Embeddings && gemini != nil {
		log.WithField("model", acfg.GeminiEmbeddingModel).Info("semantic retrieval enabled")
		embedder := knowledge.NewGeminiEmbedder(gemini, acfg.GeminiEmbeddingModel)
		return knowledge.NewEmbeddingRetriever(corpus, embedder, kcfg.TopK, log)
	}
	log.Info("semantic retrieval disabled, using keyword retrieval")
	return knowledge.NewKeywordRetriever(corpus, kcfg.TopK)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Infof("Lee Electronics assistant backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		logger.Fatalf("server error: %v", err)
	}
	logger.Info("server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
