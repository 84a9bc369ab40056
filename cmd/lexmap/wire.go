package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/lexmap/internal/adapters/driven/ai"
	"github.com/custodia-labs/lexmap/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexmap/internal/adapters/driven/connectivity"
	"github.com/custodia-labs/lexmap/internal/adapters/driven/remote"
	"github.com/custodia-labs/lexmap/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexmap/internal/chunker"
	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/services"
	"github.com/custodia-labs/lexmap/internal/extractor/pdf"
	"github.com/custodia-labs/lexmap/internal/graph/keyword"
	"github.com/custodia-labs/lexmap/internal/logger"
)

// probeInterval is how often the background monitor re-checks the
// remote service.
const probeInterval = 15 * time.Second

// bootstrap builds the core services from the config file and wires
// the config watcher and connectivity monitor to the router.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	store, err := openConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	settingsSvc := services.NewSettingsService(store, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	pipeline, aiResult, err := buildPipeline(settings)
	if err != nil {
		return nil, err
	}

	client, err := remote.New(remote.Config{
		BaseURL:           settings.Remote.BaseURL,
		Timeout:           settings.Remote.Timeout,
		RequestsPerSecond: settings.Remote.RequestsPerSecond,
	})
	if err != nil {
		aiResult.Close()
		return nil, err
	}

	monitor := connectivity.NewMonitor(connectivity.NewHTTPProbe(settings.Remote.BaseURL, 0), 0)
	router := services.NewRouter(pipeline, client, monitor, settings.Mode.Online)

	runCtx, cancel := context.WithCancel(ctx)
	go monitor.Run(runCtx, probeInterval)

	watcher := file.NewWatcher(store, func(*file.ConfigStore) {
		reloaded, err := settingsSvc.Get()
		if err != nil {
			logger.Warn("reload settings: %v", err)
			return
		}
		router.SetMode(reloaded.Mode.Online)
	})
	go func() {
		if err := watcher.Run(runCtx); err != nil {
			logger.Warn("config watcher stopped: %v", err)
		}
	}()

	return &cli.Services{
		Explorer:     router,
		Settings:     settingsSvc,
		Connectivity: monitor,
		LogFile:      filepath.Join(filepath.Dir(store.Path()), "lexmap.log"),
		Close: func() {
			cancel()
			monitor.Close()
			aiResult.Close()
		},
	}, nil
}

func openConfig(path string) (*file.ConfigStore, error) {
	env := file.WithEnv(file.DefaultEnv())
	if path != "" {
		return file.NewConfigStoreAt(path, env)
	}
	return file.NewConfigStore("", env)
}

// buildPipeline assembles the offline pipeline. Provider failures are not
// fatal: ai.Init falls back to local embeddings and a nil LLM.
func buildPipeline(settings *domain.AppSettings) (*services.OfflinePipeline, *ai.InitResult, error) {
	deriver := keyword.New()
	if settings.Graph.VocabularyFile != "" {
		vocab, err := keyword.LoadVocabulary(settings.Graph.VocabularyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load vocabulary: %w", err)
		}
		deriver = keyword.NewWithVocabulary(vocab)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return nil, nil, err
	}

	aiResult := ai.Init(settings)

	pipeline := services.NewOfflinePipeline(
		pdf.New(),
		chunker.New(
			chunker.WithChunkSize(settings.Chunking.Size),
			chunker.WithOverlap(settings.Chunking.Overlap),
		),
		services.NewVectorIndex(aiResult.EmbeddingService),
		aiResult.LLMService,
		deriver,
		prompts,
		services.NewConversationStore(settings.Conversation.MaxTurns),
	)
	pipeline.SetTopK(settings.Retrieval.TopK)
	pipeline.SetCallTimeout(settings.Offline.CallTimeout)
	pipeline.SetTitleFunc(pdf.ExtractTitle)
	return pipeline, aiResult, nil
}
