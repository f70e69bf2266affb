package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"glamvoice/internal/ai"
	appsvc "glamvoice/internal/app"
	"glamvoice/internal/bootstrap"
	"glamvoice/internal/cache"
	"glamvoice/internal/intent"
	rabbitmqClient "glamvoice/internal/platform/rabbitmq"
	"glamvoice/internal/rag"
	"glamvoice/internal/repository"
	"glamvoice/internal/textsplit"
	"glamvoice/internal/transport/http/handler"
	"glamvoice/internal/vectorindex"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	cfg := app.Config

	docRepo := repository.NewDocumentRepository(app.MySQL)
	turnRepo := repository.NewChatTurnRepository(app.MySQL)

	embedder := vectorindex.NewLLMEmbedder(app.AIClient, ai.EmbeddingConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.EmbeddingModel,
	})
	store := vectorindex.NewMilvusStore(app.Milvus, cfg.Milvus.Collection)
	index := vectorindex.New(store, embedder, cfg.RAG.EmbedBatchSize)

	docService := appsvc.NewDocumentService(
		docRepo,
		index,
		textsplit.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
	)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)

	var detector intent.Detector
	if cfg.Intent.Enabled {
		detector = intent.NewClassifier(
			cfg.Intent.ModelPath,
			cfg.Intent.VocabPath,
			cfg.Intent.LabelsPath,
			cfg.Intent.ONNXSharedLibPath,
			cfg.Intent.MaxTokens,
		)
	}

	usagePub := rabbitmqClient.NewUsagePublisher(app.MQConn, cfg.RabbitMQ.UsageAuditQueue)

	chatCfg := ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	}
	reformulator := rag.NewLLMReformulator(app.AIClient, chatCfg)
	retriever := rag.NewIndexRetriever(index, cfg.RAG.TopK)
	baseGenerator := rag.NewLLMGenerator(app.AIClient, chatCfg)

	chatService := appsvc.NewChatService(
		turnRepo,
		historyCache,
		detector,
		usagePub,
		appsvc.PipelineBuilder(reformulator, retriever, baseGenerator),
		cfg.LLM.Model,
		cfg.RAG.HistoryLimit,
	)

	chatHandler := handler.NewChatHandler(chatService)
	docHandler := handler.NewDocHandler(docService)

	router.POST("/chat", chatHandler.Chat)
	router.POST("/upload-doc", docHandler.Upload)
	router.GET("/list-docs", docHandler.List)
	router.POST("/delete-doc", docHandler.Delete)

	return router
}
