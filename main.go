package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fazletdinov/vidstream/internal/config"
	"github.com/fazletdinov/vidstream/internal/db"
	"github.com/fazletdinov/vidstream/internal/handler"
	"github.com/fazletdinov/vidstream/internal/model"
	"github.com/fazletdinov/vidstream/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] No .env file: %v", err)
	}

	cfg := config.Load()
	ctx := context.Background()

	store, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("[Main] Failed to connect to postgres: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("[Main] Failed to ensure schema: %v", err)
	}

	privatePEM, err := os.ReadFile(cfg.Token.PrivateKeyPath)
	if err != nil {
		log.Fatalf("[Main] Failed to read private key: %v", err)
	}
	publicPEM, err := os.ReadFile(cfg.Token.PublicKeyPath)
	if err != nil {
		log.Fatalf("[Main] Failed to read public key: %v", err)
	}
	codec, err := service.NewRSATokenCodec(privatePEM, publicPEM)
	if err != nil {
		log.Fatalf("[Main] Failed to build token codec: %v", err)
	}

	hashCost := 0
	if cfg.Hash.Cost != "" {
		hashCost, err = strconv.Atoi(cfg.Hash.Cost)
		if err != nil {
			log.Fatalf("[Main] Invalid HASH_COST: %v", err)
		}
	}
	hasher := service.NewBcryptHasher(hashCost)

	authService, err := service.NewAuthService(store, hasher, codec, cfg.Token)
	if err != nil {
		log.Fatalf("[Main] Failed to build auth service: %v", err)
	}

	writer := service.NewUploadWriter(2)
	defer writer.Close()

	videoService, err := service.NewVideoService(store, writer, cfg.Media)
	if err != nil {
		log.Fatalf("[Main] Failed to build video service: %v", err)
	}

	commentService := service.NewCommentService(store, store)
	reactionService := service.NewReactionService(store, store)

	authHandler := handler.NewAuthHandler(authService)
	videoHandler := handler.NewVideoHandler(videoService)
	commentHandler := handler.NewCommentHandler(commentService)
	reactionHandler := handler.NewReactionHandler(reactionService)

	router := gin.Default()
	if origins := splitOrigins(cfg.App.AllowedOrigins); len(origins) > 0 {
		router.Use(handler.CORSMiddleware(origins))
	}

	router.GET("/ping", handler.Ping)
	router.GET("/", handler.Root)

	authRequired := handler.AuthRequired(authService)

	auth := router.Group("/auth")
	{
		auth.POST("/", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.PATCH("/update", authRequired, authHandler.Update)
		auth.DELETE("/deactivate_user", authRequired, authHandler.Deactivate)
		auth.GET("/me", authRequired, authHandler.Me)
	}

	video := router.Group("/video", authRequired)
	{
		video.POST("/", videoHandler.Upload)
		video.GET("/", videoHandler.List)
		video.GET("/:id", videoHandler.Get)
		video.PATCH("/:id", videoHandler.Update)
		video.DELETE("/:id", videoHandler.Delete)
		video.GET("/:id/stream", videoHandler.Stream)

		video.POST("/:id/comment", commentHandler.Create)
		video.GET("/:id/comment", commentHandler.ListByVideo)
		video.PATCH("/:id/comment/:comment_id", commentHandler.Update)
		video.DELETE("/:id/comment/:comment_id", commentHandler.Delete)

		video.POST("/:id/reaction", reactionHandler.Set)
		video.GET("/:id/reaction", reactionHandler.ListByVideo)
		video.DELETE("/:id/reaction", reactionHandler.Delete)
	}

	router.GET("/comments/my", authRequired, commentHandler.ListMine)

	moderation := router.Group("/moderation", authRequired,
		handler.Authorize(service.RequireRole(model.RoleModerator)))
	{
		moderation.GET("/users/:user_id/comments", commentHandler.ListByUser)
	}

	if err := router.Run(cfg.App.ListenAddr); err != nil {
		log.Fatalf("[Main] Server stopped: %v", err)
	}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
