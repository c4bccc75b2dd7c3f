package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"devlog-engagement/internal/cache"
	"devlog-engagement/internal/config"
	"devlog-engagement/internal/database"
	"devlog-engagement/internal/engine"
	"devlog-engagement/internal/handlers"
	"devlog-engagement/internal/middleware"
	"devlog-engagement/internal/utils"
	ws "devlog-engagement/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metrics := utils.NewMetricsCollector()

	db, err := newAdapter(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database adapter: %v", err)
	}
	defer db.Close(context.Background())

	cacheStore, err := newCacheStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize read cache: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, db, cacheStore, hub, metrics)

	server := handlers.NewServer(system, eng, metrics, db, hub)
	identity := middleware.NewIdentity(cfg.JWTSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	mux.HandleFunc("/post/metrics", server.HandlePostMetrics())
	mux.HandleFunc("/post/view", server.HandleView())
	mux.HandleFunc("/post/like", server.HandleLike())
	mux.HandleFunc("/bookmarks", server.HandleBookmarks())
	mux.HandleFunc("/comment", server.HandleComment())
	mux.HandleFunc("/comments", server.HandleListComments())
	mux.HandleFunc("/ws", server.HandleWebSocket())

	cors := middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins))
	handler := cors(identity.ViewerMiddleware(mux))

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s (db=%s)", serverAddr, cfg.Database.Type)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// newAdapter selects the store backend from configuration.
func newAdapter(cfg *config.Config) (database.Adapter, error) {
	switch cfg.Database.Type {
	case "mongo":
		return database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)

	case "postgres":
		db, err := database.NewPostgresDB(cfg.Database.URI)
		if err != nil {
			return nil, err
		}
		if err := db.InitializeTables(context.Background()); err != nil {
			return nil, err
		}
		return db, nil

	case "memory":
		log.Println("Using in-memory adapter; state will not survive restarts")
		return database.NewMemoryDB(), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

// newCacheStore uses Redis when configured and an in-process map otherwise.
func newCacheStore(cfg *config.Config) (cache.Store, error) {
	if cfg.Redis.Enabled {
		return cache.NewRedisStore(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	}
	log.Println("REDIS_HOST not set; using in-process read cache")
	return cache.NewMemoryStore(), nil
}
