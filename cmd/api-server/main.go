package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"moviweb/internal/auth"
	"moviweb/internal/events"
	"moviweb/internal/movies"
	"moviweb/internal/notify"
	"moviweb/internal/omdb"
	"moviweb/internal/people"
	"moviweb/pkg/database"
	"moviweb/pkg/utils"
)

func main() {
	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	appCfg := utils.LoadAppConfig()

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start the event fan-out first (so you notice binding errors early)
	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub))
	tcpSrv := events.NewServer(appCfg.EventsAddr, hub)

	registry := notify.NewRegistry()
	notifySrv := notify.NewServer(appCfg.NotifyAddr, registry, nil)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Store and services are built once here and handed to the handlers;
	// nothing reaches for a global handle.
	peopleRepo := people.NewRepo(db)
	peopleSvc := people.NewService(peopleRepo)

	movieRepo := movies.NewRepo(db)
	provider := omdb.NewClient(appCfg.OMDbAPIKey, appCfg.OMDbBaseURL)
	movieSvc := movies.NewService(movieRepo, peopleRepo, provider)

	// Protected routes
	protectedPeople := router.Group("/people")
	protectedPeople.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	peopleHandler := people.NewHandler(peopleSvc, hub)
	peopleHandler.RegisterRoutes(protectedPeople)

	movieHandler := movies.NewHandler(movieSvc, hub, notifySrv)
	movieHandler.RegisterPersonRoutes(protectedPeople)

	protectedMovies := router.Group("/movies")
	protectedMovies.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	movieHandler.RegisterMovieRoutes(protectedMovies)

	httpSrv := &http.Server{
		Addr:    appCfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := notifySrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", appCfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("events shutdown error: %v", err)
	}
	if err := notifySrv.Close(); err != nil {
		log.Printf("notify shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
