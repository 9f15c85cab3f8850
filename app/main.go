package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/histodesop/story-interactions/internal/filter"
	"github.com/histodesop/story-interactions/internal/repository"
	mysqlRepo "github.com/histodesop/story-interactions/internal/repository/mysql"
	redisCache "github.com/histodesop/story-interactions/internal/repository/redis"
	"github.com/histodesop/story-interactions/internal/rest"
	"github.com/histodesop/story-interactions/internal/rest/middleware"
	"github.com/histodesop/story-interactions/internal/usecase/interaction"
	"github.com/histodesop/story-interactions/internal/workers"
)

const (
	defaultTimeout     = 30
	defaultAddress     = ":9090"
	defaultCacheDB     = 0
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	// prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the cache connection", err)
		}
	}()

	_, err = client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("failed to open connection to cache", err)
		return
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// prepare repository: db layer, cache layer, coordinating layer
	interactionDBRepo := mysqlRepo.NewInteractionDBRepository(db)
	likeCache := redisCache.NewLikeCache(client)
	catalog := mysqlRepo.NewStoryCatalog(db)

	// start worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	likesSyncer := workers.NewSyncLikesWorker(interactionDBRepo)
	go likesSyncer.Start(ctx)

	interactionRepo := repository.NewInteractionRepository(interactionDBRepo, likeCache, likesSyncer)

	// build service layer
	interactionSvc := interaction.NewService(interactionRepo, catalog, filter.New())
	interactionHandler := rest.NewInteractionHandler(interactionSvc, catalog)

	// register routes
	route.GET("/catalog/ids", interactionHandler.StoryIDs)
	route.GET("/stats/general", interactionHandler.GeneralStats)

	route.GET("/stories/:id/likes", interactionHandler.GetLikes)
	route.POST("/stories/:id/likes", interactionHandler.ToggleLike)
	route.GET("/stories/:id/comments", interactionHandler.FetchComments)
	route.POST("/stories/:id/comments", interactionHandler.CreateComment)
	route.GET("/stories/:id/stats", interactionHandler.StoryStats)

	// start server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for worker to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}
