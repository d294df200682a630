//go:build integration

package http_test

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/reviews_app/internal/config"
	"github.com/Pesokrava/reviews_app/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/reviews_app/internal/delivery/http"
	"github.com/Pesokrava/reviews_app/internal/delivery/http/handler"
	"github.com/Pesokrava/reviews_app/internal/domain"
	"github.com/Pesokrava/reviews_app/internal/pkg/cache"
	"github.com/Pesokrava/reviews_app/internal/pkg/database"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/reviews_app/internal/repository/cache"
	"github.com/Pesokrava/reviews_app/internal/repository/postgres"
	"github.com/Pesokrava/reviews_app/internal/usecase/product"
	"github.com/Pesokrava/reviews_app/internal/usecase/review"
)

var (
	testDB    *sqlx.DB
	testRedis *redis.Client
	testCfg   *config.Config
)

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not connect to docker: %s", err)
	}

	hostConfig := func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	}

	pg, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=reviews_app",
		},
	}, hostConfig)
	if err != nil {
		log.Fatalf("could not start postgres: %s", err)
	}
	_ = pg.Expire(120)

	rd, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, hostConfig)
	if err != nil {
		log.Fatalf("could not start redis: %s", err)
	}
	_ = rd.Expire(120)

	testCfg = &config.Config{
		Env: "test",
		Server: config.ServerConfig{
			RequestTimeout: 10 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            pg.GetPort("5432/tcp"),
			User:            "test",
			Password:        "test",
			Name:            "reviews_app",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Minute,
		},
		Redis: config.RedisConfig{
			Host: "localhost",
			Port: rd.GetPort("6379/tcp"),
		},
		Cache: config.CacheConfig{
			Enabled:        true,
			ReviewsPageTTL: time.Minute,
		},
	}

	if err := pool.Retry(func() error {
		db, err := database.NewPostgresDB(testCfg)
		if err != nil {
			return err
		}
		testDB = db
		return nil
	}); err != nil {
		log.Fatalf("postgres never became ready: %s", err)
	}

	if err := pool.Retry(func() error {
		client, err := cache.NewRedisClient(testCfg)
		if err != nil {
			return err
		}
		testRedis = client
		return nil
	}); err != nil {
		log.Fatalf("redis never became ready: %s", err)
	}

	if err := database.RunMigrations(testCfg.GetMigrateURL()); err != nil {
		log.Fatalf("migrations failed: %s", err)
	}

	code := m.Run()

	testRedis.Close()
	testDB.Close()
	for _, resource := range []*dockertest.Resource{pg, rd} {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("could not purge container: %s", err)
		}
	}

	os.Exit(code)
}

func setupTestServer(t *testing.T) http.Handler {
	t.Helper()

	_, err := testDB.Exec(`TRUNCATE products, reviews RESTART IDENTITY`)
	require.NoError(t, err)
	require.NoError(t, testRedis.FlushDB(t.Context()).Err())

	log := logger.Nop()

	productRepo := postgres.NewProductRepository(testDB)
	reviewRepo := postgres.NewReviewRepository(testDB)
	pageCache := cacheRepo.NewRedisCache(testRedis, testCfg.Cache.ReviewsPageTTL)

	productService := product.NewService(productRepo, log)
	reviewService := review.NewService(reviewRepo, productRepo, pageCache, events.NoopPublisher{}, log)

	router := httpDelivery.NewRouter(
		handler.NewProductHandler(productService, log),
		handler.NewReviewHandler(reviewService, log),
		prometheus.NewRegistry(),
		testCfg,
		log,
	)
	return router.Setup()
}

func do(t *testing.T, server http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) domain.Page[domain.Review] {
	t.Helper()

	var page domain.Page[domain.Review]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	return page
}

func reviewIDs(page domain.Page[domain.Review]) []int64 {
	ids := make([]int64, 0, len(page.Content))
	for _, rv := range page.Content {
		ids = append(ids, rv.ID)
	}
	return ids
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	w := do(t, server, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestProductCreateAndGet(t *testing.T) {
	server := setupTestServer(t)

	w := do(t, server, http.MethodPost, "/products", `{"title":"desk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/products/1", w.Header().Get("Location"))
	assert.Equal(t, `"1"`, w.Header().Get("ETag"))

	w = do(t, server, http.MethodGet, "/products/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"desk"}`, w.Body.String())

	w = do(t, server, http.MethodGet, "/products/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewLifecycle(t *testing.T) {
	server := setupTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/products", `{"title":"desk"}`).Code)

	w := do(t, server, http.MethodPost, "/reviews", `{"productId":1,"text":"Great desk","rating":5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"productId":1,"text":"Great desk","rating":5,"isDeleted":false}`, w.Body.String())

	w = do(t, server, http.MethodPost, "/reviews", `{"productId":1,"text":"Fine","rating":3}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, server, http.MethodPost, "/reviews", `{"productId":99,"text":"Ghost","rating":3}`)
	assert.Equal(t, http.StatusNotAcceptable, w.Code)

	w = do(t, server, http.MethodPost, "/reviews", `{"productId":1,"text":"Too good","rating":6}`)
	assert.Equal(t, http.StatusNotAcceptable, w.Code)

	// second read is served from the page cache
	for range 2 {
		w = do(t, server, http.MethodGet, "/reviews?productId=1", "")
		require.Equal(t, http.StatusOK, w.Code)
		page := decodePage(t, w)
		assert.Equal(t, []int64{1, 2}, reviewIDs(page))
		assert.Equal(t, 2, page.TotalElements)
	}

	assert.Equal(t, http.StatusAccepted, do(t, server, http.MethodDelete, "/reviews/1", "").Code)

	w = do(t, server, http.MethodGet, "/reviews?productId=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{2}, reviewIDs(decodePage(t, w)))

	w = do(t, server, http.MethodGet, "/reviews?showDeleted=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{1}, reviewIDs(decodePage(t, w)))

	w = do(t, server, http.MethodGet, "/reviews/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isDeleted":true`)

	w = do(t, server, http.MethodPut, "/reviews/1", `{"productId":1,"text":"Edited","rating":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"productId":1,"text":"Edited","rating":4,"isDeleted":true}`, w.Body.String())

	assert.Equal(t, http.StatusAccepted, do(t, server, http.MethodDelete, "/reviews", "").Code)

	w = do(t, server, http.MethodGet, "/reviews", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}
