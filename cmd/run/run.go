package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nampwaztaken/skycast-ultra-casino/accounts"
	"github.com/nampwaztaken/skycast-ultra-casino/api"
	"github.com/nampwaztaken/skycast-ultra-casino/communications"
	"github.com/nampwaztaken/skycast-ultra-casino/config"
	"github.com/nampwaztaken/skycast-ultra-casino/db"
	"github.com/nampwaztaken/skycast-ultra-casino/insight"
)

func main() {
	env := config.Env{}
	err := config.LoadEnv(&env)
	if err != nil {
		slog.Error("Error loading config", "err", err)
		return
	}
	router := gin.Default()

	DBUrl := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", env.DBHost, env.DBPort, env.DBUser, env.DBName, env.DBUserPwd)
	DB, err := gorm.Open(postgres.Open(DBUrl), &gorm.Config{})
	if err != nil {
		slog.Error("Error connecting to db", "err", err)
		return
	} else {
		slog.Info("Connected to db")
	}

	manager := communications.New()
	go manager.Run()

	database := &db.DB{DB: DB}
	store := accounts.NewGormStore(database)

	var cache insight.Cache
	if env.RedisURL != "" {
		opts, err := redis.ParseURL(env.RedisURL)
		if err != nil {
			slog.Error("Error parsing redis url", "err", err)
			return
		}
		cache = insight.NewRedisCache(redis.NewClient(opts))
		slog.Info("Using redis weather cache")
	} else {
		cache = insight.NewMemoryCache()
	}
	insightClient := insight.New(env.InsightAPIKey, env.InsightEndpoint, env.InsightModel, cache,
		&http.Client{Timeout: 15 * time.Second})

	sCtrl := api.SharedController{
		Db:      database,
		Env:     &env,
		Manager: manager,
		Store:   store,
		Insight: insightClient,
	}

	router.Use(api.CORSMiddleware())

	api.AuthEndpoints(&sCtrl, router)
	api.UserEndpoints(&sCtrl, router)
	api.CasinoEndpoints(&sCtrl, router)
	api.GeneralEndpoints(&sCtrl, router)
	api.RoundsEndpoints(&sCtrl, router)
	api.WeatherEndpoints(&sCtrl, router)
	router.Run(fmt.Sprintf("%s:%s", env.ServerHost, env.ServerPort))
}
