package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"cellscope/adapters/api"
	"cellscope/adapters/excel"
	"cellscope/adapters/postgres"
	"cellscope/adapters/stats/engine"
	"cellscope/internal"
	"cellscope/internal/aggregate"
	"cellscope/internal/config"
	"cellscope/internal/request"
	"cellscope/internal/testkit"
	"cellscope/ports"
)

func initDatabase(cfg *config.Config, logger *internal.Logger) (ports.ResultArchive, error) {
	if cfg.Database.URL == "" {
		logger.Info("DATABASE_URL not set, running without result archive")
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	repo := postgres.NewAnalysisRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	logger.Info("result archive connected")
	return repo, nil
}

func loadSource(cfg *config.Config, logger *internal.Logger) (*aggregate.Source, error) {
	if cfg.Data.DatasetFile != "" {
		src, cells, err := excel.NewDataReader(cfg.Data.DatasetFile).ReadSource()
		if err != nil {
			return nil, err
		}
		logger.Info("loaded %d cells from %s", cells, cfg.Data.DatasetFile)
		return src, nil
	}

	pop, err := testkit.Generate(testkit.DefaultConfig())
	if err != nil {
		return nil, err
	}
	logger.Info("DATASET_FILE not set, generated demo population of %d cells", len(pop.Expression))
	return pop.Source(), nil
}

func main() {
	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed: %v", err)
		return
	}

	archive, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Error("database init failed: %v", err)
		return
	}

	source, err := loadSource(cfg, logger)
	if err != nil {
		logger.Error("dataset load failed: %v", err)
		return
	}

	aggEngine := aggregate.NewEngine(aggregate.Config{
		ExactThreshold: cfg.Aggregate.ExactThreshold,
		ReservoirSize:  cfg.Aggregate.ReservoirSize,
		Seed:           cfg.Aggregate.Seed,
	})
	manager := request.NewManager(aggEngine, source, logger)
	defer manager.Close()

	gin.SetMode(cfg.Server.GinMode)
	server := api.NewServer(engine.NewOrchestrator(), manager, archive, logger)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		logger.Error("server stopped: %v", err)
	}
}
