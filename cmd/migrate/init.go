package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"electronic_product/config"
	"electronic_product/internal/database"
	"electronic_product/internal/global"
	"electronic_product/internal/logger"
	"electronic_product/internal/migration/models"
)

// initLogger khởi tạo logger, cấu hình đọc từ environment
func initLogger() error {
	if err := logger.Init(nil); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.GetAppLogger().Debug("Logger system initialized successfully")
	return nil
}

// initConfig nạp cấu hình, envFile rỗng thì tìm config/env/<GO_ENV>.env
func initConfig(envFile string) (*config.Configuration, error) {
	if envFile != "" {
		return config.NewConfig(envFile)
	}
	return config.NewConfig()
}

// initGlobal khởi tạo logger, validator và cấu hình cho một lần chạy
func initGlobal(envFile string) (*config.Configuration, error) {
	if err := initLogger(); err != nil {
		return nil, err
	}
	global.InitValidator()

	cfg, err := initConfig(envFile)
	if err != nil {
		logger.GetErrorLogger().WithError(err).Error("Failed to load configuration")
		return nil, err
	}
	return cfg, nil
}

// initDatabase_MongoDB mở kết nối MongoDB và tạo index cho các collection enhanced
func initDatabase_MongoDB(ctx context.Context, cfg *config.Configuration, log logrus.FieldLogger) (*database.MongoHandle, error) {
	h := database.NewMongoHandle(cfg, log)
	if err := h.Open(ctx); err != nil {
		return nil, err
	}

	targets := []struct {
		name  string
		model interface{}
	}{
		{cfg.Collections.EnhancedCategories, models.EnhancedCategory{}},
		{cfg.Collections.EnhancedProducts, models.EnhancedProduct{}},
	}
	for _, target := range targets {
		coll, err := h.Collection(target.name)
		if err != nil {
			_ = h.Close(ctx)
			return nil, err
		}
		if err := database.EnsureIndexes(ctx, coll, target.model, log); err != nil {
			_ = h.Close(ctx)
			return nil, fmt.Errorf("ensure indexes on %s: %w", target.name, err)
		}
	}

	db, err := h.Database()
	if err != nil {
		_ = h.Close(ctx)
		return nil, err
	}
	if err := database.CreateCatalogAdditionalIndexes(ctx, db, cfg.Collections); err != nil {
		_ = h.Close(ctx)
		return nil, err
	}
	return h, nil
}

// initDatabase_SQL mở kết nối nguồn SQL, chỉ job mirror bảng cần
func initDatabase_SQL(ctx context.Context, cfg *config.Configuration, log logrus.FieldLogger) (*database.SQLHandle, error) {
	if err := cfg.RequireSQL(); err != nil {
		return nil, err
	}
	h, err := database.NewSQLHandle(cfg.SQL_Driver, cfg.SQL_DSN, log)
	if err != nil {
		return nil, err
	}
	if _, err := h.Open(ctx); err != nil {
		return nil, err
	}
	return h, nil
}
