package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	// Driver cho các nguồn SQL được hỗ trợ
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"electronic_product/internal/common"
)

// Các driver nguồn SQL được hỗ trợ (tên đăng ký với database/sql)
const (
	DriverSQLServer = "sqlserver"
	DriverMySQL     = "mysql"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

// FlavorOf trả về flavor của go-sqlbuilder cho driver
func FlavorOf(driver string) (sqlbuilder.Flavor, error) {
	switch driver {
	case DriverSQLServer:
		return sqlbuilder.SQLServer, nil
	case DriverMySQL:
		return sqlbuilder.MySQL, nil
	case DriverPostgres:
		return sqlbuilder.PostgreSQL, nil
	case DriverSQLite:
		return sqlbuilder.SQLite, nil
	}
	return sqlbuilder.DefaultFlavor, common.ErrConfigMissing.WithDetails(fmt.Errorf("unsupported SQL_DRIVER %q", driver))
}

// SQLHandle giữ kết nối tới nguồn SQL cũ. Open và Close đều idempotent.
type SQLHandle struct {
	driver string
	dsn    string
	flavor sqlbuilder.Flavor

	mu  sync.Mutex
	db  *sqlx.DB
	log logrus.FieldLogger
}

// NewSQLHandle tạo handle, kiểm tra driver nhưng chưa kết nối
func NewSQLHandle(driver, dsn string, log logrus.FieldLogger) (*SQLHandle, error) {
	flavor, err := FlavorOf(driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, common.ErrConfigMissing.WithDetails(fmt.Errorf("SQL_DSN is empty"))
	}
	return &SQLHandle{driver: driver, dsn: dsn, flavor: flavor, log: log}, nil
}

// Open mở pool và ping nguồn SQL
func (h *SQLHandle) Open(ctx context.Context) (*sqlx.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		return h.db, nil
	}

	db, err := sqlx.Open(h.driver, h.dsn)
	if err != nil {
		return nil, common.ErrConnection.WithDetails(fmt.Errorf("failed to open %s: %w", h.driver, err))
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, common.ErrConnection.WithDetails(fmt.Errorf("failed to ping %s: %w", h.driver, err))
	}

	h.db = db
	h.log.WithField("driver", h.driver).Info("Successfully connected to SQL source")
	return db, nil
}

// DB trả về pool đang mở, nil nếu chưa Open
func (h *SQLHandle) DB() *sqlx.DB {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.db
}

// Flavor trả về flavor dùng để build câu SQL
func (h *SQLHandle) Flavor() sqlbuilder.Flavor { return h.flavor }

// Close đóng pool. Gọi nhiều lần an toàn.
func (h *SQLHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return nil
	}
	db := h.db
	h.db = nil
	if err := db.Close(); err != nil {
		h.log.WithError(err).Error("Failed to close SQL source")
		return err
	}
	h.log.WithField("driver", h.driver).Info("SQL source connection closed")
	return nil
}
