package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"electronic_product/config"
	"electronic_product/internal/common"
	"electronic_product/internal/registry"
)

// MongoHandle giữ kết nối MongoDB của một lần chạy job.
// Open và Close đều idempotent; collection được cache theo tên trong registry.
type MongoHandle struct {
	uri    string
	dbName string

	mu          sync.Mutex
	client      *mongo.Client
	collections *registry.Registry[*mongo.Collection]
	log         logrus.FieldLogger
}

// NewMongoHandle tạo handle từ cấu hình, chưa kết nối
func NewMongoHandle(c *config.Configuration, log logrus.FieldLogger) *MongoHandle {
	return &MongoHandle{
		uri:         c.MongoDB_ConnectionURI,
		dbName:      c.MongoDB_DBName,
		collections: registry.NewRegistry[*mongo.Collection](),
		log:         log,
	}
}

// NewMongoHandleFromClient bọc một client đã kết nối sẵn (dùng cho test với mtest)
func NewMongoHandleFromClient(client *mongo.Client, dbName string, log logrus.FieldLogger) *MongoHandle {
	return &MongoHandle{
		dbName:      dbName,
		client:      client,
		collections: registry.NewRegistry[*mongo.Collection](),
		log:         log,
	}
}

// Open kết nối và ping MongoDB. Gọi lại khi đã mở thì không làm gì.
func (h *MongoHandle) Open(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return nil
	}
	if h.uri == "" {
		return common.ErrConfigMissing.WithDetails(fmt.Errorf("MONGODB_CONNECTION_URI is empty"))
	}

	// Cài đặt các options cho client
	clientOptions := options.Client().ApplyURI(h.uri).
		SetMaxPoolSize(20).                 // Job chạy một lần, không cần pool lớn
		SetConnectTimeout(5 * time.Second). // Timeout khi kết nối
		SetSocketTimeout(60 * time.Second)  // Bulk write lớn có thể lâu

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return common.ErrConnection.WithDetails(fmt.Errorf("failed to connect to MongoDB: %w", err))
	}

	// Kiểm tra kết nối
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return common.ErrConnection.WithDetails(fmt.Errorf("failed to ping MongoDB: %w", err))
	}

	h.client = client
	h.log.WithField("database", h.dbName).Info("Successfully connected to MongoDB")
	return nil
}

// IsOpen cho biết handle đang giữ kết nối hay không
func (h *MongoHandle) IsOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.client != nil
}

// Database trả về database đích, lỗi nếu chưa Open
func (h *MongoHandle) Database() (*mongo.Database, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.client == nil {
		return nil, common.ErrConnection.WithDetails(fmt.Errorf("mongo handle is not open"))
	}
	return h.client.Database(h.dbName), nil
}

// Collection trả về collection theo tên, cache trong registry
func (h *MongoHandle) Collection(name string) (*mongo.Collection, error) {
	db, err := h.Database()
	if err != nil {
		return nil, err
	}
	return h.collections.GetOrCreate(name, func() (*mongo.Collection, error) {
		return db.Collection(name), nil
	})
}

// Close ngắt kết nối. Gọi nhiều lần an toàn.
func (h *MongoHandle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return nil
	}
	_, _ = h.collections.ClearAll(nil)

	client := h.client
	h.client = nil
	if err := client.Disconnect(ctx); err != nil {
		h.log.WithError(err).Error("Failed to disconnect MongoDB client")
		return common.ErrConnection.WithDetails(err)
	}
	h.log.Info("Successfully disconnected from MongoDB")
	return nil
}
