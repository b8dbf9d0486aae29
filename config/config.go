package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"

	"electronic_product/internal/common"
)

// CollectionNames chứa tên các collection MongoDB mà các job migration đọc/ghi
type CollectionNames struct {
	RawAccounts        string `env:"COLLECTION_RAW_ACCOUNTS" envDefault:"accounts"`                  // Bản sao bảng accounts từ SQL
	RawCategories      string `env:"COLLECTION_RAW_CATEGORIES" envDefault:"categories"`              // Bản sao bảng categories từ SQL
	RawProducts        string `env:"COLLECTION_RAW_PRODUCTS" envDefault:"products"`                  // Bản sao bảng products từ SQL
	EnhancedCategories string `env:"COLLECTION_ENHANCED_CATEGORIES" envDefault:"enhancedcategories"` // Danh mục đã chuẩn hóa
	EnhancedProducts   string `env:"COLLECTION_ENHANCED_PRODUCTS" envDefault:"enhancedproducts"`     // Sản phẩm đã chuẩn hóa
	Users              string `env:"COLLECTION_USERS" envDefault:"users"`                            // Người dùng (tìm admin cho createdBy)
}

// Configuration chứa thông tin tĩnh cần thiết để chạy các job migration
type Configuration struct {
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`               // URL kết nối MongoDB
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"ElectronicProduct"` // Tên database đích

	SQL_Driver string `env:"SQL_DRIVER" envDefault:"sqlserver"` // sqlserver | mysql | postgres | sqlite
	SQL_DSN    string `env:"SQL_DSN"`                           // Chỉ bắt buộc cho job "tables"

	SeedAdminID            string `env:"SEED_ADMIN_ID"`                                                              // Admin dự phòng khi không có user role=admin
	ProductExtraFile       string `env:"PRODUCT_EXTRA_FILE" envDefault:"documents/ElectronicProduct.products.json"`  // Dữ liệu bổ sung theo productId
	ProductCategoryMapFile string `env:"PRODUCT_CATEGORY_MAP_FILE" envDefault:"documents/product-category-map.json"` // group -> productId -> categories

	Collections CollectionNames
}

// getEnvPath tìm file config/env/<GO_ENV>.env bằng cách đi ngược lên từ thư mục hiện tại.
// Trả về "" nếu không tìm thấy.
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		envPath := filepath.Join(currentDir, "config", "env", fmt.Sprintf("%s.env", goEnv))
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig nạp file env (tham số files nếu có, nếu không thì config/env/<GO_ENV>.env)
// rồi parse environment vào Configuration. Không có file env không phải lỗi: job có thể
// chạy chỉ với biến môi trường. Thiếu biến bắt buộc trả về common.ErrConfigMissing.
func NewConfig(files ...string) (*Configuration, error) {
	if len(files) == 0 {
		if envPath := getEnvPath(); envPath != "" {
			files = []string{envPath}
		}
	}
	if len(files) > 0 {
		// godotenv.Load không ghi đè biến đã có trong môi trường
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("cannot load env file %v: %w", files, common.ErrInvalidFile.WithDetails(err))
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, common.ErrConfigMissing.WithDetails(err)
	}
	if err := env.Parse(&cfg.Collections); err != nil {
		return nil, common.ErrConfigMissing.WithDetails(err)
	}
	return &cfg, nil
}

// RequireSQL kiểm tra cấu hình nguồn SQL, chỉ cần cho job mirror bảng
func (c *Configuration) RequireSQL() error {
	if c.SQL_DSN == "" {
		return common.ErrConfigMissing.WithDetails(fmt.Errorf("SQL_DSN is required"))
	}
	return nil
}
