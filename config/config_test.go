package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electronic_product/internal/common"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig_FromFileWithDefaults(t *testing.T) {
	// godotenv.Load chỉ set biến chưa có, t.Setenv("", ...) + Unsetenv đảm bảo sạch rồi tự khôi phục
	for _, k := range []string{"MONGODB_CONNECTION_URI", "MONGODB_DBNAME", "SQL_DRIVER", "SQL_DSN", "COLLECTION_ENHANCED_PRODUCTS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	path := writeEnvFile(t, "MONGODB_CONNECTION_URI=mongodb://db:27017\nSQL_DRIVER=mysql\nCOLLECTION_ENHANCED_PRODUCTS=products_v2\n")
	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.MongoDB_ConnectionURI)
	assert.Equal(t, "ElectronicProduct", cfg.MongoDB_DBName)
	assert.Equal(t, "mysql", cfg.SQL_Driver)
	assert.Equal(t, "products_v2", cfg.Collections.EnhancedProducts)
	assert.Equal(t, "enhancedcategories", cfg.Collections.EnhancedCategories)
	assert.Equal(t, "accounts", cfg.Collections.RawAccounts)
	assert.Equal(t, "users", cfg.Collections.Users)

	err = cfg.RequireSQL()
	assert.True(t, errors.Is(err, common.ErrConfigMissing))
}

func TestNewConfig_EnvironmentWinsOverFile(t *testing.T) {
	t.Setenv("MONGODB_CONNECTION_URI", "mongodb://from-env:27017")
	path := writeEnvFile(t, "MONGODB_CONNECTION_URI=mongodb://from-file:27017\n")

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://from-env:27017", cfg.MongoDB_ConnectionURI)
}

func TestNewConfig_MissingRequired(t *testing.T) {
	t.Setenv("MONGODB_CONNECTION_URI", "")
	require.NoError(t, os.Unsetenv("MONGODB_CONNECTION_URI"))

	path := writeEnvFile(t, "MONGODB_DBNAME=x\n")
	_, err := NewConfig(path)
	assert.True(t, errors.Is(err, common.ErrConfigMissing))
}

func TestNewConfig_UnreadableFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.True(t, errors.Is(err, common.ErrInvalidFile))
}
