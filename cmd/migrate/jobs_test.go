package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"electronic_product/config"
	"electronic_product/internal/common"
	"electronic_product/internal/migration/enricher"
	"electronic_product/internal/migration/loader"
	"electronic_product/internal/migration/loader/memcoll"
	"electronic_product/internal/migration/models"
	"electronic_product/internal/migration/orchestrator"
	"electronic_product/internal/migration/source"
)

var jobNames = config.CollectionNames{
	RawAccounts:        "accounts",
	RawCategories:      "categories",
	RawProducts:        "products",
	EnhancedCategories: "enhancedcategories",
	EnhancedProducts:   "enhancedproducts",
	Users:              "users",
}

type stubSource struct {
	tables map[string][]source.Row
	errs   map[string]error
}

func (s *stubSource) ReadTable(ctx context.Context, table string) ([]source.Row, error) {
	if err := s.errs[table]; err != nil {
		return nil, common.ErrSourceRead.WithDetails(err)
	}
	return s.tables[table], nil
}

// stubStore đếm số lần đọc collection thô để kiểm tra thứ tự job
type stubStore struct {
	categories []models.RawCategory
	products   []models.RawProduct
	adminID    primitive.ObjectID

	categoryReads int
	productReads  int
}

func (s *stubStore) FindCategoriesByTypeIDs(ctx context.Context, typeIDs []int64) ([]models.RawCategory, error) {
	return s.categories, nil
}

func (s *stubStore) FindAccountsByIdentifiers(ctx context.Context, identifiers []string) ([]models.RawAccount, error) {
	return nil, nil
}

func (s *stubStore) RawCategories(ctx context.Context) ([]models.RawCategory, error) {
	s.categoryReads++
	return s.categories, nil
}

func (s *stubStore) RawProducts(ctx context.Context) ([]models.RawProduct, error) {
	s.productReads++
	return s.products, nil
}

func (s *stubStore) AdminID(ctx context.Context, fallbackHex string) (primitive.ObjectID, error) {
	if s.adminID.IsZero() {
		return primitive.NilObjectID, common.ErrAdminNotFound
	}
	return s.adminID, nil
}

func (s *stubStore) CategoryIDsByName(ctx context.Context) (map[string]primitive.ObjectID, error) {
	return map[string]primitive.ObjectID{}, nil
}

type jobEnv struct {
	opts   *cliOptions
	source *stubSource
	store  *stubStore
	colls  map[string]*memcoll.Collection
	runner *orchestrator.Runner
}

func newJobEnv(t *testing.T) *jobEnv {
	t.Helper()
	log, _ := test.NewNullLogger()
	e := &jobEnv{
		opts: &cliOptions{
			cfg: &config.Configuration{Collections: jobNames},
			log: log,
		},
		source: &stubSource{tables: map[string][]source.Row{}, errs: map[string]error{}},
		store: &stubStore{
			adminID:    primitive.NewObjectID(),
			categories: []models.RawCategory{{ID: primitive.NewObjectID(), TypeID: 1, CategoryName: "Phones"}},
			products:   []models.RawProduct{{ProductID: "P1", ProductName: "Phone"}},
		},
		colls: map[string]*memcoll.Collection{},
	}
	for _, name := range []string{jobNames.RawAccounts, jobNames.RawCategories, jobNames.RawProducts} {
		e.colls[name] = memcoll.New(name)
	}
	e.colls[jobNames.EnhancedCategories] = memcoll.New(jobNames.EnhancedCategories, "name", "slug")
	e.colls[jobNames.EnhancedProducts] = memcoll.New(jobNames.EnhancedProducts, "productId")

	e.runner = orchestrator.NewRunner(orchestrator.Options{
		Source: e.source,
		Store:  e.store,
		Collection: func(name string) (loader.Collection, error) {
			c, ok := e.colls[name]
			if !ok {
				return nil, fmt.Errorf("unknown collection %s", name)
			}
			return c, nil
		},
		Names: jobNames,
		Log:   log,
	})
	return e
}

func tables(reports []orchestrator.TableReport) []string {
	out := make([]string, 0, len(reports))
	for _, rep := range reports {
		out = append(out, rep.Table+"->"+rep.Collection)
	}
	return out
}

func TestAllSteps_RunInOrder(t *testing.T) {
	e := newJobEnv(t)
	e.source.tables["accounts"] = []source.Row{{"account": "alice", "email": "alice@x.com"}}

	reports, err := sequence(allSteps(e.opts)...)(context.Background(), e.runner)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"accounts->accounts",
		"categories->categories",
		"products->products",
		"categories->enhancedcategories",
		"products->enhancedproducts",
	}, tables(reports))
	assert.Equal(t, 1, e.colls[jobNames.EnhancedCategories].Count())
	assert.Equal(t, 1, e.colls[jobNames.EnhancedProducts].Count())
}

func TestAllSteps_StopAtFirstFailure(t *testing.T) {
	e := newJobEnv(t)
	e.source.errs["categories"] = errors.New("connection reset")

	reports, err := sequence(allSteps(e.opts)...)(context.Background(), e.runner)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrSourceRead))
	assert.Equal(t, []string{"accounts->accounts", "categories->categories"}, tables(reports))
	assert.Equal(t, orchestrator.StateFailed, reports[1].State)

	assert.Equal(t, 0, e.store.categoryReads)
	assert.Equal(t, 0, e.store.productReads)
	assert.Equal(t, 0, e.colls[jobNames.EnhancedCategories].Calls("BulkWrite"))
}

func TestAllSteps_CategoryFailureSkipsProducts(t *testing.T) {
	e := newJobEnv(t)
	e.store.adminID = primitive.NilObjectID

	reports, err := sequence(allSteps(e.opts)...)(context.Background(), e.runner)
	assert.True(t, errors.Is(err, common.ErrAdminNotFound))
	assert.Len(t, reports, 4)
	assert.Equal(t, 0, e.store.productReads)
}

func TestMigrateProducts_MissingDefaultExtrasFile(t *testing.T) {
	e := newJobEnv(t)
	e.opts.extraFile = filepath.Join(t.TempDir(), "ElectronicProduct.products.json")

	reports, err := migrateProducts(e.opts)(context.Background(), e.runner)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Succeeded())

	docs := e.colls[jobNames.EnhancedProducts].Docs()
	require.Len(t, docs, 1)
	assert.Equal(t, enricher.DefaultBrand, docs[0]["brand"])
}

func TestMigrateProducts_MissingExplicitExtrasFile(t *testing.T) {
	e := newJobEnv(t)
	e.opts.extraFile = filepath.Join(t.TempDir(), "missing.json")
	e.opts.extraExplicit = true

	_, err := migrateProducts(e.opts)(context.Background(), e.runner)
	assert.True(t, errors.Is(err, common.ErrInvalidFile))
	assert.Equal(t, 0, e.store.productReads)
	assert.Equal(t, 0, e.colls[jobNames.EnhancedProducts].Calls("BulkWrite"))
}

func TestMigrateProducts_AppliesExtrasFile(t *testing.T) {
	e := newJobEnv(t)
	path := filepath.Join(t.TempDir(), "extras.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"productId": "P1", "brand": "Acme", "stock": 5}]`), 0o600))
	e.opts.extraFile = path

	_, err := migrateProducts(e.opts)(context.Background(), e.runner)
	require.NoError(t, err)

	found, err := e.colls[jobNames.EnhancedProducts].Find(bson.M{"productId": "P1"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Acme", found[0]["brand"])
	assert.Equal(t, int64(5), found[0]["stock"])
}

func TestOtherJobs_IgnoreExtrasFile(t *testing.T) {
	e := newJobEnv(t)
	e.opts.extraFile = filepath.Join(t.TempDir(), "missing.json")
	e.opts.extraExplicit = true

	_, err := migrateTables(e.opts)(context.Background(), e.runner)
	require.NoError(t, err)
	_, err = migrateCategories(e.opts)(context.Background(), e.runner)
	require.NoError(t, err)
	assert.Equal(t, 1, e.colls[jobNames.EnhancedCategories].Count())
}
