package orchestrator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"electronic_product/config"
	"electronic_product/internal/common"
	"electronic_product/internal/global"
	"electronic_product/internal/migration/enricher"
	"electronic_product/internal/migration/loader"
	"electronic_product/internal/migration/loader/memcoll"
	"electronic_product/internal/migration/models"
	"electronic_product/internal/migration/source"
)

var testNames = config.CollectionNames{
	RawAccounts:        "accounts",
	RawCategories:      "categories",
	RawProducts:        "products",
	EnhancedCategories: "enhancedcategories",
	EnhancedProducts:   "enhancedproducts",
	Users:              "users",
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeSource trả về các dòng cố định theo tên bảng
type fakeSource struct {
	tables map[string][]source.Row
	errs   map[string]error
	reads  []string
}

func (s *fakeSource) ReadTable(ctx context.Context, table string) ([]source.Row, error) {
	s.reads = append(s.reads, table)
	if err := s.errs[table]; err != nil {
		return nil, common.ErrSourceRead.WithDetails(err)
	}
	return s.tables[table], nil
}

// fakeStore đọc dữ liệu thô từ slice, danh mục enhanced từ memcoll
type fakeStore struct {
	categories []models.RawCategory
	products   []models.RawProduct
	accounts   []models.RawAccount
	adminID    primitive.ObjectID
	enhanced   *memcoll.Collection
	readErr    error
}

func (s *fakeStore) FindCategoriesByTypeIDs(ctx context.Context, typeIDs []int64) ([]models.RawCategory, error) {
	want := map[int64]bool{}
	for _, id := range typeIDs {
		want[id] = true
	}
	var out []models.RawCategory
	for _, c := range s.categories {
		if want[c.TypeID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) FindAccountsByIdentifiers(ctx context.Context, identifiers []string) ([]models.RawAccount, error) {
	want := map[string]bool{}
	for _, id := range identifiers {
		want[id] = true
	}
	var out []models.RawAccount
	for _, a := range s.accounts {
		if want[a.Email] || want[a.Account] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) RawCategories(ctx context.Context) ([]models.RawCategory, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.categories, nil
}

func (s *fakeStore) RawProducts(ctx context.Context) ([]models.RawProduct, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.products, nil
}

func (s *fakeStore) AdminID(ctx context.Context, fallbackHex string) (primitive.ObjectID, error) {
	if !s.adminID.IsZero() {
		return s.adminID, nil
	}
	if fallbackHex != "" {
		return primitive.ObjectIDFromHex(fallbackHex)
	}
	return primitive.NilObjectID, common.ErrAdminNotFound
}

func (s *fakeStore) CategoryIDsByName(ctx context.Context) (map[string]primitive.ObjectID, error) {
	out := map[string]primitive.ObjectID{}
	if s.enhanced == nil {
		return out, nil
	}
	for _, d := range s.enhanced.Docs() {
		name, _ := d["name"].(string)
		id, _ := d["_id"].(primitive.ObjectID)
		out[name] = id
	}
	return out, nil
}

// env gom các collection trong bộ nhớ của một test
type env struct {
	colls  map[string]*memcoll.Collection
	store  *fakeStore
	source *fakeSource
	hook   *test.Hook
}

func newEnv() *env {
	e := &env{
		colls: map[string]*memcoll.Collection{
			testNames.RawAccounts:        memcoll.New(testNames.RawAccounts),
			testNames.RawCategories:      memcoll.New(testNames.RawCategories),
			testNames.RawProducts:        memcoll.New(testNames.RawProducts),
			testNames.EnhancedCategories: memcoll.New(testNames.EnhancedCategories, "name", "slug"),
			testNames.EnhancedProducts:   memcoll.New(testNames.EnhancedProducts, "productId"),
		},
		source: &fakeSource{tables: map[string][]source.Row{}, errs: map[string]error{}},
	}
	e.store = &fakeStore{enhanced: e.colls[testNames.EnhancedCategories]}
	return e
}

func (e *env) runner(t *testing.T, extras enricher.ExtraLookup) *Runner {
	t.Helper()
	log, hook := test.NewNullLogger()
	e.hook = hook
	return NewRunner(Options{
		Source: e.source,
		Store:  e.store,
		Collection: func(name string) (loader.Collection, error) {
			c, ok := e.colls[name]
			if !ok {
				return nil, fmt.Errorf("unknown collection %s", name)
			}
			return c, nil
		},
		Names:    testNames,
		Extras:   extras,
		Validate: global.NewValidator(),
		Log:      log,
		Now:      func() time.Time { return fixedNow },
	})
}
