// Package resolver dựng các map khóa tự nhiên -> ObjectID cho một lần migrate sản phẩm.
package resolver

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"electronic_product/internal/migration/models"
	"electronic_product/internal/utility"
)

// CategoryFinder đọc các danh mục thô có typeId thuộc danh sách (một lần đọc)
type CategoryFinder interface {
	FindCategoriesByTypeIDs(ctx context.Context, typeIDs []int64) ([]models.RawCategory, error)
}

// AccountFinder đọc các account thô có email hoặc username thuộc danh sách (một lần đọc)
type AccountFinder interface {
	FindAccountsByIdentifiers(ctx context.Context, identifiers []string) ([]models.RawAccount, error)
}

// Maps là kết quả resolve: "<typeId>" -> category _id, email|username -> account _id
type Maps struct {
	Categories map[string]primitive.ObjectID
	Accounts   map[string]primitive.ObjectID
}

// Keys là các khóa tự nhiên đã khử trùng lặp, theo thứ tự xuất hiện
type Keys struct {
	TypeIDs     []int64
	Identifiers []string
}

// Resolver gom hai lần tra cứu độc lập
type Resolver struct {
	categories CategoryFinder
	accounts   AccountFinder
	log        logrus.FieldLogger
}

// New tạo Resolver
func New(categories CategoryFinder, accounts AccountFinder, log logrus.FieldLogger) *Resolver {
	return &Resolver{categories: categories, accounts: accounts, log: log}
}

// CollectKeys lấy typeId (bỏ nil) và account (bỏ rỗng) của các sản phẩm, không trùng
func CollectKeys(products []models.RawProduct) Keys {
	var typeIDs []int64
	var identifiers []string
	for _, p := range products {
		if p.TypeID != nil {
			typeIDs = append(typeIDs, *p.TypeID)
		}
		if p.Account != "" {
			identifiers = append(identifiers, p.Account)
		}
	}
	return Keys{TypeIDs: utility.Unique(typeIDs), Identifiers: utility.Unique(identifiers)}
}

// MapCategories trả về "<typeId>" -> _id. Danh sách rỗng không truy vấn.
func (r *Resolver) MapCategories(ctx context.Context, typeIDs []int64) (map[string]primitive.ObjectID, error) {
	out := make(map[string]primitive.ObjectID)
	if len(typeIDs) == 0 {
		return out, nil
	}

	items, err := r.categories.FindCategoriesByTypeIDs(ctx, typeIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}
	for _, c := range items {
		key := models.TypeKey(c.TypeID)
		// typeId trùng trong nguồn: giữ bản ghi đầu tiên
		if _, ok := out[key]; !ok {
			out[key] = c.ID
		}
	}
	return out, nil
}

// MapAccounts trả về email|username -> _id; mỗi account đóng góp cả hai khóa.
// Khi một chuỗi vừa là email của account A vừa là username của account B thì email thắng.
func (r *Resolver) MapAccounts(ctx context.Context, identifiers []string) (map[string]primitive.ObjectID, error) {
	out := make(map[string]primitive.ObjectID)
	if len(identifiers) == 0 {
		return out, nil
	}

	items, err := r.accounts.FindAccountsByIdentifiers(ctx, identifiers)
	if err != nil {
		return nil, fmt.Errorf("resolve accounts: %w", err)
	}

	byEmail := make(map[string]struct{})
	for _, a := range items {
		if a.Email == "" {
			continue
		}
		if _, ok := byEmail[a.Email]; !ok {
			byEmail[a.Email] = struct{}{}
			out[a.Email] = a.ID
		}
	}
	for _, a := range items {
		if a.Account == "" {
			continue
		}
		if _, taken := out[a.Account]; taken {
			if _, isEmail := byEmail[a.Account]; isEmail && out[a.Account] != a.ID {
				r.log.WithFields(logrus.Fields{
					"identifier": a.Account,
					"account_id": a.ID.Hex(),
				}).Warn("Username equals another account's email, email mapping kept")
			}
			continue
		}
		out[a.Account] = a.ID
	}
	return out, nil
}

// Resolve chạy song song hai lần tra cứu và chờ cả hai; một bên lỗi thì cả lần resolve lỗi
func (r *Resolver) Resolve(ctx context.Context, products []models.RawProduct) (Maps, error) {
	keys := CollectKeys(products)

	var maps Maps
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := r.MapCategories(gctx, keys.TypeIDs)
		if err != nil {
			return err
		}
		maps.Categories = m
		return nil
	})
	g.Go(func() error {
		m, err := r.MapAccounts(gctx, keys.Identifiers)
		if err != nil {
			return err
		}
		maps.Accounts = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return Maps{}, err
	}

	r.log.WithFields(logrus.Fields{
		"type_ids":          len(keys.TypeIDs),
		"categories_mapped": len(maps.Categories),
		"identifiers":       len(keys.Identifiers),
		"accounts_mapped":   len(maps.Accounts),
	}).Info("References resolved")
	return maps, nil
}
