// Package database - Index bổ sung cho các collection thô (không có model tag) và field lồng/mảng.
package database

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"electronic_product/config"
)

// catalogIndex là một index bổ sung trên collection theo tên
type catalogIndex struct {
	collection string
	model      mongo.IndexModel
}

// catalogAdditionalIndexes liệt kê index phục vụ các truy vấn $in của bước resolve
func catalogAdditionalIndexes(names config.CollectionNames) []catalogIndex {
	return []catalogIndex{
		// categories: {typeId: {$in}} khi map typeId -> _id
		{names.RawCategories, mongo.IndexModel{
			Keys:    bson.D{{Key: "typeId", Value: 1}},
			Options: options.Index().SetName("raw_category_type"),
		}},
		// accounts: {$or: [{email: {$in}}, {account: {$in}}]}
		{names.RawAccounts, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("raw_account_email").SetSparse(true),
		}},
		{names.RawAccounts, mongo.IndexModel{
			Keys:    bson.D{{Key: "account", Value: 1}},
			Options: options.Index().SetName("raw_account_username").SetSparse(true),
		}},
		// users: tìm admin cho createdBy
		{names.Users, mongo.IndexModel{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("user_role"),
		}},
		// enhancedproducts: lọc theo danh mục (multikey) và theo nhóm sản phẩm
		{names.EnhancedProducts, mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("enhanced_product_category"),
		}},
		{names.EnhancedProducts, mongo.IndexModel{
			Keys:    bson.D{{Key: "productGroup", Value: 1}, {Key: "productId", Value: 1}},
			Options: options.Index().SetName("enhanced_product_group").SetSparse(true),
		}},
	}
}

// CreateCatalogAdditionalIndexes tạo các index bổ sung, bỏ qua index đã tồn tại.
// Gọi sau EnsureIndexes cho các model enhanced.
func CreateCatalogAdditionalIndexes(ctx context.Context, db *mongo.Database, names config.CollectionNames) error {
	for _, idx := range catalogAdditionalIndexes(names) {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil && !isIndexExistsError(err) {
			return err
		}
	}
	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
