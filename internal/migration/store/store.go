// Package store đọc các collection MongoDB mà pipeline cần: collection thô, users, enhancedcategories.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"electronic_product/config"
	"electronic_product/internal/common"
	"electronic_product/internal/migration/models"
)

// MongoStore là nguồn đọc MongoDB của pipeline
type MongoStore struct {
	db    *mongo.Database
	names config.CollectionNames
}

// NewMongoStore tạo MongoStore trên database đích
func NewMongoStore(db *mongo.Database, names config.CollectionNames) *MongoStore {
	return &MongoStore{db: db, names: names}
}

func (s *MongoStore) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// findAll chạy Find và decode toàn bộ kết quả
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// FindCategoriesByTypeIDs tìm danh mục thô theo {typeId: {$in}}
func (s *MongoStore) FindCategoriesByTypeIDs(ctx context.Context, typeIDs []int64) ([]models.RawCategory, error) {
	filter := bson.M{"typeId": bson.M{"$in": typeIDs}}
	return findAll[models.RawCategory](ctx, s.coll(s.names.RawCategories), filter)
}

// FindAccountsByIdentifiers tìm account thô khớp email hoặc username
func (s *MongoStore) FindAccountsByIdentifiers(ctx context.Context, identifiers []string) ([]models.RawAccount, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": bson.M{"$in": identifiers}},
		bson.M{"account": bson.M{"$in": identifiers}},
	}}
	opts := options.Find().SetProjection(bson.M{"_id": 1, "email": 1, "account": 1})
	return findAll[models.RawAccount](ctx, s.coll(s.names.RawAccounts), filter, opts)
}

// RawCategories đọc toàn bộ collection categories
func (s *MongoStore) RawCategories(ctx context.Context) ([]models.RawCategory, error) {
	return findAll[models.RawCategory](ctx, s.coll(s.names.RawCategories), bson.M{})
}

// RawProducts đọc toàn bộ collection products
func (s *MongoStore) RawProducts(ctx context.Context) ([]models.RawProduct, error) {
	return findAll[models.RawProduct](ctx, s.coll(s.names.RawProducts), bson.M{})
}

// AdminID trả về _id của user role=admin; không có thì dùng fallbackHex (SEED_ADMIN_ID) nếu user đó tồn tại.
// Không tìm được admin trả về common.ErrAdminNotFound.
func (s *MongoStore) AdminID(ctx context.Context, fallbackHex string) (primitive.ObjectID, error) {
	users := s.coll(s.names.Users)
	opts := options.FindOne().SetProjection(bson.M{"_id": 1, "role": 1})

	var admin models.User
	err := users.FindOne(ctx, bson.M{"role": models.RoleAdmin}, opts).Decode(&admin)
	if err == nil {
		return admin.ID, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, common.ConvertMongoError(err)
	}

	if fallbackHex == "" {
		return primitive.NilObjectID, common.ErrAdminNotFound
	}
	id, err := primitive.ObjectIDFromHex(fallbackHex)
	if err != nil {
		return primitive.NilObjectID, common.ErrAdminNotFound.WithDetails(fmt.Errorf("invalid SEED_ADMIN_ID %q: %w", fallbackHex, err))
	}

	err = users.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, common.ErrAdminNotFound.WithDetails(fmt.Errorf("SEED_ADMIN_ID %s does not exist", fallbackHex))
	}
	if err != nil {
		return primitive.NilObjectID, common.ConvertMongoError(err)
	}
	return admin.ID, nil
}

// CategoryIDsByName trả về name -> _id của toàn bộ enhancedcategories
func (s *MongoStore) CategoryIDsByName(ctx context.Context) (map[string]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "name": 1})
	items, err := findAll[models.EnhancedCategory](ctx, s.coll(s.names.EnhancedCategories), bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[string]primitive.ObjectID, len(items))
	for _, c := range items {
		out[c.Name] = c.ID
	}
	return out, nil
}
