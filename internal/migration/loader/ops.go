package loader

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"electronic_product/internal/migration/models"
	"electronic_product/internal/utility"
)

// UpsertOp là một thao tác updateOne trong bulk
type UpsertOp struct {
	Key    string // Khóa tự nhiên để báo lỗi (slug, productId)
	Filter interface{}
	Update interface{}
	Upsert bool
}

func (op UpsertOp) model() mongo.WriteModel {
	return mongo.NewUpdateOneModel().SetFilter(op.Filter).SetUpdate(op.Update).SetUpsert(op.Upsert)
}

// CategoryInsertIfAbsent tạo danh mục nếu chưa có slug hoặc name trùng; có rồi thì giữ nguyên
func CategoryInsertIfAbsent(cat models.EnhancedCategory) UpsertOp {
	return UpsertOp{
		Key: cat.Slug,
		Filter: bson.M{"$or": bson.A{
			bson.M{"slug": cat.Slug},
			bson.M{"name": cat.Name},
		}},
		Update: utility.BsonWrapper{SetOnInsert: cat},
		Upsert: true,
	}
}

// ProductInsertIfAbsent tạo sản phẩm nếu chưa có productId; có rồi thì giữ nguyên
func ProductInsertIfAbsent(p models.EnhancedProduct) UpsertOp {
	return UpsertOp{
		Key:    p.ProductID,
		Filter: bson.M{"productId": p.ProductID},
		Update: utility.BsonWrapper{SetOnInsert: p},
		Upsert: true,
	}
}

// ProductCategoryOverwrite ghi đè danh mục và nhóm của sản phẩm đã có; productId không tồn tại thì không tạo mới
func ProductCategoryOverwrite(productID string, categoryIDs []primitive.ObjectID, group string, now time.Time) UpsertOp {
	if categoryIDs == nil {
		categoryIDs = []primitive.ObjectID{}
	}
	return UpsertOp{
		Key:    productID,
		Filter: bson.M{"productId": productID},
		Update: utility.BsonWrapper{Set: bson.M{
			"category":     categoryIDs,
			"productGroup": group,
			"updatedAt":    now,
		}},
		Upsert: false,
	}
}
