package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnhancedCategory là danh mục đã chuẩn hóa trong collection enhancedcategories.
// name và slug đều unique.
type EnhancedCategory struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string              `json:"name" bson:"name" index:"unique" validate:"not_blank"`
	Slug      string              `json:"slug" bson:"slug" index:"unique" validate:"slug"`
	Memo      string              `json:"memo" bson:"memo"`
	IsActive  bool                `json:"isActive" bson:"isActive"`
	CreatedBy *primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"` // Admin chạy migration
	UpdatedBy *primitive.ObjectID `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CategoryRef là một phần tử {name, memo} trong file catalog danh mục
type CategoryRef struct {
	Name string `json:"name"`
	Memo string `json:"memo"`
}
