package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductImage ảnh đại diện sản phẩm
type ProductImage struct {
	URL string `json:"url" bson:"url" validate:"required"`
	Alt string `json:"alt" bson:"alt"`
}

// Ratings điểm đánh giá, average trong [0, 5]
type Ratings struct {
	Average float64 `json:"average" bson:"average" validate:"gte=0,lte=5"`
	Count   int64   `json:"count" bson:"count" validate:"gte=0"`
}

// EnhancedProduct là sản phẩm đã chuẩn hóa trong collection enhancedproducts
type EnhancedProduct struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID    string               `json:"productId" bson:"productId" index:"unique" validate:"not_blank"`
	ProductName  string               `json:"productName" bson:"productName" validate:"not_blank"`
	Description  string               `json:"description" bson:"description" validate:"required"`
	ProductImage ProductImage         `json:"productImage" bson:"productImage"`
	Category     []primitive.ObjectID `json:"category" bson:"category"` // Không bao giờ nil, rỗng khi typeId không resolve được
	Price        float64              `json:"price" bson:"price" validate:"gte=0"`
	Discount     float64              `json:"discount" bson:"discount" validate:"gte=0,lte=100"`
	Brand        string               `json:"brand" bson:"brand" validate:"required"`
	Stock        int64                `json:"stock" bson:"stock" validate:"gte=0"`
	HashTag      []string             `json:"hashTag" bson:"hashTag"`
	Ratings      Ratings              `json:"ratings" bson:"ratings"`
	IsActive     bool                 `json:"isActive" bson:"isActive"`
	PostedDate   time.Time            `json:"postedDate" bson:"postedDate"`
	Account      *primitive.ObjectID  `json:"account" bson:"account"` // null khi không resolve được
	Unit         string               `json:"unit" bson:"unit" validate:"required"`
	ProductGroup string               `json:"productGroup,omitempty" bson:"productGroup,omitempty"` // Gán bởi job seed product-categories
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}
