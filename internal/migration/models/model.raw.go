package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawAccount là bản sao một dòng của bảng accounts (collection accounts)
type RawAccount struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Account          string             `json:"account" bson:"account,omitempty"` // Username
	Pass             string             `json:"-" bson:"pass,omitempty"`
	LastName         string             `json:"lastName" bson:"lastName,omitempty"`
	FirstName        string             `json:"firstName" bson:"firstName,omitempty"`
	Birthday         *time.Time         `json:"birthday,omitempty" bson:"birthday,omitempty"`
	Gender           *bool              `json:"gender,omitempty" bson:"gender,omitempty"`
	Phone            string             `json:"phone" bson:"phone,omitempty"`
	IsUse            *bool              `json:"isUse,omitempty" bson:"isUse,omitempty"`
	RoleInSystem     *int64             `json:"roleInSystem,omitempty" bson:"roleInSystem,omitempty"`
	PermanentAddress string             `json:"permanentAddress" bson:"permanentAddress,omitempty"`
	Email            string             `json:"email" bson:"email,omitempty"`
}

// RawCategory là bản sao một dòng của bảng categories
type RawCategory struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TypeID       int64              `json:"typeId" bson:"typeId"`
	CategoryName string             `json:"categoryName" bson:"categoryName"`
	Memo         string             `json:"memo" bson:"memo,omitempty"`
}

// RawProduct là bản sao một dòng của bảng products.
// TypeID là khóa ngoại số tới categories, Account có thể là email hoặc username.
type RawProduct struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID    string             `json:"productId" bson:"productId"`
	ProductName  string             `json:"productName" bson:"productName,omitempty"`
	ProductImage string             `json:"productImage" bson:"productImage,omitempty"`
	Brief        string             `json:"brief" bson:"brief,omitempty"`
	Description  string             `json:"description" bson:"description,omitempty"`
	PostedDate   *time.Time         `json:"postedDate,omitempty" bson:"postedDate,omitempty"`
	TypeID       *int64             `json:"typeId,omitempty" bson:"typeId,omitempty"`
	Account      string             `json:"account" bson:"account,omitempty"`
	Unit         string             `json:"unit" bson:"unit,omitempty"`
	Price        *float64           `json:"price,omitempty" bson:"price,omitempty"`
	Discount     *float64           `json:"discount,omitempty" bson:"discount,omitempty"`
}

// User là phần của collection users mà job cần (tìm admin gán createdBy)
type User struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Email string             `json:"email" bson:"email,omitempty"`
	Role  string             `json:"role" bson:"role,omitempty"`
}

// RoleAdmin là giá trị role của user quản trị
const RoleAdmin = "admin"

// TypeKey là khóa của map typeId -> ObjectID (typeId dạng chuỗi thập phân)
func TypeKey(typeID int64) string {
	return strconv.FormatInt(typeID, 10)
}
