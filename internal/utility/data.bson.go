package utility

// BsonWrapper chứa các toán tử update dùng trong bulk write.
// Sau khi mã hóa, BsonWrapper{SetOnInsert: doc} thành { $setOnInsert: {...} }; field nil bị bỏ.
type BsonWrapper struct {
	// Set ghi đè giá trị các trường trên document khớp filter
	Set interface{} `json:"$set,omitempty" bson:"$set,omitempty"`

	// SetOnInsert chỉ có hiệu lực khi upsert tạo document mới, document có sẵn giữ nguyên
	SetOnInsert interface{} `json:"$setOnInsert,omitempty" bson:"$setOnInsert,omitempty"`

	// Unset xóa trường; trường không tồn tại thì không làm gì
	Unset interface{} `json:"$unset,omitempty" bson:"$unset,omitempty"`
}
