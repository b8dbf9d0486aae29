package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ProductKey là productId trong file JSON bổ sung, chấp nhận cả số và chuỗi
type ProductKey string

// UnmarshalJSON nhận 1010010007, "1010010007" hoặc {"$numberLong": "1010010007"}
func (k *ProductKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*k = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = ProductKey(s)
		return nil
	case '{':
		var ext map[string]string
		if err := json.Unmarshal(data, &ext); err != nil {
			return fmt.Errorf("unsupported productId object: %w", err)
		}
		for _, key := range []string{"$numberLong", "$numberInt", "$numberDouble"} {
			if v, ok := ext[key]; ok {
				*k = ProductKey(v)
				return nil
			}
		}
		return fmt.Errorf("unsupported productId object %s", string(data))
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("productId must be a number or a string: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*k = ProductKey(strconv.FormatInt(i, 10))
		return nil
	}
	*k = ProductKey(n.String())
	return nil
}

// ExtraFields là các field nghiệp vụ bổ sung cho một sản phẩm, lấy từ file JSON theo productId.
// Field nil nghĩa là không có trong file, giữ giá trị mặc định. Các key khác trong file bị bỏ qua.
type ExtraFields struct {
	ProductID ProductKey `json:"productId"`
	Brand     *string    `json:"brand,omitempty"`
	Stock     *int64     `json:"stock,omitempty"`
	HashTag   []string   `json:"hashTag,omitempty"`
	Ratings   *Ratings   `json:"ratings,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
}
