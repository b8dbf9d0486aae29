package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"electronic_product/config"
)

// FieldKind là kiểu đích của một cột khi ghi vào collection thô
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field là một cột của bảng nguồn được giữ lại trong collection thô
type Field struct {
	Name string
	Kind FieldKind
}

// MirrorSchema khai báo bảng SQL nguồn, collection thô đích và danh sách field được giữ
type MirrorSchema struct {
	Table      string
	Collection string
	Fields     []Field
}

// Các layout thời gian chấp nhận khi cột ngày được trả về dạng chuỗi
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// AccountsSchema bảng accounts
func AccountsSchema(collection string) MirrorSchema {
	return MirrorSchema{
		Table:      "accounts",
		Collection: collection,
		Fields: []Field{
			{"account", KindString},
			{"pass", KindString},
			{"lastName", KindString},
			{"firstName", KindString},
			{"birthday", KindTime},
			{"gender", KindBool},
			{"phone", KindString},
			{"isUse", KindBool},
			{"roleInSystem", KindInt},
			{"permanentAddress", KindString},
			{"email", KindString},
		},
	}
}

// CategoriesSchema bảng categories
func CategoriesSchema(collection string) MirrorSchema {
	return MirrorSchema{
		Table:      "categories",
		Collection: collection,
		Fields: []Field{
			{"typeId", KindInt},
			{"categoryName", KindString},
			{"memo", KindString},
		},
	}
}

// ProductsSchema bảng products
func ProductsSchema(collection string) MirrorSchema {
	return MirrorSchema{
		Table:      "products",
		Collection: collection,
		Fields: []Field{
			{"productId", KindString},
			{"productName", KindString},
			{"productImage", KindString},
			{"brief", KindString},
			{"postedDate", KindTime},
			{"typeId", KindInt},
			{"account", KindString},
			{"unit", KindString},
			{"price", KindFloat},
			{"discount", KindFloat},
		},
	}
}

// DefaultMirrorSchemas trả về 3 bảng theo đúng thứ tự migrate: accounts, categories, products
func DefaultMirrorSchemas(names config.CollectionNames) []MirrorSchema {
	return []MirrorSchema{
		AccountsSchema(names.RawAccounts),
		CategoriesSchema(names.RawCategories),
		ProductsSchema(names.RawProducts),
	}
}

// CoerceRow chiếu một dòng SQL lên schema và ép kiểu từng giá trị.
// Tên cột so khớp không phân biệt hoa thường; cột NULL hoặc không có trong dòng bị bỏ qua,
// cột không có trong schema bị loại. Thứ tự field theo schema.
func (s MirrorSchema) CoerceRow(row map[string]interface{}) (bson.D, error) {
	byLower := make(map[string]interface{}, len(row))
	for k, v := range row {
		byLower[strings.ToLower(k)] = v
	}

	doc := make(bson.D, 0, len(s.Fields))
	for _, f := range s.Fields {
		raw, ok := byLower[strings.ToLower(f.Name)]
		if !ok || raw == nil {
			continue
		}
		v, err := coerce(raw, f.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Table, f.Name, err)
		}
		doc = append(doc, bson.E{Key: f.Name, Value: v})
	}
	return doc, nil
}

// coerce ép một giá trị driver trả về sang kiểu đích
func coerce(v interface{}, kind FieldKind) (interface{}, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}

	switch kind {
	case KindString:
		return toString(v), nil
	case KindInt:
		return toInt(v)
	case KindFloat:
		return toFloat(v)
	case KindBool:
		return toBool(v)
	case KindTime:
		return toTime(v)
	}
	return nil, fmt.Errorf("unknown field kind %s", kind)
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

func toInt(v interface{}) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("cannot use %v as integer", t)
		}
		return int64(t), nil
	case float32:
		return toInt(float64(t))
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as integer", t)
		}
		return toInt(f)
	}
	return 0, fmt.Errorf("cannot use %T as integer", v)
}

func toFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as number", t)
		}
		return f, nil
	}
	return 0, fmt.Errorf("cannot use %T as number", v)
}

func toBool(v interface{}) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case int64:
		return t != 0, nil
	case int32:
		return t != 0, nil
	case int:
		return t != 0, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("cannot parse %q as bool", t)
		}
		return b, nil
	}
	return false, fmt.Errorf("cannot use %T as bool", v)
}

func toTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as time", t)
	}
	return time.Time{}, fmt.Errorf("cannot use %T as time", v)
}
