package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpec mô tả một index sinh ra từ tag `index` của model
type IndexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
	Text   bool
}

// Options trả về IndexOptions tương ứng
func (s IndexSpec) Options() *options.IndexOptions {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	return opts
}

// Hàm parseOrder: Trích xuất thứ tự sắp xếp từ tag (1 hoặc -1)
func parseOrder(tag string) int {
	if strings.Contains(tag, "order:-1") {
		return -1
	}
	return 1
}

// Hàm parseIndexTag: Phân tách tag index, ví dụ `unique;compound:cat_group,order:-1`
func parseIndexTag(tag string) []map[string]string {
	parts := strings.Split(tag, ";")
	result := []map[string]string{}

	for _, part := range parts {
		entry := map[string]string{}
		for _, subPart := range strings.Split(part, ",") {
			kv := strings.SplitN(subPart, ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		result = append(result, entry)
	}
	return result
}

// bsonName lấy tên field bson (bỏ phần ",omitempty")
func bsonName(field reflect.StructField) string {
	name := strings.Split(field.Tag.Get("bson"), ",")[0]
	if name == "-" {
		return ""
	}
	return name
}

// IndexSpecsFor đọc tag `index` trên model và trả về danh sách index cần có.
// Hỗ trợ: single, unique (kèm sparse), text, compound:<name> (tên chứa "_unique" thì unique).
func IndexSpecsFor(model interface{}) ([]IndexSpec, error) {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", modelType.Kind())
	}

	var specs []IndexSpec
	compound := map[string]*IndexSpec{}
	var compoundOrder []string

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		name := bsonName(field)
		if name == "" {
			continue
		}

		for _, cfg := range parseIndexTag(tag) {
			_, sparse := cfg["sparse"]

			if _, ok := cfg["text"]; ok {
				specs = append(specs, IndexSpec{Name: name + "_text", Keys: bson.D{{Key: name, Value: "text"}}, Text: true})
			}
			if _, ok := cfg["single"]; ok {
				specs = append(specs, IndexSpec{Name: name + "_single", Keys: bson.D{{Key: name, Value: parseOrder(tag)}}, Sparse: sparse})
			}
			if _, ok := cfg["unique"]; ok {
				specs = append(specs, IndexSpec{Name: name + "_unique", Keys: bson.D{{Key: name, Value: 1}}, Unique: true, Sparse: sparse})
			}
			if group, ok := cfg["compound"]; ok && group != "" {
				spec, exists := compound[group]
				if !exists {
					spec = &IndexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
					compound[group] = spec
					compoundOrder = append(compoundOrder, group)
				}
				spec.Keys = append(spec.Keys, bson.E{Key: name, Value: parseOrder(tag)})
				spec.Sparse = spec.Sparse || sparse
			}
		}
	}

	sort.Strings(compoundOrder)
	for _, group := range compoundOrder {
		specs = append(specs, *compound[group])
	}
	return specs, nil
}

// sameIndex so sánh index hiện có với spec mới
func sameIndex(existing bson.M, spec IndexSpec) bool {
	existingKeys, ok := existing["key"].(bson.M)
	if !ok || len(existingKeys) != len(spec.Keys) {
		return false
	}
	for _, key := range spec.Keys {
		existingValue, exists := existingKeys[key.Key]
		if !exists {
			return false
		}
		if want, isInt := key.Value.(int); isInt {
			switch ev := existingValue.(type) {
			case int32:
				if int(ev) != want {
					return false
				}
			case int64:
				if int(ev) != want {
					return false
				}
			case float64:
				if int(ev) != want {
					return false
				}
			default:
				return false
			}
		} else if existingValue != key.Value {
			return false
		}
	}

	unique, _ := existing["unique"].(bool)
	sparse, _ := existing["sparse"].(bool)
	return unique == spec.Unique && sparse == spec.Sparse
}

// EnsureIndexes tạo các index khai báo trên model; index cùng tên nhưng khác cấu hình bị xóa và tạo lại
func EnsureIndexes(ctx context.Context, collection *mongo.Collection, model interface{}, log logrus.FieldLogger) error {
	specs, err := IndexSpecsFor(model)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return nil
	}
	log = log.WithField("collection", collection.Name())

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("cannot list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	existing := map[string]bson.M{}
	for cursor.Next(ctx) {
		var info bson.M
		if err := cursor.Decode(&info); err != nil {
			return fmt.Errorf("cannot decode index info: %w", err)
		}
		if name, ok := info["name"].(string); ok {
			existing[name] = info
		}
	}

	for _, spec := range specs {
		if current, ok := existing[spec.Name]; ok {
			if sameIndex(current, spec) {
				log.WithField("index", spec.Name).Debug("Index up to date")
				continue
			}
			if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("cannot drop index %s: %w", spec.Name, err)
			}
			log.WithField("index", spec.Name).Info("Dropped outdated index")
		}
		if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: spec.Options()}); err != nil {
			return fmt.Errorf("cannot create index %s: %w", spec.Name, err)
		}
		log.WithField("index", spec.Name).Info("Created index")
	}
	return nil
}
