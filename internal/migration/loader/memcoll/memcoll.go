// Package memcoll là collection MongoDB trong bộ nhớ, đủ cho loader và orchestrator chạy test:
// filter bằng nhau / $in / $or, update $set / $setOnInsert, upsert, unique index, lỗi theo bản ghi kiểu BulkWriteException.
package memcoll

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

// Collection là collection trong bộ nhớ, an toàn khi dùng từ nhiều goroutine
type Collection struct {
	name   string
	unique []string

	mu      sync.Mutex
	docs    []bson.M
	failErr error
	calls   map[string]int
}

// New tạo collection rỗng; unique là các field có unique index
func New(name string, unique ...string) *Collection {
	return &Collection{name: name, unique: unique, calls: map[string]int{}}
}

// Name tên collection
func (c *Collection) Name() string { return c.name }

// FailWith làm mọi lời gọi sau trả về err cho tới khi gọi FailWith(nil)
func (c *Collection) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failErr = err
}

// Calls số lần gọi theo tên phương thức
func (c *Collection) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// Docs bản sao các document hiện có theo thứ tự insert
func (c *Collection) Docs() []bson.M {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bson.M, len(c.docs))
	for i, d := range c.docs {
		cp := make(bson.M, len(d))
		for k, v := range d {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

// Count số document
func (c *Collection) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

// Find trả về các document khớp filter
func (c *Collection) Find(filter interface{}) ([]bson.M, error) {
	f, err := toM(filter)
	if err != nil {
		return nil, err
	}
	var out []bson.M
	for _, d := range c.Docs() {
		if matches(d, f) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Seed insert thẳng các document, bỏ qua unique check
func (c *Collection) Seed(docs ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range docs {
		m, err := toM(d)
		if err != nil {
			return err
		}
		if _, ok := m["_id"]; !ok {
			m["_id"] = primitive.NewObjectID()
		}
		c.docs = append(c.docs, m)
	}
	return nil
}

func (c *Collection) enter(method string) error {
	c.calls[method]++
	return c.failErr
}

// DeleteMany xóa các document khớp filter
func (c *Collection) DeleteMany(ctx context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteMany"); err != nil {
		return nil, err
	}
	f, err := toM(filter)
	if err != nil {
		return nil, err
	}

	kept := c.docs[:0]
	var deleted int64
	for _, d := range c.docs {
		if matches(d, f) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	c.docs = kept
	return &mongo.DeleteResult{DeletedCount: deleted}, nil
}

// InsertMany insert các document, lỗi unique được trả về dạng BulkWriteException
func (c *Collection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("InsertMany"); err != nil {
		return nil, err
	}

	ordered := true
	for _, o := range opts {
		if o != nil && o.Ordered != nil {
			ordered = *o.Ordered
		}
	}

	res := &mongo.InsertManyResult{}
	var writeErrors []mongo.BulkWriteError
	for i, doc := range documents {
		m, err := toM(doc)
		if err != nil {
			return nil, err
		}
		if _, ok := m["_id"]; !ok {
			m["_id"] = primitive.NewObjectID()
		}
		res.InsertedIDs = append(res.InsertedIDs, m["_id"])

		if field, dup := c.duplicate(m, -1); dup {
			writeErrors = append(writeErrors, dupError(i, c.name, field))
			if ordered {
				break
			}
			continue
		}
		c.docs = append(c.docs, m)
	}

	if len(writeErrors) > 0 {
		return res, mongo.BulkWriteException{WriteErrors: writeErrors}
	}
	return res, nil
}

// BulkWrite chỉ hỗ trợ *mongo.UpdateOneModel
func (c *Collection) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("BulkWrite"); err != nil {
		return nil, err
	}

	ordered := true
	for _, o := range opts {
		if o != nil && o.Ordered != nil {
			ordered = *o.Ordered
		}
	}

	res := &mongo.BulkWriteResult{UpsertedIDs: map[int64]interface{}{}}
	var writeErrors []mongo.BulkWriteError
	for i, wm := range models {
		op, ok := wm.(*mongo.UpdateOneModel)
		if !ok {
			return nil, fmt.Errorf("memcoll: unsupported write model %T", wm)
		}
		werr, err := c.updateOne(i, op, res)
		if err != nil {
			return nil, err
		}
		if werr != nil {
			writeErrors = append(writeErrors, *werr)
			if ordered {
				break
			}
		}
	}

	if len(writeErrors) > 0 {
		return res, mongo.BulkWriteException{WriteErrors: writeErrors}
	}
	return res, nil
}

func (c *Collection) updateOne(index int, op *mongo.UpdateOneModel, res *mongo.BulkWriteResult) (*mongo.BulkWriteError, error) {
	filter, err := toM(op.Filter)
	if err != nil {
		return nil, err
	}
	update, err := toM(op.Update)
	if err != nil {
		return nil, err
	}
	set, _ := asMap(update["$set"])
	setOnInsert, _ := asMap(update["$setOnInsert"])

	for pos, d := range c.docs {
		if !matches(d, filter) {
			continue
		}
		res.MatchedCount++
		if len(set) == 0 {
			return nil, nil
		}

		next := make(bson.M, len(d))
		for k, v := range d {
			next[k] = v
		}
		changed := false
		for k, v := range set {
			if !reflect.DeepEqual(next[k], v) {
				next[k] = v
				changed = true
			}
		}
		if !changed {
			return nil, nil
		}
		if field, dup := c.duplicate(next, pos); dup {
			res.MatchedCount--
			werr := dupError(index, c.name, field)
			return &werr, nil
		}
		c.docs[pos] = next
		res.ModifiedCount++
		return nil, nil
	}

	if op.Upsert == nil || !*op.Upsert {
		return nil, nil
	}

	// Upsert: field bằng nhau ở cấp cao nhất của filter, rồi $setOnInsert, rồi $set
	doc := bson.M{}
	for k, v := range filter {
		if len(k) > 0 && k[0] == '$' {
			continue
		}
		if _, isOp := asMap(v); isOp {
			continue
		}
		doc[k] = v
	}
	for k, v := range setOnInsert {
		doc[k] = v
	}
	for k, v := range set {
		doc[k] = v
	}
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	if field, dup := c.duplicate(doc, -1); dup {
		werr := dupError(index, c.name, field)
		return &werr, nil
	}
	c.docs = append(c.docs, doc)
	res.UpsertedCount++
	res.UpsertedIDs[int64(index)] = doc["_id"]
	return nil, nil
}

// duplicate kiểm tra unique field của doc với các document khác (bỏ qua vị trí skip)
func (c *Collection) duplicate(doc bson.M, skip int) (string, bool) {
	for _, field := range append([]string{"_id"}, c.unique...) {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		for pos, other := range c.docs {
			if pos == skip {
				continue
			}
			if reflect.DeepEqual(other[field], v) {
				return field, true
			}
		}
	}
	return "", false
}

func dupError(index int, coll, field string) mongo.BulkWriteError {
	return mongo.BulkWriteError{
		WriteError: mongo.WriteError{
			Index:   index,
			Code:    duplicateKeyCode,
			Message: fmt.Sprintf("E11000 duplicate key error collection: %s index: %s_unique", coll, field),
		},
	}
}

// toM chuẩn hóa document/filter/update (struct, bson.D, bson.M) về bson.M qua marshal
func toM(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memcoll: marshal %T: %w", v, err)
	}
	var m bson.M
	if err := bson.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("memcoll: unmarshal: %w", err)
	}
	return m, nil
}

func asMap(v interface{}) (bson.M, bool) {
	switch t := v.(type) {
	case bson.M:
		return t, true
	case map[string]interface{}:
		return bson.M(t), true
	case primitive.D:
		m := make(bson.M, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return m, true
	}
	return nil, false
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case primitive.A:
		return []interface{}(t), true
	case []interface{}:
		return t, true
	}
	return nil, false
}

// matches hỗ trợ: {} ; {field: value} ; {field: {$in: [...]}} ; {$or: [filter, ...]}
func matches(doc, filter bson.M) bool {
	for k, v := range filter {
		if k == "$or" {
			alts, ok := asSlice(v)
			if !ok {
				return false
			}
			matched := false
			for _, alt := range alts {
				if sub, ok := asMap(alt); ok && matches(doc, sub) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
			continue
		}

		if cond, ok := asMap(v); ok {
			if in, hasIn := cond["$in"]; hasIn {
				values, _ := asSlice(in)
				found := false
				for _, candidate := range values {
					if reflect.DeepEqual(doc[k], candidate) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
				continue
			}
		}

		if !reflect.DeepEqual(doc[k], v) {
			return false
		}
	}
	return true
}
