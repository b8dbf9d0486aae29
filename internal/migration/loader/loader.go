// Package loader ghi batch bản ghi vào collection đích theo hai chế độ:
// Replace (xóa hết rồi insert) cho collection thô và Upsert (bulk updateOne không thứ tự) cho collection enhanced.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"electronic_product/internal/common"
)

// Collection là phần của *mongo.Collection mà loader dùng
type Collection interface {
	Name() string
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
}

var _ Collection = (*mongo.Collection)(nil)

// DefaultBatchSize số thao tác mỗi lần gửi
const DefaultBatchSize = 1000

// Loader ghi dữ liệu theo batch
type Loader struct {
	batchSize int
	log       logrus.FieldLogger
}

// New tạo Loader; batchSize <= 0 dùng DefaultBatchSize
func New(batchSize int, log logrus.FieldLogger) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Loader{batchSize: batchSize, log: log}
}

// Replace xóa toàn bộ document của collection rồi insert batch mới (không thứ tự).
// Batch rỗng là no-op: không xóa gì, Result.Skipped = true.
// Xóa và insert không nằm trong transaction.
func (l *Loader) Replace(ctx context.Context, coll Collection, docs []interface{}) (*Result, error) {
	res := &Result{Collection: coll.Name(), Mode: ModeReplace}
	log := l.log.WithFields(logrus.Fields{"collection": coll.Name(), "mode": ModeReplace})

	if len(docs) == 0 {
		res.Skipped = true
		log.Info("Empty batch, collection left untouched")
		return res, nil
	}

	deleted, err := coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return res, common.ErrTargetWrite.WithDetails(fmt.Errorf("delete %s: %w", coll.Name(), common.ConvertMongoError(err)))
	}
	res.Deleted = deleted.DeletedCount

	res.Outcomes = make([]Outcome, len(docs))
	for start := 0; start < len(docs); start += l.batchSize {
		end := min(start+l.batchSize, len(docs))
		chunk := docs[start:end]

		_, err := coll.InsertMany(ctx, chunk, options.InsertMany().SetOrdered(false))
		failed, fatal := writeFailures(err)
		if fatal != nil {
			return res, common.ErrTargetWrite.WithDetails(fmt.Errorf("insert %s: %w", coll.Name(), common.ConvertMongoError(fatal)))
		}
		for i := range chunk {
			if f, ok := failed[i]; ok {
				f.Index = start + i
				res.addFailure(f)
				continue
			}
			res.Outcomes[start+i] = OutcomeInserted
			res.Inserted++
		}
	}

	log.WithFields(res.Fields()).Info("Replace finished")
	return res, nil
}

// Upsert chạy các thao tác updateOne không thứ tự; lỗi của một thao tác không dừng các thao tác khác.
// Chỉ trả về error khi cả batch không chạy được (kết nối, write concern...).
func (l *Loader) Upsert(ctx context.Context, coll Collection, ops []UpsertOp) (*Result, error) {
	res := &Result{Collection: coll.Name(), Mode: ModeUpsert}
	log := l.log.WithFields(logrus.Fields{"collection": coll.Name(), "mode": ModeUpsert})

	if len(ops) == 0 {
		res.Skipped = true
		log.Info("No operations, nothing to write")
		return res, nil
	}

	res.Outcomes = make([]Outcome, len(ops))
	for start := 0; start < len(ops); start += l.batchSize {
		end := min(start+l.batchSize, len(ops))
		chunk := ops[start:end]

		writeModels := make([]mongo.WriteModel, 0, len(chunk))
		for _, op := range chunk {
			writeModels = append(writeModels, op.model())
		}

		bulk, err := coll.BulkWrite(ctx, writeModels, options.BulkWrite().SetOrdered(false))
		failed, fatal := writeFailures(err)
		if fatal != nil {
			return res, common.ErrTargetWrite.WithDetails(fmt.Errorf("bulk write %s: %w", coll.Name(), common.ConvertMongoError(fatal)))
		}

		upserted := map[int64]interface{}{}
		if bulk != nil {
			res.Inserted += bulk.UpsertedCount
			res.Matched += bulk.MatchedCount
			res.Modified += bulk.ModifiedCount
			if bulk.UpsertedIDs != nil {
				upserted = bulk.UpsertedIDs
			}
		}

		for i, op := range chunk {
			idx := start + i
			if f, ok := failed[i]; ok {
				f.Index = idx
				f.Key = op.Key
				res.addFailure(f)
				continue
			}
			switch {
			case hasKey(upserted, int64(i)):
				res.Outcomes[idx] = OutcomeInserted
			case op.Upsert:
				// upsert không insert thì chắc chắn đã khớp document có sẵn
				res.Outcomes[idx] = OutcomeMatched
			default:
				res.Outcomes[idx] = OutcomeApplied
			}
		}
	}

	log.WithFields(res.Fields()).Info("Upsert finished")
	return res, nil
}

func hasKey(m map[int64]interface{}, k int64) bool {
	_, ok := m[k]
	return ok
}

// writeFailures tách lỗi từng bản ghi (index trong batch -> Failure) khỏi lỗi làm hỏng cả batch
func writeFailures(err error) (map[int]Failure, error) {
	if err == nil {
		return nil, nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return nil, err
	}
	if bwe.WriteConcernError != nil {
		return nil, err
	}

	failed := make(map[int]Failure, len(bwe.WriteErrors))
	for _, we := range bwe.WriteErrors {
		failed[we.Index] = Failure{Index: we.Index, Code: we.Code, Message: we.Message}
	}
	return failed, nil
}
