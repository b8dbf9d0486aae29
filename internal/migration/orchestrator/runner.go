// Package orchestrator điều phối các job migration: từng bảng chạy hết rồi mới tới bảng sau,
// mỗi bảng đi qua Idle -> Reading -> Resolving -> Enriching -> Loading -> Done | Failed.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"electronic_product/config"
	"electronic_product/internal/global"
	"electronic_product/internal/migration/enricher"
	"electronic_product/internal/migration/loader"
	"electronic_product/internal/migration/models"
	"electronic_product/internal/migration/resolver"
	"electronic_product/internal/migration/source"
)

// Source đọc một bảng SQL
type Source interface {
	ReadTable(ctx context.Context, table string) ([]source.Row, error)
}

// RawStore là các lần đọc MongoDB mà các job cần
type RawStore interface {
	resolver.CategoryFinder
	resolver.AccountFinder
	RawCategories(ctx context.Context) ([]models.RawCategory, error)
	RawProducts(ctx context.Context) ([]models.RawProduct, error)
	AdminID(ctx context.Context, fallbackHex string) (primitive.ObjectID, error)
	CategoryIDsByName(ctx context.Context) (map[string]primitive.ObjectID, error)
}

// CollectionFunc trả về collection đích theo tên
type CollectionFunc func(name string) (loader.Collection, error)

// Options cấu hình Runner. Source chỉ cần cho MigrateTables.
type Options struct {
	Source     Source
	Store      RawStore
	Collection CollectionFunc
	Names      config.CollectionNames
	Extras     enricher.ExtraLookup
	Validate   *validator.Validate
	BatchSize  int
	Log        logrus.FieldLogger
	Now        func() time.Time
}

// Runner chạy các job của một lần gọi
type Runner struct {
	source     Source
	store      RawStore
	collection CollectionFunc
	names      config.CollectionNames
	resolver   *resolver.Resolver
	loader     *loader.Loader
	extras     enricher.ExtraLookup
	validate   *validator.Validate
	log        logrus.FieldLogger
	now        func() time.Time
	runID      string
}

// NewRunner tạo Runner, gắn run_id vào mọi dòng log
func NewRunner(opts Options) *Runner {
	runID := uuid.NewString()
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("run_id", runID)

	r := &Runner{
		source:     opts.Source,
		store:      opts.Store,
		collection: opts.Collection,
		names:      opts.Names,
		loader:     loader.New(opts.BatchSize, log),
		extras:     opts.Extras,
		validate:   opts.Validate,
		log:        log,
		now:        opts.Now,
		runID:      runID,
	}
	if r.extras == nil {
		r.extras = enricher.NoExtras{}
	}
	if r.validate == nil {
		r.validate = global.GetValidator()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if opts.Store != nil {
		r.resolver = resolver.New(opts.Store, opts.Store, log)
	}
	return r
}

// RunID id của lần chạy
func (r *Runner) RunID() string { return r.runID }

// SetExtras thay dữ liệu bổ sung dùng cho MigrateProducts; nil là không có dữ liệu bổ sung
func (r *Runner) SetExtras(extras enricher.ExtraLookup) {
	if extras == nil {
		extras = enricher.NoExtras{}
	}
	r.extras = extras
}

// run bọc một job: tracker, đo thời gian, log kết quả cuối
func (r *Runner) run(table, collection string, job func(t *Tracker, rep *TableReport) error) TableReport {
	start := time.Now()
	t := NewTracker(table, r.log)
	rep := TableReport{Table: table, Collection: collection}

	err := job(t, &rep)
	if err != nil && !t.State().Terminal() {
		_ = t.Fail(err)
	}

	rep.Err = err
	rep.State = t.State()
	rep.History = t.History()
	rep.Duration = time.Since(start)

	log := r.log.WithFields(rep.Fields())
	if err != nil {
		log.WithError(err).Error("Table migration failed")
	} else {
		log.Info("Table migration finished")
	}
	return rep
}

// targetCollection lấy collection đích
func (r *Runner) targetCollection(name string) (loader.Collection, error) {
	if r.collection == nil {
		return nil, fmt.Errorf("no target collection provider configured")
	}
	return r.collection(name)
}

// valid chạy validator, bản ghi lỗi được log và đếm, không dừng batch
func (r *Runner) valid(rep *TableReport, key string, record interface{}) bool {
	if err := r.validate.Struct(record); err != nil {
		rep.Invalid++
		r.log.WithFields(logrus.Fields{"table": rep.Table, "key": key}).WithError(err).Warn("Record failed validation, skipped")
		return false
	}
	return true
}
