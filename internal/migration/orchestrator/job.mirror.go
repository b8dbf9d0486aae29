package orchestrator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"electronic_product/internal/common"
	"electronic_product/internal/migration/models"
)

// MigrateTables sao chép lần lượt từng bảng SQL sang collection thô (xóa hết rồi insert).
// Bảng đầu tiên thất bại dừng cả lần chạy; các bảng sau không được chạy.
func (r *Runner) MigrateTables(ctx context.Context, schemas []models.MirrorSchema) ([]TableReport, error) {
	if r.source == nil {
		return nil, common.ErrConfigMissing.WithDetails(fmt.Errorf("SQL source is not configured"))
	}

	reports := make([]TableReport, 0, len(schemas))
	for _, schema := range schemas {
		rep := r.mirrorTable(ctx, schema)
		reports = append(reports, rep)
		if rep.Err != nil {
			return reports, fmt.Errorf("migrate table %q: %w", schema.Table, rep.Err)
		}
	}
	return reports, nil
}

func (r *Runner) mirrorTable(ctx context.Context, schema models.MirrorSchema) TableReport {
	return r.run(schema.Table, schema.Collection, func(t *Tracker, rep *TableReport) error {
		if err := t.To(StateReading); err != nil {
			return err
		}
		rows, err := r.source.ReadTable(ctx, schema.Table)
		if err != nil {
			return err
		}
		rep.Read = len(rows)

		if len(rows) == 0 {
			r.log.WithField("table", schema.Table).Info("Table is empty, skipped")
			return t.To(StateDone)
		}

		docs := make([]interface{}, 0, len(rows))
		for i, row := range rows {
			doc, err := schema.CoerceRow(row)
			if err != nil {
				rep.Invalid++
				r.log.WithFields(logrus.Fields{"table": schema.Table, "row": i}).WithError(err).Warn("Row cannot be mapped, skipped")
				continue
			}
			docs = append(docs, doc)
		}

		if err := t.To(StateLoading); err != nil {
			return err
		}
		coll, err := r.targetCollection(schema.Collection)
		if err != nil {
			return err
		}
		res, err := r.loader.Replace(ctx, coll, docs)
		rep.Result = res
		if err != nil {
			return err
		}
		return t.To(StateDone)
	})
}
