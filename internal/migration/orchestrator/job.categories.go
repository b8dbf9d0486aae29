package orchestrator

import (
	"context"

	"electronic_product/internal/migration/enricher"
	"electronic_product/internal/migration/loader"
)

// MigrateCategories chuẩn hóa collection categories sang enhancedcategories (insert-if-absent theo slug/name).
// createdBy là user role=admin, hoặc fallbackAdminHex nếu không có; không có admin thì dừng trước khi ghi.
func (r *Runner) MigrateCategories(ctx context.Context, fallbackAdminHex string) (TableReport, error) {
	rep := r.run(r.names.RawCategories, r.names.EnhancedCategories, func(t *Tracker, rep *TableReport) error {
		if err := t.To(StateReading); err != nil {
			return err
		}
		raws, err := r.store.RawCategories(ctx)
		if err != nil {
			return err
		}
		rep.Read = len(raws)

		if err := t.To(StateResolving); err != nil {
			return err
		}
		adminID, err := r.store.AdminID(ctx, fallbackAdminHex)
		if err != nil {
			return err
		}
		r.log.WithField("admin_id", adminID.Hex()).Info("Admin resolved for createdBy")

		if err := t.To(StateEnriching); err != nil {
			return err
		}
		now := r.now()
		ops := make([]loader.UpsertOp, 0, len(raws))
		for _, raw := range raws {
			cat := enricher.BuildCategory(raw, adminID, now)
			if !r.valid(rep, raw.CategoryName, cat) {
				continue
			}
			ops = append(ops, loader.CategoryInsertIfAbsent(cat))
		}

		if err := t.To(StateLoading); err != nil {
			return err
		}
		coll, err := r.targetCollection(r.names.EnhancedCategories)
		if err != nil {
			return err
		}
		res, err := r.loader.Upsert(ctx, coll, ops)
		rep.Result = res
		if err != nil {
			return err
		}
		return t.To(StateDone)
	})
	return rep, rep.Err
}
