package orchestrator

import (
	"context"

	"github.com/sirupsen/logrus"

	"electronic_product/internal/migration/enricher"
	"electronic_product/internal/migration/loader"
)

// MigrateProducts chuẩn hóa collection products sang enhancedproducts:
// resolve typeId/account song song, ghép dữ liệu bổ sung, insert-if-absent theo productId.
func (r *Runner) MigrateProducts(ctx context.Context) (TableReport, error) {
	rep := r.run(r.names.RawProducts, r.names.EnhancedProducts, func(t *Tracker, rep *TableReport) error {
		if err := t.To(StateReading); err != nil {
			return err
		}
		raws, err := r.store.RawProducts(ctx)
		if err != nil {
			return err
		}
		rep.Read = len(raws)
		if len(raws) == 0 {
			r.log.WithField("table", rep.Table).Info("No raw products, skipped")
			return t.To(StateDone)
		}

		if err := t.To(StateResolving); err != nil {
			return err
		}
		maps, err := r.resolver.Resolve(ctx, raws)
		if err != nil {
			return err
		}

		if err := t.To(StateEnriching); err != nil {
			return err
		}
		now := r.now()
		ops := make([]loader.UpsertOp, 0, len(raws))
		for _, raw := range raws {
			p := enricher.BuildProduct(raw, maps.Categories, maps.Accounts, r.extras, now)
			if len(p.Category) == 0 || (raw.Account != "" && p.Account == nil) {
				rep.Unresolved++
				r.log.WithFields(logrus.Fields{
					"product_id":        raw.ProductID,
					"category_resolved": len(p.Category) > 0,
					"account_resolved":  p.Account != nil,
				}).Debug("Product imported with unresolved references")
			}
			if !r.valid(rep, raw.ProductID, p) {
				continue
			}
			ops = append(ops, loader.ProductInsertIfAbsent(p))
		}

		if err := t.To(StateLoading); err != nil {
			return err
		}
		coll, err := r.targetCollection(r.names.EnhancedProducts)
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
