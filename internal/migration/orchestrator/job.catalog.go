package orchestrator

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"electronic_product/internal/migration/categorymap"
	"electronic_product/internal/migration/enricher"
	"electronic_product/internal/migration/loader"
	"electronic_product/internal/utility"
)

const catalogTable = "product-category-map"

// SeedCategoryCatalog tạo các danh mục trong file catalog chưa có trong enhancedcategories.
// Chạy lại nhiều lần không sinh bản trùng.
func (r *Runner) SeedCategoryCatalog(ctx context.Context, catalog *categorymap.Catalog) (TableReport, error) {
	rep := r.run(catalogTable, r.names.EnhancedCategories, func(t *Tracker, rep *TableReport) error {
		if err := t.To(StateReading); err != nil {
			return err
		}
		refs := catalog.UniqueCategories()
		rep.Read = len(refs)
		if len(refs) == 0 {
			r.log.WithField("table", rep.Table).Info("No categories found")
			return t.To(StateDone)
		}

		if err := t.To(StateEnriching); err != nil {
			return err
		}
		now := r.now()
		ops := make([]loader.UpsertOp, 0, len(refs))
		for _, ref := range refs {
			cat := enricher.BuildCatalogCategory(ref, now)
			if !r.valid(rep, ref.Name, cat) {
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

// nameIndex tra danh mục theo tên: khớp chính xác trước, rồi tới tên đã chuẩn hóa
type nameIndex struct {
	exact      map[string]primitive.ObjectID
	normalized map[string]primitive.ObjectID
}

func newNameIndex(byName map[string]primitive.ObjectID) nameIndex {
	idx := nameIndex{exact: byName, normalized: make(map[string]primitive.ObjectID, len(byName))}
	for name, id := range byName {
		key := enricher.NormalizeName(name)
		// Hai tên chỉ khác hoa thường: không đoán, chỉ dùng khớp chính xác
		if _, dup := idx.normalized[key]; dup {
			idx.normalized[key] = primitive.NilObjectID
			continue
		}
		idx.normalized[key] = id
	}
	return idx
}

func (idx nameIndex) lookup(name string) (primitive.ObjectID, bool) {
	if id, ok := idx.exact[name]; ok {
		return id, true
	}
	id, ok := idx.normalized[enricher.NormalizeName(name)]
	if !ok || id.IsZero() {
		return primitive.NilObjectID, false
	}
	return id, true
}

// LinkProductCategories ghi đè category và productGroup của các sản phẩm trong file catalog.
// Sản phẩm chưa có trong enhancedproducts không được tạo mới.
func (r *Runner) LinkProductCategories(ctx context.Context, catalog *categorymap.Catalog) (TableReport, error) {
	rep := r.run(catalogTable, r.names.EnhancedProducts, func(t *Tracker, rep *TableReport) error {
		if err := t.To(StateReading); err != nil {
			return err
		}
		rep.Read = len(catalog.Assignments)
		if len(catalog.Assignments) == 0 {
			r.log.WithField("table", rep.Table).Info("No product assignments found")
			return t.To(StateDone)
		}

		if err := t.To(StateResolving); err != nil {
			return err
		}
		byName, err := r.store.CategoryIDsByName(ctx)
		if err != nil {
			return err
		}
		idx := newNameIndex(byName)

		if err := t.To(StateEnriching); err != nil {
			return err
		}
		now := r.now()
		ops := make([]loader.UpsertOp, 0, len(catalog.Assignments))
		for _, a := range catalog.Assignments {
			ids := make([]primitive.ObjectID, 0, len(a.Categories))
			var missing []string
			for _, ref := range a.Categories {
				id, ok := idx.lookup(ref.Name)
				if !ok {
					missing = append(missing, ref.Name)
					continue
				}
				ids = append(ids, id)
			}
			ids = utility.Unique(ids)
			if len(missing) > 0 {
				rep.Unresolved += len(missing)
				r.log.WithFields(logrus.Fields{
					"product_id": a.ProductID,
					"group":      a.Group,
					"missing":    missing,
				}).Warn("Category names not found, run `seed categories` first")
			}
			ops = append(ops, loader.ProductCategoryOverwrite(a.ProductID, ids, a.Group, now))
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
