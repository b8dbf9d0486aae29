// Package source đọc các bảng của cơ sở dữ liệu SQL cũ.
package source

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"electronic_product/internal/common"
)

// Row là một dòng SQL theo tên cột
type Row = map[string]interface{}

// Reader chạy SELECT * trên một bảng
type Reader struct {
	db     *sqlx.DB
	flavor sqlbuilder.Flavor
	log    logrus.FieldLogger
}

// NewReader tạo Reader trên pool đã mở
func NewReader(db *sqlx.DB, flavor sqlbuilder.Flavor, log logrus.FieldLogger) *Reader {
	return &Reader{db: db, flavor: flavor, log: log}
}

// SelectAllQuery build câu SELECT * FROM <table> theo flavor (tên bảng được quote)
func SelectAllQuery(flavor sqlbuilder.Flavor, table string) (string, []interface{}) {
	sb := flavor.NewSelectBuilder()
	sb.Select("*").From(flavor.Quote(table))
	return sb.Build()
}

// ReadTable đọc toàn bộ dòng của bảng. Lỗi truy vấn trả về common.ErrSourceRead.
func (r *Reader) ReadTable(ctx context.Context, table string) ([]Row, error) {
	query, args := SelectAllQuery(r.flavor, table)
	log := r.log.WithField("table", table)
	log.WithField("query", query).Debug("Reading source table")

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, common.ErrSourceRead.WithDetails(fmt.Errorf("query %s: %w", table, err))
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		row := make(Row)
		if err := rows.MapScan(row); err != nil {
			return nil, common.ErrSourceRead.WithDetails(fmt.Errorf("scan %s: %w", table, err))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, common.ErrSourceRead.WithDetails(fmt.Errorf("iterate %s: %w", table, err))
	}

	log.WithField("rows", len(out)).Info("Source table read")
	return out, nil
}
