package orchestrator

import (
	"time"

	"github.com/sirupsen/logrus"

	"electronic_product/internal/migration/loader"
)

// TableReport là kết quả của một bảng/job
type TableReport struct {
	Table      string
	Collection string
	State      State
	History    []State
	Read       int // Số bản ghi nguồn
	Invalid    int // Bản ghi bị bỏ qua do ép kiểu/validate lỗi
	Unresolved int // Tham chiếu không tìm được (chỉ báo cáo, không phải lỗi)
	Result     *loader.Result
	Err        error
	Duration   time.Duration
}

// Succeeded bảng kết thúc ở Done
func (r TableReport) Succeeded() bool {
	return r.State == StateDone && r.Err == nil
}

// Fields trả về số liệu để log và audit
func (r TableReport) Fields() logrus.Fields {
	f := logrus.Fields{
		"table":       r.Table,
		"collection":  r.Collection,
		"state":       r.State,
		"read":        r.Read,
		"invalid":     r.Invalid,
		"unresolved":  r.Unresolved,
		"duration_ms": r.Duration.Milliseconds(),
	}
	if r.Result != nil {
		for k, v := range r.Result.Fields() {
			f[k] = v
		}
	}
	return f
}
