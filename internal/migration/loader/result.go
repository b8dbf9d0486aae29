package loader

import (
	"github.com/sirupsen/logrus"
)

// Mode là chế độ ghi
type Mode string

const (
	ModeReplace Mode = "replace"
	ModeUpsert  Mode = "upsert"
)

// Outcome là kết quả của một bản ghi/thao tác trong batch
type Outcome string

const (
	OutcomeInserted Outcome = "inserted" // Document mới được tạo
	OutcomeMatched  Outcome = "matched"  // Upsert khớp document có sẵn, không tạo mới
	OutcomeApplied  Outcome = "applied"  // Update không upsert đã chạy, xem Matched/Modified để biết có khớp không
	OutcomeFailed   Outcome = "failed"   // Lỗi riêng của bản ghi (duplicate key, validation...)
)

// Failure là lỗi của một bản ghi trong batch
type Failure struct {
	Index   int
	Key     string
	Code    int
	Message string
}

// Result tổng hợp một lần ghi
type Result struct {
	Collection string
	Mode       Mode
	Skipped    bool // Batch rỗng, không ghi gì

	Deleted  int64
	Inserted int64
	Matched  int64
	Modified int64
	Failed   int

	Failures []Failure
	Outcomes []Outcome // Theo thứ tự batch đầu vào
}

func (r *Result) addFailure(f Failure) {
	r.Failed++
	r.Failures = append(r.Failures, f)
	if f.Index >= 0 && f.Index < len(r.Outcomes) {
		r.Outcomes[f.Index] = OutcomeFailed
	}
}

// Fields trả về số liệu để log
func (r *Result) Fields() logrus.Fields {
	return logrus.Fields{
		"skipped":  r.Skipped,
		"deleted":  r.Deleted,
		"inserted": r.Inserted,
		"matched":  r.Matched,
		"modified": r.Modified,
		"failed":   r.Failed,
	}
}
