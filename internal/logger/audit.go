package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// AuditAction là một dòng audit cho mỗi lần chạy job migration
type AuditAction struct {
	Action    string                 `json:"action"`   // Tên job (ví dụ: "migrate_tables", "seed_categories")
	RunID     string                 `json:"run_id"`   // ID của lần chạy
	Success   bool                   `json:"success"`  // Kết quả cuối cùng
	Host      string                 `json:"host"`     // Máy chạy job
	Details   map[string]interface{} `json:"details"`  // Số liệu từng bảng
	Duration  time.Duration          `json:"duration"` // Tổng thời gian chạy
	Timestamp time.Time              `json:"timestamp"`
}

// LogRun ghi audit cho một lần chạy job
func LogRun(action, runID string, success bool, duration time.Duration, details map[string]interface{}) {
	host, _ := os.Hostname()
	audit := AuditAction{
		Action:    action,
		RunID:     runID,
		Success:   success,
		Host:      host,
		Details:   details,
		Duration:  duration,
		Timestamp: time.Now(),
	}

	entry := GetAuditLogger().WithFields(logrus.Fields{
		"action":      audit.Action,
		"run_id":      audit.RunID,
		"success":     audit.Success,
		"host":        audit.Host,
		"details":     audit.Details,
		"duration_ms": audit.Duration.Milliseconds(),
		"timestamp":   audit.Timestamp,
	})
	if success {
		entry.Info("Migration run finished")
		return
	}
	entry.Error("Migration run failed")
}
