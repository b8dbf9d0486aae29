package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook format entry ngay khi Fire rồi đẩy bytes sang một goroutine riêng để ghi
// ra các writers (file, stdout). Close() đợi ghi hết buffer, phải gọi trước khi process thoát.
type AsyncHook struct {
	writers []io.Writer
	lines   chan []byte
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewAsyncHookWithWriters tạo async hook với nhiều writers
// bufferSize: số dòng log tối đa chờ ghi (mặc định 1000)
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		lines:   make(chan []byte, bufferSize),
	}
	h.wg.Add(1)
	go h.process()
	return h
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire format entry và đưa vào hàng đợi. Job migration chạy ngắn nên khi hàng đợi
// đầy thì chờ thay vì bỏ log (không có request nào bị block).
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	data, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	// Formatter có thể trả về buffer dùng lại, copy trước khi đẩy sang goroutine khác
	line := make([]byte, len(data))
	copy(line, data)

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.write(line)
		return nil
	}
	h.lines <- line
	return nil
}

func (h *AsyncHook) process() {
	defer h.wg.Done()
	for line := range h.lines {
		h.write(line)
	}
}

func (h *AsyncHook) write(line []byte) {
	for _, w := range h.writers {
		if _, err := w.Write(line); err != nil {
			// Không log qua logrus ở đây để tránh vòng lặp
			fmt.Fprintf(os.Stderr, "[logger] write failed: %v\n", err)
		}
	}
}

// Close đóng hàng đợi và đợi tất cả dòng log được ghi xong. Gọi nhiều lần không sao.
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.lines)
	h.mu.Unlock()

	h.wg.Wait()

	var firstErr error
	for _, w := range h.writers {
		if c, ok := w.(io.Closer); ok && w != os.Stdout && w != os.Stderr {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// serviceHook gắn tên logger vào mọi entry
type serviceHook struct {
	name string
}

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = h.name
	}
	return nil
}
