// Package registry cung cấp registry generic, thread-safe, dùng để cache các đối tượng
// đã khởi tạo theo tên (ví dụ: *mongo.Collection theo tên collection).
package registry

import (
	"fmt"
	"sync"

	"electronic_product/internal/common"
)

// Registry là map name -> T được bảo vệ bởi sync.RWMutex.
//
// Example:
//
//	colls := NewRegistry[*mongo.Collection]()
//	coll, err := colls.GetOrCreate("enhancedproducts", func() (*mongo.Collection, error) {
//	    return db.Collection("enhancedproducts"), nil
//	})
type Registry[T any] struct {
	items map[string]T // Map lưu trữ các items theo key
	mu    sync.RWMutex
}

// NewRegistry tạo registry rỗng
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// GetOrCreate lấy item theo tên, nếu chưa có thì tạo qua creator và lưu lại.
// creator chạy trong lock nên mỗi name chỉ được tạo đúng một lần.
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (item T, err error) {
	if name == "" {
		return item, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[name]; ok {
		return existing, nil
	}

	created, err := creator()
	if err != nil {
		return item, fmt.Errorf("failed to create item %s: %w", name, err)
	}
	r.items[name] = created
	return created, nil
}

// ClearAll xóa toàn bộ items. cleanup (nếu có) được gọi cho từng item trước khi xóa;
// lỗi cleanup được gom lại, các item vẫn bị xóa.
func (r *Registry[T]) ClearAll(cleanup func(T) error) (count int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count = len(r.items)
	var errs []error
	if cleanup != nil {
		for name, item := range r.items {
			if cerr := cleanup(item); cerr != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup %s: %w", name, cerr))
			}
		}
	}
	r.items = make(map[string]T)
	if len(errs) > 0 {
		return count, fmt.Errorf("cleanup errors occurred: %v", errs)
	}
	return count, nil
}
