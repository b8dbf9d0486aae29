package utility

// Unique bỏ phần tử trùng, giữ thứ tự xuất hiện đầu tiên. Slice rỗng trả về slice rỗng (không nil).
func Unique[T comparable](slice []T) []T {
	out := make([]T, 0, len(slice))
	seen := make(map[T]struct{}, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
