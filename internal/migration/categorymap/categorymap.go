// Package categorymap đọc file catalog danh mục dạng
// { "<nhóm>": { "<productId>": [ {"name": "...", "memo": "..."} ] } }, giữ nguyên thứ tự trong file.
package categorymap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"electronic_product/internal/common"
	"electronic_product/internal/migration/enricher"
	"electronic_product/internal/migration/models"
)

// Assignment là danh sách danh mục gán cho một sản phẩm trong một nhóm
type Assignment struct {
	Group      string
	ProductID  string
	Categories []models.CategoryRef
}

// Catalog là toàn bộ nội dung file, theo thứ tự xuất hiện
type Catalog struct {
	Assignments []Assignment
}

// Load đọc và parse file catalog
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.ErrInvalidFile.WithDetails(err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, common.ErrInvalidFile.WithDetails(fmt.Errorf("parse %s: %w", path, err))
	}
	return c, nil
}

// Parse đọc catalog từ reader bằng token stream để giữ thứ tự key
func Parse(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	c := &Catalog{}

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		group, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("group %q: %w", group, err)
		}
		for dec.More() {
			productID, err := readKey(dec)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", group, err)
			}
			var refs []models.CategoryRef
			if err := dec.Decode(&refs); err != nil {
				return nil, fmt.Errorf("group %q product %q: %w", group, productID, err)
			}
			c.Assignments = append(c.Assignments, Assignment{Group: group, ProductID: productID, Categories: refs})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return c, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// UniqueCategories trả về các danh mục không trùng tên (trim + lowercase), lần xuất hiện đầu tiên thắng.
// Tên rỗng bị bỏ qua.
func (c *Catalog) UniqueCategories() []models.CategoryRef {
	seen := make(map[string]struct{})
	var out []models.CategoryRef
	for _, a := range c.Assignments {
		for _, ref := range a.Categories {
			key := enricher.NormalizeName(ref.Name)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, models.CategoryRef{Name: strings.TrimSpace(ref.Name), Memo: ref.Memo})
		}
	}
	return out
}
