package enricher

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	invalidSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
	dashRun          = regexp.MustCompile(`-+`)

	// đ/Đ không tách dấu được bằng NFD
	vietnameseD = strings.NewReplacer("đ", "d", "Đ", "D")
)

// stripDiacritics bỏ dấu: "Điện thoại" -> "Dien thoai"
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return vietnameseD.Replace(out)
}

// Slugify sinh slug từ tên danh mục. Cùng input luôn cho cùng output.
//
//	"Điện thoại  Thông minh" -> "dien-thoai-thong-minh"
func Slugify(name string) string {
	s := strings.ToLower(foldSpaces(stripDiacritics(name)))
	s = invalidSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = dashRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// foldSpaces gộp mọi khoảng trắng Unicode (NBSP, U+3000...) thành một dấu cách, bỏ ở hai đầu
func foldSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName là khóa so trùng tên danh mục (gộp khoảng trắng + lowercase)
func NormalizeName(name string) string {
	return strings.ToLower(foldSpaces(name))
}
