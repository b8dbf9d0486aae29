package enricher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Phones", "phones"},
		{"Smartphone Flagship", "smartphone-flagship"},
		{"Điện thoại  Thông minh", "dien-thoai-thong-minh"},
		{"Tai nghe & Loa", "tai-nghe-loa"},
		{"  Laptop / Gaming  ", "laptop-gaming"},
		{"USB-C -- Cable", "usb-c-cable"},
		{"Phụ kiện_2024", "phu-kien2024"},
		{"!!!", ""},
		{"Phones\u00a0Case", "phones-case"},
		{"Phones\u3000Case", "phones-case"},
		{"\u00a0Ốp lưng\u2009iPhone\u00a0", "op-lung-iphone"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name), tt.name)
	}
}

func TestSlugify_SameNormalizedFormSameSlug(t *testing.T) {
	variants := []string{"Smart Phone", "smart phone", "  SMART   PHONE ", "Smart\tPhone", "Smart\u00a0Phone", "SMART\u3000phone"}
	want := Slugify(variants[0])
	for _, v := range variants {
		assert.Equal(t, want, Slugify(v), v)
		// Gọi lại vẫn cho cùng kết quả
		assert.Equal(t, Slugify(v), Slugify(v))
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "phones", NormalizeName("  Phones "))
	assert.Equal(t, NormalizeName("PHONES"), NormalizeName("phones"))
	assert.Equal(t, "smart phone", NormalizeName("Smart\u00a0\u00a0Phone"))
}
