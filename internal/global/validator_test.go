package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type slugged struct {
	Name string `validate:"not_blank"`
	Slug string `validate:"slug"`
}

func TestValidator_Slug(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		slug  string
		valid bool
	}{
		{"dien-thoai", true},
		{"phones", true},
		{"iphone-15-pro", true},
		{"", false},
		{"-phones", false},
		{"phones-", false},
		{"dien--thoai", false},
		{"Phones", false},
		{"điện-thoại", false},
	}
	for _, tt := range tests {
		err := v.Struct(slugged{Name: "x", Slug: tt.slug})
		if tt.valid {
			assert.NoError(t, err, tt.slug)
		} else {
			assert.Error(t, err, tt.slug)
		}
	}
}

func TestValidator_NotBlank(t *testing.T) {
	v := NewValidator()
	assert.Error(t, v.Struct(slugged{Name: "   ", Slug: "a"}))
	assert.NoError(t, v.Struct(slugged{Name: "Phones", Slug: "a"}))
}

func TestGetValidator_InitializesOnce(t *testing.T) {
	Validate = nil
	first := GetValidator()
	assert.NotNil(t, first)
	assert.Same(t, first, GetValidator())
}
