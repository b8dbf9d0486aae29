package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductKey_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want ProductKey
	}{
		{`1010010007`, "1010010007"},
		{`"1010010007"`, "1010010007"},
		{`{"$numberLong": "42"}`, "42"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var k ProductKey
		require.NoError(t, json.Unmarshal([]byte(tt.in), &k), tt.in)
		assert.Equal(t, tt.want, k, tt.in)
	}

	var k ProductKey
	assert.Error(t, json.Unmarshal([]byte(`true`), &k))
}

func TestExtraFields_AbsentVersusPresent(t *testing.T) {
	var extras []ExtraFields
	data := `[
		{"productId": 1, "brand": "Apple", "hashTag": [], "isActive": false, "_id": {"$oid": "x"}},
		{"productId": "2", "stock": 8, "ratings": {"average": 4.9, "count": 1230}}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &extras))
	require.Len(t, extras, 2)

	first := extras[0]
	assert.Equal(t, ProductKey("1"), first.ProductID)
	require.NotNil(t, first.Brand)
	assert.Equal(t, "Apple", *first.Brand)
	assert.NotNil(t, first.HashTag)
	assert.Empty(t, first.HashTag)
	require.NotNil(t, first.IsActive)
	assert.False(t, *first.IsActive)
	assert.Nil(t, first.Stock)

	second := extras[1]
	assert.Nil(t, second.HashTag)
	require.NotNil(t, second.Stock)
	assert.Equal(t, int64(8), *second.Stock)
	assert.Equal(t, &Ratings{Average: 4.9, Count: 1230}, second.Ratings)
}
