package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"electronic_product/config"
)

func TestDefaultMirrorSchemas_Order(t *testing.T) {
	names := config.CollectionNames{RawAccounts: "a", RawCategories: "c", RawProducts: "p"}
	schemas := DefaultMirrorSchemas(names)
	require.Len(t, schemas, 3)
	assert.Equal(t, "accounts", schemas[0].Table)
	assert.Equal(t, "a", schemas[0].Collection)
	assert.Equal(t, "categories", schemas[1].Table)
	assert.Equal(t, "products", schemas[2].Table)
	assert.Equal(t, "p", schemas[2].Collection)
}

func TestCoerceRow_Product(t *testing.T) {
	posted := time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)
	row := map[string]interface{}{
		"ProductID":   int64(1010010007), // khóa số trong SQL, chuỗi trong collection
		"productName": []byte("iPhone 15"),
		"postedDate":  posted,
		"typeID":      "3",
		"account":     "a@x.com",
		"price":       []byte("42990000.00"),
		"discount":    nil,
		"legacyCol":   "dropped",
	}

	doc, err := ProductsSchema("products").CoerceRow(row)
	require.NoError(t, err)

	assert.Equal(t, bson.D{
		{Key: "productId", Value: "1010010007"},
		{Key: "productName", Value: "iPhone 15"},
		{Key: "postedDate", Value: posted},
		{Key: "typeId", Value: int64(3)},
		{Key: "account", Value: "a@x.com"},
		{Key: "price", Value: float64(42990000)},
	}, doc)
}

func TestCoerceRow_Account(t *testing.T) {
	row := map[string]interface{}{
		"account":      "alice",
		"gender":       int64(1),
		"isUse":        "false",
		"roleInSystem": 2.0,
		"birthday":     "1999-12-31",
	}
	doc, err := AccountsSchema("accounts").CoerceRow(row)
	require.NoError(t, err)

	m := doc.Map()
	assert.Equal(t, "alice", m["account"])
	assert.Equal(t, true, m["gender"])
	assert.Equal(t, false, m["isUse"])
	assert.Equal(t, int64(2), m["roleInSystem"])
	assert.Equal(t, time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), m["birthday"])
}

func TestCoerceRow_InvalidValue(t *testing.T) {
	_, err := CategoriesSchema("categories").CoerceRow(map[string]interface{}{"typeId": "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categories.typeId")

	_, err = CategoriesSchema("categories").CoerceRow(map[string]interface{}{"typeId": 1.5})
	assert.Error(t, err)
}
