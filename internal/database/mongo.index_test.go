package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"electronic_product/config"
)

type indexedModel struct {
	ID        string `bson:"_id,omitempty"`
	Name      string `bson:"name" index:"unique"`
	Slug      string `bson:"slug,omitempty" index:"unique,sparse"`
	Memo      string `bson:"memo" index:"text"`
	Group     string `bson:"productGroup" index:"compound:group_product_unique"`
	ProductID string `bson:"productId" index:"compound:group_product_unique;single,order:-1"`
	Ignored   string `bson:"-" index:"unique"`
}

func TestIndexSpecsFor(t *testing.T) {
	specs, err := IndexSpecsFor(&indexedModel{})
	require.NoError(t, err)

	byName := map[string]IndexSpec{}
	for _, s := range specs {
		byName[s.Name] = s
	}
	require.Len(t, byName, 5)

	assert.True(t, byName["name_unique"].Unique)
	assert.False(t, byName["name_unique"].Sparse)
	assert.True(t, byName["slug_unique"].Sparse)
	assert.True(t, byName["memo_text"].Text)
	assert.Equal(t, bson.D{{Key: "memo", Value: "text"}}, byName["memo_text"].Keys)
	assert.Equal(t, bson.D{{Key: "productId", Value: -1}}, byName["productId_single"].Keys)

	compound := byName["group_product_unique"]
	assert.True(t, compound.Unique)
	assert.Equal(t, bson.D{{Key: "productGroup", Value: 1}, {Key: "productId", Value: -1}}, compound.Keys)
}

func TestIndexSpecsFor_RejectsNonStruct(t *testing.T) {
	_, err := IndexSpecsFor("not a model")
	assert.Error(t, err)
}

func TestSameIndex(t *testing.T) {
	spec := IndexSpec{Name: "slug_unique", Keys: bson.D{{Key: "slug", Value: 1}}, Unique: true}

	assert.True(t, sameIndex(bson.M{"key": bson.M{"slug": int32(1)}, "unique": true}, spec))
	assert.False(t, sameIndex(bson.M{"key": bson.M{"slug": int32(1)}}, spec))
	assert.False(t, sameIndex(bson.M{"key": bson.M{"slug": int32(-1)}, "unique": true}, spec))
	assert.False(t, sameIndex(bson.M{"key": bson.M{"name": int32(1)}, "unique": true}, spec))
}

func TestCatalogAdditionalIndexes_UseConfiguredNames(t *testing.T) {
	names := config.CollectionNames{
		RawAccounts: "acc", RawCategories: "cat", RawProducts: "prod",
		EnhancedCategories: "ecat", EnhancedProducts: "eprod", Users: "usr",
	}
	seen := map[string]int{}
	for _, idx := range catalogAdditionalIndexes(names) {
		seen[idx.collection]++
	}
	assert.Equal(t, map[string]int{"cat": 1, "acc": 2, "usr": 1, "eprod": 2}, seen)
}

func TestIsIndexExistsError(t *testing.T) {
	assert.False(t, isIndexExistsError(nil))
	assert.True(t, isIndexExistsError(errors.New("Index already exists with a different name")))
	assert.False(t, isIndexExistsError(errors.New("network timeout")))
}
