package enricher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"electronic_product/internal/global"
	"electronic_product/internal/migration/models"
)

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }
func stringPtr(v string) *string    { return &v }
func boolPtr(v bool) *bool          { return &v }

var now = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestBuildCategory(t *testing.T) {
	admin := primitive.NewObjectID()
	cat := BuildCategory(models.RawCategory{TypeID: 1, CategoryName: " Điện thoại ", Memo: ""}, admin, now)

	assert.Equal(t, "Điện thoại", cat.Name)
	assert.Equal(t, "dien-thoai", cat.Slug)
	assert.Equal(t, "", cat.Memo)
	assert.True(t, cat.IsActive)
	require.NotNil(t, cat.CreatedBy)
	assert.Equal(t, admin, *cat.CreatedBy)
	assert.Equal(t, now, cat.CreatedAt)
	assert.NoError(t, global.NewValidator().Struct(cat))
}

func TestBuildCatalogCategory(t *testing.T) {
	cat := BuildCatalogCategory(models.CategoryRef{Name: "Smartphone Flagship", Memo: " Dòng cao cấp nhất "}, now)
	assert.Equal(t, "smartphone-flagship", cat.Slug)
	assert.Equal(t, "Dòng cao cấp nhất", cat.Memo)
	assert.Nil(t, cat.CreatedBy)
	assert.True(t, cat.IsActive)
}

func TestBuildProduct_UnresolvedReferences(t *testing.T) {
	raw := models.RawProduct{
		ProductID:   "P-5",
		ProductName: "Ghost phone",
		TypeID:      int64Ptr(5),
		Account:     "ghost@x.com",
	}
	p := BuildProduct(raw, map[string]primitive.ObjectID{}, map[string]primitive.ObjectID{}, NoExtras{}, now)

	assert.NotNil(t, p.Category)
	assert.Empty(t, p.Category)
	assert.Nil(t, p.Account)
	assert.NoError(t, global.NewValidator().Struct(p))
}

func TestBuildProduct_NilTypeIDIsEmptyCategory(t *testing.T) {
	p := BuildProduct(models.RawProduct{ProductID: "1", ProductName: "x"}, nil, nil, nil, now)
	assert.NotNil(t, p.Category)
	assert.Empty(t, p.Category)
	assert.Nil(t, p.Account)
}

func TestBuildProduct_ResolvedAndDefaults(t *testing.T) {
	catID := primitive.NewObjectID()
	accID := primitive.NewObjectID()
	raw := models.RawProduct{
		ProductID:   "1010010007",
		ProductName: "iPhone 15",
		TypeID:      int64Ptr(3),
		Account:     "alice",
	}
	p := BuildProduct(raw,
		map[string]primitive.ObjectID{"3": catID},
		map[string]primitive.ObjectID{"alice": accID},
		NoExtras{}, now)

	assert.Equal(t, []primitive.ObjectID{catID}, p.Category)
	require.NotNil(t, p.Account)
	assert.Equal(t, accID, *p.Account)

	assert.Equal(t, DefaultDescription, p.Description)
	assert.Equal(t, models.ProductImage{URL: DefaultImageURL, Alt: "iPhone 15"}, p.ProductImage)
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, 0.0, p.Discount)
	assert.Equal(t, DefaultBrand, p.Brand)
	assert.Equal(t, int64(0), p.Stock)
	assert.Equal(t, []string{}, p.HashTag)
	assert.Equal(t, models.Ratings{}, p.Ratings)
	assert.True(t, p.IsActive)
	assert.Equal(t, DefaultUnit, p.Unit)
	assert.Equal(t, now, p.PostedDate)
}

func TestBuildProduct_SourceValuesWin(t *testing.T) {
	posted := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := models.RawProduct{
		ProductID:    "7",
		ProductName:  "Galaxy",
		ProductImage: "images/galaxy.jpg",
		Brief:        "Short brief",
		Description:  "Long description",
		PostedDate:   &posted,
		Unit:         "Chiếc",
		Price:        float64Ptr(1000),
		Discount:     float64Ptr(5),
	}
	p := BuildProduct(raw, nil, nil, NoExtras{}, now)

	assert.Equal(t, "Short brief", p.Description)
	assert.Equal(t, "images/galaxy.jpg", p.ProductImage.URL)
	assert.Equal(t, posted, p.PostedDate)
	assert.Equal(t, "Chiếc", p.Unit)
	assert.Equal(t, 1000.0, p.Price)
	assert.Equal(t, 5.0, p.Discount)

	raw.Brief = ""
	assert.Equal(t, "Long description", BuildProduct(raw, nil, nil, NoExtras{}, now).Description)
}

func TestBuildProduct_ExtrasOverrideFieldByField(t *testing.T) {
	extras := NewExtraCatalog([]models.ExtraFields{
		{ProductID: "1", Brand: stringPtr("Apple"), IsActive: boolPtr(false)},
		{ProductID: "2", Stock: int64Ptr(8), HashTag: []string{"apple", "flagship"}, Ratings: &models.Ratings{Average: 4.9, Count: 1230}},
	})

	p1 := BuildProduct(models.RawProduct{ProductID: "1", ProductName: "a"}, nil, nil, extras, now)
	assert.Equal(t, "Apple", p1.Brand)
	assert.False(t, p1.IsActive)
	// Field vắng giữ mặc định
	assert.Equal(t, int64(0), p1.Stock)
	assert.Equal(t, []string{}, p1.HashTag)

	p2 := BuildProduct(models.RawProduct{ProductID: "2", ProductName: "b"}, nil, nil, extras, now)
	assert.Equal(t, DefaultBrand, p2.Brand)
	assert.Equal(t, int64(8), p2.Stock)
	assert.Equal(t, []string{"apple", "flagship"}, p2.HashTag)
	assert.Equal(t, models.Ratings{Average: 4.9, Count: 1230}, p2.Ratings)
	assert.True(t, p2.IsActive)

	p3 := BuildProduct(models.RawProduct{ProductID: "3", ProductName: "c"}, nil, nil, extras, now)
	assert.Equal(t, DefaultBrand, p3.Brand)
}

func TestBuildProduct_DefaultsNotShared(t *testing.T) {
	a := BuildProduct(models.RawProduct{ProductID: "1", ProductName: "a"}, nil, nil, nil, now)
	b := BuildProduct(models.RawProduct{ProductID: "2", ProductName: "b"}, nil, nil, nil, now)
	a.HashTag = append(a.HashTag, "x")
	assert.Empty(t, b.HashTag)
}

func TestBuildProduct_ValidationCatchesBadDiscount(t *testing.T) {
	p := BuildProduct(models.RawProduct{ProductID: "1", ProductName: "a", Discount: float64Ptr(150)}, nil, nil, nil, now)
	assert.Error(t, global.NewValidator().Struct(p))
}
