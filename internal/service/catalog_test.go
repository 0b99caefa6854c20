package service

import (
	"context"
	"errors"
	"testing"

	"warehouse-service/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductDuplicateSKU(t *testing.T) {
	f := newFixture()

	_, err := f.catalog.CreateProduct(context.Background(), &ProductRequest{
		SKU:  "SKU-1",
		Name: "Widget",
	})
	require.NoError(t, err)

	_, err = f.catalog.CreateProduct(context.Background(), &ProductRequest{
		SKU:  "SKU-1",
		Name: "Other Widget",
	})
	assert.True(t, errors.Is(err, errs.ErrConflict))
}

func TestGetProductBySKU(t *testing.T) {
	f := newFixture()

	created, err := f.catalog.CreateProduct(context.Background(), &ProductRequest{
		SKU:       "SKU-9",
		Name:      "Widget",
		UnitPrice: 12.5,
	})
	require.NoError(t, err)

	found, err := f.catalog.GetProductBySKU(context.Background(), "SKU-9")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, found.IsActive)
}

func TestUpdateProductUnknown(t *testing.T) {
	f := newFixture()

	_, err := f.catalog.UpdateProduct(context.Background(), "ghost", &ProductRequest{
		SKU:  "SKU-1",
		Name: "Widget",
	})
	assert.True(t, errs.IsNotFound(err))
}
