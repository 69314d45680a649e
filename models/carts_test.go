package models

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItem(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	testCases := []struct {
		name          string
		adds          []CartItem
		expectedErr   error
		expectedItems []CartItem
	}{
		{
			name:          "Append new line",
			adds:          []CartItem{{ProductID: productA, Quantity: 2}},
			expectedItems: []CartItem{{ProductID: productA, Quantity: 2}},
		},
		{
			name: "Same product twice is merged",
			adds: []CartItem{
				{ProductID: productA, Quantity: 2},
				{ProductID: productA, Quantity: 3},
			},
			expectedItems: []CartItem{{ProductID: productA, Quantity: 5}},
		},
		{
			name: "Different products keep insertion order",
			adds: []CartItem{
				{ProductID: productB, Quantity: 1},
				{ProductID: productA, Quantity: 1},
			},
			expectedItems: []CartItem{
				{ProductID: productB, Quantity: 1},
				{ProductID: productA, Quantity: 1},
			},
		},
		{
			name: "Overflowing sum is rejected",
			adds: []CartItem{
				{ProductID: productA, Quantity: math.MaxInt - 1},
				{ProductID: productA, Quantity: 2},
			},
			expectedErr:   ErrInvalidQuantity,
			expectedItems: []CartItem{{ProductID: productA, Quantity: math.MaxInt - 1}},
		},
		{
			name: "Sum up to the largest int is accepted",
			adds: []CartItem{
				{ProductID: productA, Quantity: math.MaxInt - 1},
				{ProductID: productA, Quantity: 1},
			},
			expectedItems: []CartItem{{ProductID: productA, Quantity: math.MaxInt}},
		},
		{
			name:          "Zero quantity is rejected",
			adds:          []CartItem{{ProductID: productA, Quantity: 0}},
			expectedErr:   ErrInvalidQuantity,
			expectedItems: []CartItem{},
		},
		{
			name:          "Negative quantity is rejected",
			adds:          []CartItem{{ProductID: productA, Quantity: -4}},
			expectedErr:   ErrInvalidQuantity,
			expectedItems: []CartItem{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cart := &Cart{Items: []CartItem{}}

			var err error
			for _, add := range tc.adds {
				err = cart.AddItem(add.ProductID, add.Quantity)
			}

			assert.ErrorIs(t, err, tc.expectedErr)
			require.Len(t, cart.Items, len(tc.expectedItems))
			for i, want := range tc.expectedItems {
				assert.Equal(t, want.ProductID, cart.Items[i].ProductID)
				assert.Equal(t, want.Quantity, cart.Items[i].Quantity)
			}
		})
	}
}

func TestCartRemoveItem(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	cart := &Cart{Items: []CartItem{
		{ProductID: productA, Quantity: 1},
		{ProductID: productB, Quantity: 4},
	}}

	assert.False(t, cart.RemoveItem(uuid.New()), "absent product is a no-op")
	assert.Len(t, cart.Items, 2)

	assert.True(t, cart.RemoveItem(productA))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, productB, cart.Items[0].ProductID)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestCartSetQuantity(t *testing.T) {
	productA := uuid.New()
	cart := &Cart{Items: []CartItem{{ProductID: productA, Quantity: 2}}}

	assert.NoError(t, cart.SetQuantity(productA, 7))
	assert.Equal(t, 7, cart.Items[0].Quantity, "quantity is set, not incremented")

	assert.ErrorIs(t, cart.SetQuantity(uuid.New(), 1), ErrProductNotInCart)
	assert.ErrorIs(t, cart.SetQuantity(productA, 0), ErrInvalidQuantity)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assert.Len(t, cart.Items, 1)
}

func TestCartReplaceItems(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	original := []CartItem{{ProductID: productA, Quantity: 1}}

	t.Run("Invalid quantity leaves cart untouched", func(t *testing.T) {
		cart := &Cart{Items: append([]CartItem{}, original...)}
		err := cart.ReplaceItems([]CartItem{
			{ProductID: productB, Quantity: 3},
			{ProductID: productA, Quantity: 0},
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, original, cart.Items)
	})

	t.Run("Valid list replaces lines and merges repeats", func(t *testing.T) {
		cart := &Cart{Items: append([]CartItem{}, original...)}
		err := cart.ReplaceItems([]CartItem{
			{ProductID: productB, Quantity: 3},
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 1},
		})
		require.NoError(t, err)
		require.Len(t, cart.Items, 2)
		assert.Equal(t, productB, cart.Items[0].ProductID)
		assert.Equal(t, 4, cart.Items[0].Quantity)
		assert.Equal(t, productA, cart.Items[1].ProductID)
		assert.Equal(t, 2, cart.Items[1].Quantity)
	})

	t.Run("Overflowing merge leaves cart untouched", func(t *testing.T) {
		cart := &Cart{Items: append([]CartItem{}, original...)}
		err := cart.ReplaceItems([]CartItem{
			{ProductID: productB, Quantity: math.MaxInt},
			{ProductID: productB, Quantity: 1},
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, original, cart.Items)
	})

	t.Run("Empty list clears", func(t *testing.T) {
		cart := &Cart{Items: append([]CartItem{}, original...)}
		require.NoError(t, cart.ReplaceItems(nil))
		assert.Empty(t, cart.Items)
	})
}

func TestCartClear(t *testing.T) {
	cart := &Cart{Items: []CartItem{{ProductID: uuid.New(), Quantity: 1}}}
	cart.Clear()
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
}
