package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_MarshalJSON(t *testing.T) {
	image := "/uploads/lamp_1.png"
	p := Product{
		ID:        3,
		Name:      "Lamp",
		Price:     decimal.RequireFromString("120.50"),
		Stock:     2,
		Rating:    4.5,
		ImagePath: &image,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 3,
		"name": "Lamp",
		"description": "",
		"price": 120.5,
		"category": "",
		"brand": "",
		"stock": 2,
		"rating": 4.5,
		"image_path": "/uploads/lamp_1.png",
		"created_at": "2024-01-02T03:04:05Z"
	}`, string(data))

	var back Product
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, p.Price.Equal(back.Price))
	assert.Equal(t, p.Name, back.Name)
}

func TestProduct_MarshalJSON_LeavesDecimalDefault(t *testing.T) {
	assert.False(t, decimal.MarshalJSONWithoutQuotes)

	data, err := json.Marshal(decimal.RequireFromString("1.25"))
	require.NoError(t, err)
	assert.Equal(t, `"1.25"`, string(data))
}
