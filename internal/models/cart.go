package models

import (
	"github.com/google/uuid"
)

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Variant   string    `json:"variant,omitempty" validate:"omitempty,max=10"`
}

type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Variant   string    `json:"variant,omitempty" validate:"omitempty,max=10"`
	Delta     int       `json:"delta" validate:"required,ne=0"`
}

type RemoveItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Variant   string    `json:"variant,omitempty" validate:"omitempty,max=10"`
}
