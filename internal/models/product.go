package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Images          []string        `json:"images"`
	Category        string          `json:"category"`
	Inventory       map[string]int  `json:"inventory"`
	Active          bool            `json:"active"`
	StripeProductID string          `json:"stripe_product_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// HasVariant reports whether variant is selectable for the product. Products
// without an inventory map accept only the empty variant.
func (p *Product) HasVariant(variant string) bool {
	if len(p.Inventory) == 0 {
		return variant == ""
	}

	_, ok := p.Inventory[strings.ToUpper(variant)]

	return ok
}

// Variants returns the inventory labels that are in stock.
func (p *Product) Variants() []string {
	var variants []string

	for label, qty := range p.Inventory {
		if qty > 0 {
			variants = append(variants, label)
		}
	}

	return variants
}

func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}

	return p.Images[0]
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images,omitempty" validate:"omitempty,dive,url"`
	Category    string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Inventory   map[string]int  `json:"inventory,omitempty" validate:"omitempty,dive,keys,required,max=10,endkeys,gte=0"`
	Active      *bool           `json:"active,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Images      []string         `json:"images,omitempty" validate:"omitempty,dive,url"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Inventory   map[string]int   `json:"inventory,omitempty" validate:"omitempty,dive,keys,required,max=10,endkeys,gte=0"`
	Active      *bool            `json:"active,omitempty"`
}
