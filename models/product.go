package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
)

// SizeNames is the fixed set of size buckets a variant may carry.
var SizeNames = []string{"S", "M", "L", "XL", "XXL"}

func ValidSize(name string) bool {
	for _, s := range SizeNames {
		if s == name {
			return true
		}
	}
	return false
}

type SizeStock struct {
	SizeName     string `bson:"sizeName" json:"sizeName"`
	CountInStock int    `bson:"countInStock" json:"countInStock"`
}

// Variant is a color option of a product with its own stock and images.
type Variant struct {
	Color  string      `bson:"color" json:"color"`
	Images []string    `bson:"images" json:"images"`
	Sizes  []SizeStock `bson:"sizes" json:"sizes"`
}

type Product struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string              `bson:"name" json:"name" binding:"required"`
	Slug          string              `bson:"slug" json:"slug"`
	SKU           string              `bson:"sku" json:"sku" binding:"required"`
	Description   string              `bson:"description" json:"description"`
	Price         float64             `bson:"price" json:"price" binding:"required"`
	DiscountPrice float64             `bson:"discountPrice" json:"discountPrice"`
	Gender        Gender              `bson:"gender" json:"gender"`
	Category      primitive.ObjectID  `bson:"category" json:"category" binding:"required"`
	Collection    *primitive.ObjectID `bson:"collection,omitempty" json:"collection,omitempty"`
	IsPublished   bool                `bson:"isPublished" json:"isPublished"`
	Variants      []Variant           `bson:"variants" json:"variants"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// DisplayPrice is the discounted price when one is set, otherwise the list price.
func (p *Product) DisplayPrice() float64 {
	if p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}

func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		for _, s := range v.Sizes {
			total += s.CountInStock
		}
	}
	return total
}

func (p *Product) FindVariant(color string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Color == color {
			return &p.Variants[i]
		}
	}
	return nil
}

func (v *Variant) FindSize(name string) *SizeStock {
	for i := range v.Sizes {
		if v.Sizes[i].SizeName == name {
			return &v.Sizes[i]
		}
	}
	return nil
}
