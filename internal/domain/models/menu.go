package models

import "time"

// Category enumerates the cafeteria menu categories.
type Category string

const (
	CategoryMain    Category = "main"
	CategorySide    Category = "side"
	CategoryNoodle  Category = "noodle"
	CategoryBowl    Category = "bowl"
	CategoryRice    Category = "rice"
	CategoryCurry   Category = "curry"
	CategorySoup    Category = "soup"
	CategoryDessert Category = "dessert"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryMain, CategorySide, CategoryNoodle, CategoryBowl,
		CategoryRice, CategoryCurry, CategorySoup, CategoryDessert,
	}
}

// Price carries the tray prices for one item. Medium is always set;
// small and large exist only for items sold in multiple portions.
type Price struct {
	Medium int  `bson:"medium" json:"medium"`
	Small  *int `bson:"small,omitempty" json:"small,omitempty"`
	Large  *int `bson:"large,omitempty" json:"large,omitempty"`
}

// MenuItem is a catalogue-backed standard item. The catalogue is seeded
// at deploy time and never mutated through this service.
type MenuItem struct {
	Code     int      `json:"code"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Price    Price    `json:"price"`
}

// Ref returns the tagged reference for this item.
func (m MenuItem) Ref() MenuRef {
	return StandardRef(m.Code)
}

// OriginalMenuItem is an operator-authored custom item, created and
// edited through its own CRUD flow and referenced by id elsewhere.
type OriginalMenuItem struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Category  Category  `bson:"category" json:"category"`
	Price     Price     `bson:"price" json:"price"`
	ImageURL  string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Ref returns the tagged reference for this item.
func (m OriginalMenuItem) Ref() MenuRef {
	return OriginalRef(m.ID)
}
