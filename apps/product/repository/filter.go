package repository

import (
	"fmt"

	"go-storefront/pkg/lifecycle"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Predicate is one typed condition on the products table.
type Predicate struct {
	Column string
	Op     string
	Value  interface{}
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %v", p.Column, p.Op, p.Value)
}

// Filter accumulates AND-composed predicates. A new Filter always carries the
// Active state predicate.
type Filter struct {
	preds []Predicate
}

func NewFilter() *Filter {
	return &Filter{preds: []Predicate{{Column: "is_active", Op: "=", Value: lifecycle.Active}}}
}

func (f *Filter) add(column, op string, value interface{}) *Filter {
	f.preds = append(f.preds, Predicate{Column: column, Op: op, Value: value})
	return f
}

func (f *Filter) Category(id uint) *Filter {
	return f.add("category_id", "=", id)
}

func (f *Filter) Seller(id uint) *Filter {
	return f.add("seller_id", "=", id)
}

// MinPrice and MaxPrice are inclusive bounds.
func (f *Filter) MinPrice(d decimal.Decimal) *Filter {
	return f.add("price", ">=", d)
}

func (f *Filter) MaxPrice(d decimal.Decimal) *Filter {
	return f.add("price", "<=", d)
}

// InStock selects stock > 0 when true and stock = 0 when false.
func (f *Filter) InStock(in bool) *Filter {
	if in {
		return f.add("stock", ">", 0)
	}
	return f.add("stock", "=", 0)
}

func (f *Filter) Predicates() []Predicate {
	out := make([]Predicate, len(f.preds))
	copy(out, f.preds)
	return out
}

// Scope applies every predicate. Columns and operators only come from the
// builder methods above, never from user input.
func (f *Filter) Scope() func(*gorm.DB) *gorm.DB {
	preds := f.Predicates()
	return func(db *gorm.DB) *gorm.DB {
		for _, p := range preds {
			db = db.Where(p.Column+" "+p.Op+" ?", p.Value)
		}
		return db
	}
}
