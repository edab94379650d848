package repository

import (
	"testing"

	"go-storefront/pkg/lifecycle"

	"github.com/shopspring/decimal"
)

func TestNewFilterIsActiveOnly(t *testing.T) {
	preds := NewFilter().Predicates()
	if len(preds) != 1 || preds[0].Column != "is_active" || preds[0].Value != lifecycle.Active {
		t.Errorf("Expected a single active predicate, got %v", preds)
	}
}

func TestFilterComposition(t *testing.T) {
	f := NewFilter().
		Category(2).
		MinPrice(decimal.RequireFromString("1.50")).
		MaxPrice(decimal.RequireFromString("10")).
		InStock(true).
		Seller(4)

	want := []string{
		"is_active = active",
		"category_id = 2",
		"price >= 1.5",
		"price <= 10",
		"stock > 0",
		"seller_id = 4",
	}
	preds := f.Predicates()
	if len(preds) != len(want) {
		t.Fatalf("Expected %d predicates, got %v", len(want), preds)
	}
	for i, w := range want {
		if preds[i].String() != w {
			t.Errorf("Expected predicate %d to be %q, got %q", i, w, preds[i].String())
		}
	}
}

func TestPredicatesAreCopied(t *testing.T) {
	f := NewFilter()
	preds := f.Predicates()
	preds[0].Column = "mutated"
	if f.Predicates()[0].Column != "is_active" {
		t.Errorf("Expected Predicates to return a copy")
	}
}
