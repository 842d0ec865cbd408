package models

import (
	"encoding/json"
	"testing"

	"github.com/krishi-setu/internal/constants"
)

func TestApplyStockStatus(t *testing.T) {
	tests := []struct {
		name   string
		stock  int
		status string
		want   string
	}{
		{name: "zero_stock_forces_out_of_stock", stock: 0, status: constants.ProductStatusActive, want: constants.ProductStatusOutOfStock},
		{name: "zero_stock_overrides_inactive", stock: 0, status: constants.ProductStatusInactive, want: constants.ProductStatusOutOfStock},
		{name: "restock_reactivates", stock: 5, status: constants.ProductStatusOutOfStock, want: constants.ProductStatusActive},
		{name: "restock_keeps_inactive", stock: 5, status: constants.ProductStatusInactive, want: constants.ProductStatusInactive},
		{name: "empty_status_defaults_active", stock: 3, status: "", want: constants.ProductStatusActive},
		{name: "negative_stock_clamped", stock: -2, status: constants.ProductStatusActive, want: constants.ProductStatusOutOfStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Stock: tt.stock, Status: tt.status}
			p.ApplyStockStatus()
			if p.Status != tt.want {
				t.Fatalf("status want %s got %s", tt.want, p.Status)
			}
			if p.Stock < 0 {
				t.Fatalf("stock should never be negative, got %d", p.Stock)
			}
		})
	}
}

func TestCalcDiscount(t *testing.T) {
	if got := CalcDiscount(MustMoney("100"), MustMoney("80")); got != 20 {
		t.Fatalf("discount want 20 got %d", got)
	}
	if got := CalcDiscount(MustMoney("30"), MustMoney("20")); got != 33 {
		t.Fatalf("discount want 33 got %d", got)
	}
	if got := CalcDiscount(MustMoney("0"), MustMoney("20")); got != 0 {
		t.Fatalf("zero original price should yield 0, got %d", got)
	}
	if got := CalcDiscount(MustMoney("20"), MustMoney("25")); got != 0 {
		t.Fatalf("price above original should yield 0, got %d", got)
	}
}

func TestBeforeSaveDefaultsImage(t *testing.T) {
	p := &Product{Stock: 1, Price: MustMoney("10")}
	if err := p.BeforeSave(nil); err != nil {
		t.Fatalf("before save failed: %v", err)
	}
	if p.Image != constants.DefaultProductImage {
		t.Fatalf("image want default got %s", p.Image)
	}
}

func TestCartLineKey(t *testing.T) {
	id := uint(7)
	if got := CartLineKey(&id, "Tomato"); got != "id:7" {
		t.Fatalf("key want id:7 got %s", got)
	}
	if got := CartLineKey(nil, " Tomato "); got != "name:Tomato" {
		t.Fatalf("key want name:Tomato got %s", got)
	}
	zero := uint(0)
	if got := CartLineKey(&zero, "Onion"); got != "name:Onion" {
		t.Fatalf("zero id should fall back to name, got %s", got)
	}
}

func TestMoneyJSONAndDisplay(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`24.5`), &m); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if m.String() != "24.50" {
		t.Fatalf("money want 24.50 got %s", m.String())
	}
	if got := MustMoney("136.00").Display(); got != "136" {
		t.Fatalf("display want 136 got %s", got)
	}
	if got := MustMoney("24").Mul(2).Plus(MustMoney("16").Mul(3)); got.String() != "96.00" {
		t.Fatalf("subtotal want 96.00 got %s", got.String())
	}
}
