package postgres

import (
	"testing"

	"abacus/internal/core/types"
	"abacus/internal/domain/accounts"
	"abacus/internal/domain/inventory"
)

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[accounts.Account]()

	want := map[string]bool{
		"id":            false,
		"deletion_mark": false,
		"version":       false,
		"code":          false,
		"name":          false,
		"type":          false,
		"active":        false,
		"system":        false,
	}

	for _, col := range cols {
		if _, ok := want[col]; ok {
			want[col] = true
		}
	}

	for col, found := range want {
		if !found {
			t.Errorf("column %q missing from extracted columns %v", col, cols)
		}
	}
}

func TestStructToMap(t *testing.T) {
	p := inventory.New("SKU-001", "Widget", types.MustMoney("9.99"))
	p.StockQuantity = types.NewQuantityFromInt(5)

	m := StructToMap(p)

	if m["code"] != "SKU-001" {
		t.Errorf("code = %v, want SKU-001", m["code"])
	}
	if m["name"] != "Widget" {
		t.Errorf("name = %v, want Widget", m["name"])
	}
	if _, ok := m["id"]; !ok {
		t.Error("embedded entity id missing from map")
	}

	qty, ok := m["stock_quantity"].(types.Quantity)
	if !ok {
		t.Fatalf("stock_quantity has unexpected type %T", m["stock_quantity"])
	}
	if !qty.Equal(types.NewQuantityFromInt(5)) {
		t.Errorf("stock_quantity = %s, want 5", qty)
	}
}

func TestStructToMapSkipsUntagged(t *testing.T) {
	type row struct {
		Kept    string `db:"kept"`
		Ignored string `db:"-"`
		NoTag   string
	}

	m := StructToMap(row{Kept: "x", Ignored: "y", NoTag: "z"})

	if m["kept"] != "x" {
		t.Errorf("kept = %v, want x", m["kept"])
	}
	if _, ok := m["-"]; ok {
		t.Error("ignored field leaked into map")
	}
	if len(m) != 1 {
		t.Errorf("map has %d entries, want 1: %v", len(m), m)
	}
}
