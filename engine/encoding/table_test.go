package encoding

import "testing"

func testTable() *Table {
	return NewTable(
		map[string]int{"ford": 17, "skoda": 52, "mondeo": 99},
		map[string]int{
			"ford mondeo":  301,
			"ford focus":   302,
			"ford fiesta":  303,
			"skoda octavia": 410,
			"super mondeo": 999,
		},
	)
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Ford", "ford"},
		{"  Ford   Mondeo ", "ford mondeo"},
		{"ALFA  ROMEO", "alfa romeo"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBrandCode(t *testing.T) {
	table := testTable()
	code, ok := table.BrandCode(" Ford ")
	if !ok || code != 17 {
		t.Errorf("BrandCode(Ford) = %d,%v, want 17,true", code, ok)
	}
	if _, ok := table.BrandCode("Lada"); ok {
		t.Error("unknown brand must be unresolved, not defaulted")
	}
}

func TestModelCode_CompositeKey(t *testing.T) {
	table := testTable()
	code, ok := table.ModelCode("Ford", "Mondeo")
	if !ok || code != 301 {
		t.Errorf("ModelCode(Ford, Mondeo) = %d,%v, want 301,true", code, ok)
	}
}

func TestModelCode_BareNameFallback(t *testing.T) {
	table := testTable()
	// "skoda skoda octavia" misses, the bare key hits.
	code, ok := table.ModelCode("skoda", "skoda octavia")
	if !ok || code != 410 {
		t.Errorf("ModelCode bare fallback = %d,%v, want 410,true", code, ok)
	}
	if _, ok := table.ModelCode("Ford", "Capri"); ok {
		t.Error("unknown model must be unresolved")
	}
}

func TestModelsFor_SubstringSemantics(t *testing.T) {
	table := testTable()

	models := table.ModelsFor("ford")
	if len(models) != 3 {
		t.Fatalf("ModelsFor(ford) returned %d entries, want 3", len(models))
	}
	// Sorted lexicographically by composite key.
	wantKeys := []string{"ford fiesta", "ford focus", "ford mondeo"}
	wantDisplay := []string{"Fiesta", "Focus", "Mondeo"}
	for i := range wantKeys {
		if models[i].Key != wantKeys[i] {
			t.Errorf("entry %d key = %q, want %q", i, models[i].Key, wantKeys[i])
		}
		if models[i].Display != wantDisplay[i] {
			t.Errorf("entry %d display = %q, want %q", i, models[i].Display, wantDisplay[i])
		}
	}

	// Legacy contract: substring match, not a brand-field join. The brand
	// "mondeo" picks up both "ford mondeo" and "super mondeo".
	matches := table.ModelsFor("mondeo")
	if len(matches) != 2 {
		t.Fatalf("ModelsFor(mondeo) returned %d entries, want 2", len(matches))
	}
	if matches[0].Key != "ford mondeo" || matches[1].Key != "super mondeo" {
		t.Errorf("got keys %q, %q", matches[0].Key, matches[1].Key)
	}
}

func TestModelsFor_Unknown(t *testing.T) {
	table := testTable()
	if got := table.ModelsFor("tesla"); got != nil {
		t.Errorf("expected nil for unknown brand, got %v", got)
	}
	if got := table.ModelsFor(" "); got != nil {
		t.Errorf("expected nil for blank brand, got %v", got)
	}
}

func TestBrands_Sorted(t *testing.T) {
	table := testTable()
	got := table.Brands()
	want := []string{"ford", "mondeo", "skoda"}
	if len(got) != len(want) {
		t.Fatalf("Brands() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("brand %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewTable_CopiesInput(t *testing.T) {
	brands := map[string]int{"ford": 17}
	table := NewTable(brands, nil)
	brands["ford"] = 1000
	if code, _ := table.BrandCode("ford"); code != 17 {
		t.Error("table must not share the caller's map")
	}
}
