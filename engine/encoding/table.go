// Package encoding resolves free-text brand and model names to the integer
// codes the regressors were trained on. The table is built once at process
// start and is immutable afterwards; all lookups are read-only.
package encoding

import (
	"sort"
	"strings"
	"unicode"
)

// Table holds the two code mappings. Keys are normalized (lower-cased,
// single-spaced). Model keys are composite "brand model" strings.
type Table struct {
	brands map[string]int
	models map[string]int
}

// NewTable builds a Table from raw mappings. Keys are normalized and the
// maps are copied, so the caller cannot mutate the table afterwards.
func NewTable(brands, models map[string]int) *Table {
	t := &Table{
		brands: make(map[string]int, len(brands)),
		models: make(map[string]int, len(models)),
	}
	for k, v := range brands {
		t.brands[Normalize(k)] = v
	}
	for k, v := range models {
		t.models[Normalize(k)] = v
	}
	return t
}

// Normalize lower-cases a name and collapses runs of whitespace to single
// spaces, matching the key convention of the training mappings.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// BrandCode looks up the code for a brand name. The second return is false
// when the brand is not in the catalog; the caller must then supply a manual
// code or abort, never a sentinel.
func (t *Table) BrandCode(brand string) (int, bool) {
	code, ok := t.brands[Normalize(brand)]
	return code, ok
}

// ModelCode looks up the code for a model, trying the composite
// "brand model" key first and the bare model name second. The bare-name
// fallback covers mappings whose keys already embed the brand.
func (t *Table) ModelCode(brand, model string) (int, bool) {
	if code, ok := t.models[Normalize(brand+" "+model)]; ok {
		return code, true
	}
	code, ok := t.models[Normalize(model)]
	return code, ok
}

// Len reports the number of brand and model entries.
func (t *Table) Len() (brands, models int) {
	return len(t.brands), len(t.models)
}

// Brands returns all brand names, sorted.
func (t *Table) Brands() []string {
	out := make([]string, 0, len(t.brands))
	for b := range t.brands {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// ModelEntry is a model listed for a brand. Key is the composite catalog
// key, Display is the model name with the brand stripped and title-cased.
type ModelEntry struct {
	Key     string `json:"key"`
	Display string `json:"display"`
	Code    int    `json:"code"`
}

// ModelsFor lists the catalog models whose composite key contains the brand
// as a substring, sorted lexicographically by key. Substring matching is the
// legacy lookup contract: a model key containing another brand's name will
// match that brand too, and callers relying on historical behaviour get
// exactly that.
func (t *Table) ModelsFor(brand string) []ModelEntry {
	key := Normalize(brand)
	if key == "" {
		return nil
	}
	var entries []ModelEntry
	for k, code := range t.models {
		if !strings.Contains(k, key) {
			continue
		}
		display := strings.TrimSpace(strings.ReplaceAll(k, key, ""))
		entries = append(entries, ModelEntry{Key: k, Display: title(display), Code: code})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// title upper-cases the first letter of each space-separated word.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
