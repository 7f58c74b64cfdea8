package comparables

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/eucarpredict/valuation-engine/engine/features"
)

func TestUpsert_RejectsWrongVectorLength(t *testing.T) {
	s := &Store{collection: "listings"}
	err := s.Upsert(context.Background(), []Listing{
		{ID: "a1", Brand: "ford", Vector: []float64{1, 2, 3}},
	})
	if err == nil || !strings.Contains(err.Error(), "3-element vector") {
		t.Errorf("expected vector length error, got %v", err)
	}
}

func TestUpsert_EmptyIsNoop(t *testing.T) {
	// points client is nil: a network call would panic.
	s := &Store{collection: "listings"}
	if err := s.Upsert(context.Background(), nil); err != nil {
		t.Errorf("empty upsert: %v", err)
	}
}

func TestSearchSimilar_RejectsWrongVectorLength(t *testing.T) {
	s := &Store{collection: "listings"}
	_, err := s.SearchSimilar(context.Background(), []float64{1, 2}, 5, "")
	if err == nil || !strings.Contains(err.Error(), "2 elements") {
		t.Errorf("expected vector length error, got %v", err)
	}
}

func TestListingPayloadRoundTrip(t *testing.T) {
	in := Listing{
		ID:        "b7",
		Brand:     "skoda",
		Model:     "octavia",
		Year:      2018,
		MileageKM: 120000,
		Price:     11400.50,
	}
	got := listingFromPayload(in.ID, listingPayload(in))
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip changed listing:\n got %+v\nwant %+v", got, in)
	}
}

func TestToFloat32(t *testing.T) {
	in := make([]float64, features.TechnicalLen)
	for i := range in {
		in[i] = float64(i) + 0.5
	}
	out := toFloat32(in)
	if len(out) != features.TechnicalLen {
		t.Fatalf("length = %d, want %d", len(out), features.TechnicalLen)
	}
	for i := range out {
		if out[i] != float32(in[i]) {
			t.Errorf("element %d = %g, want %g", i, out[i], float32(in[i]))
		}
	}
}
