// Package comparables owns the Qdrant-backed index of reference market
// listings. A valuation's technical feature vector doubles as the search
// embedding: listings with similar specs sit close in that space.
package comparables

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/eucarpredict/valuation-engine/engine/features"
)

// Store is the sole owner of all Qdrant operations.
type Store struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// New creates a Store connected to Qdrant at the given gRPC address.
func New(addr, collection string) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("comparables: dial qdrant %s: %w", addr, err)
	}
	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error { return s.conn.Close() }

// EnsureCollection creates the listings collection if it doesn't exist.
// Euclidean distance: the technical vectors carry magnitude (year, km, kW),
// so angular similarity would conflate very different vehicles.
func (s *Store) EnsureCollection(ctx context.Context) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("comparables: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(features.TechnicalLen),
					Distance: pb.Distance_Euclid,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("comparables: create collection %s: %w", s.collection, err)
	}
	return nil
}

// Upsert indexes reference listings. Each listing must carry a vector of
// exactly features.TechnicalLen elements.
func (s *Store) Upsert(ctx context.Context, listings []Listing) error {
	if len(listings) == 0 {
		return nil
	}
	points := make([]*pb.PointStruct, len(listings))
	for i, l := range listings {
		if len(l.Vector) != features.TechnicalLen {
			return fmt.Errorf("comparables: listing %s has %d-element vector, want %d",
				l.ID, len(l.Vector), features.TechnicalLen)
		}
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: l.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: toFloat32(l.Vector)},
				},
			},
			Payload: listingPayload(l),
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("comparables: upsert %d listings: %w", len(listings), err)
	}
	return nil
}

// SearchSimilar returns the topK listings nearest to the given technical
// vector, optionally restricted to one brand.
func (s *Store) SearchSimilar(ctx context.Context, vector []float64, topK int, brand string) ([]Match, error) {
	if len(vector) != features.TechnicalLen {
		return nil, fmt.Errorf("comparables: search vector has %d elements, want %d",
			len(vector), features.TechnicalLen)
	}
	req := &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         toFloat32(vector),
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	}
	if brand != "" {
		req.Filter = &pb.Filter{Must: []*pb.Condition{brandMatch(brand)}}
	}

	resp, err := s.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("comparables: search: %w", err)
	}

	matches := make([]Match, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		matches[i] = Match{
			Listing: listingFromPayload(r.GetId().GetUuid(), r.GetPayload()),
			Score:   r.GetScore(),
		}
	}
	return matches, nil
}

func listingPayload(l Listing) map[string]*pb.Value {
	return map[string]*pb.Value{
		"brand":      {Kind: &pb.Value_StringValue{StringValue: l.Brand}},
		"model":      {Kind: &pb.Value_StringValue{StringValue: l.Model}},
		"year":       {Kind: &pb.Value_IntegerValue{IntegerValue: int64(l.Year)}},
		"mileage_km": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(l.MileageKM)}},
		"price":      {Kind: &pb.Value_DoubleValue{DoubleValue: l.Price}},
	}
}

func listingFromPayload(id string, payload map[string]*pb.Value) Listing {
	return Listing{
		ID:        id,
		Brand:     payload["brand"].GetStringValue(),
		Model:     payload["model"].GetStringValue(),
		Year:      int(payload["year"].GetIntegerValue()),
		MileageKM: int(payload["mileage_km"].GetIntegerValue()),
		Price:     payload["price"].GetDoubleValue(),
	}
}

func brandMatch(brand string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: "brand",
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: brand},
				},
			},
		},
	}
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
