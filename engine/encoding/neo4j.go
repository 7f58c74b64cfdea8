package encoding

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// LoadGraph builds the encoding catalog from a Neo4j vehicle graph.
// Brand nodes carry their code directly; model keys are the composite
// "brand model" convention the regressors were trained on.
func LoadGraph(ctx context.Context, driver neo4j.DriverWithContext) (*Table, error) {
	sess := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer sess.Close(ctx)

	brands, err := collectCodes(ctx, sess,
		`MATCH (b:Brand) RETURN b.name AS name, b.code AS code`)
	if err != nil {
		return nil, fmt.Errorf("encoding: load brands: %w", err)
	}

	models, err := collectCodes(ctx, sess,
		`MATCH (b:Brand)-[:HAS_MODEL]->(m:Model)
		 RETURN b.name + ' ' + m.name AS name, m.code AS code`)
	if err != nil {
		return nil, fmt.Errorf("encoding: load models: %w", err)
	}

	return NewTable(brands, models), nil
}

func collectCodes(ctx context.Context, sess neo4j.SessionWithContext, cypher string) (map[string]int, error) {
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]int)
	for result.Next(ctx) {
		rec := result.Record()
		name, _ := rec.Get("name")
		code, _ := rec.Get("code")
		n, ok := name.(string)
		if !ok {
			continue
		}
		if c, ok := code.(int64); ok {
			codes[n] = int(c)
		}
	}
	return codes, result.Err()
}
