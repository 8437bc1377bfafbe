package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// PseudoResult is a pseudo stat a stat id feeds.
type PseudoResult struct {
	Pseudo  string
	Combine string
	Count   float64
}

// PseudosFor finds the pseudo stats a canonical stat id is folded into.
func (g *StatGraph) PseudosFor(ctx context.Context, statID string) ([]PseudoResult, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:Stat {id: $id})-[f:FEEDS]->(p:Pseudo)
		RETURN DISTINCT p.id AS pseudo, f.combine AS combine, f.count AS count
		ORDER BY pseudo
	`, map[string]any{"id": statID})
	if err != nil {
		return nil, fmt.Errorf("query pseudo feeds: %w", err)
	}

	var out []PseudoResult
	for result.Next(ctx) {
		record := result.Record()
		pseudo, _ := record.Get("pseudo")
		combine, _ := record.Get("combine")
		count, _ := record.Get("count")

		r := PseudoResult{
			Pseudo:  fmt.Sprintf("%v", pseudo),
			Combine: fmt.Sprintf("%v", combine),
		}
		if c, ok := count.(float64); ok {
			r.Count = c
		}
		out = append(out, r)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read pseudo feeds: %w", err)
	}

	log.Debug().Str("stat", statID).Int("pseudos", len(out)).Msg("Graph query complete")
	return out, nil
}

// TwinsOf returns the stat keys rendering the same text as key.
func (g *StatGraph) TwinsOf(ctx context.Context, key string) ([]string, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:Stat {key: $key})-[:INDISTINGUISHABLE_FROM]-(t:Stat)
		RETURN DISTINCT t.key AS key
		ORDER BY key
	`, map[string]any{"key": key})
	if err != nil {
		return nil, fmt.Errorf("query twins: %w", err)
	}

	var out []string
	for result.Next(ctx) {
		k, _ := result.Record().Get("key")
		out = append(out, fmt.Sprintf("%v", k))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read twins: %w", err)
	}
	return out, nil
}
