package graph

import (
	"context"
	"fmt"

	"poe-overlay/internal/item"
	"poe-overlay/internal/processor"
	"poe-overlay/internal/refdata"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// StatsProvider serves the stat template corpus.
type StatsProvider interface {
	Provide(typ item.StatType) *refdata.StatTable
	Indistinguishable(typ item.StatType) map[string][]string
}

// StatNode is one stat template of the corpus.
type StatNode struct {
	Key     string
	ID      string
	TradeID string
	Type    item.StatType
	Text    string
}

// Feed is a stat id folded into a pseudo stat.
type Feed struct {
	Pseudo  string
	Source  string
	Type    item.StatType
	Count   float64
	Combine string
	// Required is the number of sources the pseudo stat needs.
	Required int
}

// Twin links two trade ids rendering the same text.
type Twin struct {
	From string
	To   string
}

// StatGraph seeds and queries the stat corpus in Neo4j.
type StatGraph struct {
	driver neo4j.DriverWithContext
}

// NewStatGraph creates a new stat graph.
func NewStatGraph(driver neo4j.DriverWithContext) *StatGraph {
	return &StatGraph{driver: driver}
}

// EnsureSchema creates constraints on the Neo4j database.
func (g *StatGraph) EnsureSchema(ctx context.Context) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (s:Stat) REQUIRE s.key IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (p:Pseudo) REQUIRE p.id IS UNIQUE",
		"CREATE INDEX IF NOT EXISTS FOR (s:Stat) ON (s.id)",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

// SeedStats writes the stat nodes, the pseudo feed edges and the
// indistinguishable edges.
func (g *StatGraph) SeedStats(ctx context.Context, stats StatsProvider, modifiers []processor.PseudoModifier) error {
	nodes := StatNodes(stats)
	feeds := Feeds(modifiers)
	twins := Twins(stats)

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, `
		UNWIND $rows AS row
		MERGE (s:Stat {key: row.key})
		SET s.id = row.id,
		    s.tradeId = row.tradeId,
		    s.type = row.type,
		    s.text = row.text
	`, map[string]any{"rows": nodeRows(nodes)}); err != nil {
		return fmt.Errorf("upsert stat nodes: %w", err)
	}
	log.Info().Int("stats", len(nodes)).Msg("Seeded stat nodes")

	if _, err := session.Run(ctx, `
		UNWIND $rows AS row
		MERGE (p:Pseudo {id: row.pseudo})
		SET p.required = row.required
		WITH p, row
		MATCH (s:Stat {id: row.source})
		WHERE row.type = '' OR s.type = row.type
		MERGE (s)-[f:FEEDS]->(p)
		SET f.count = row.count, f.combine = row.combine
	`, map[string]any{"rows": feedRows(feeds)}); err != nil {
		return fmt.Errorf("upsert pseudo feeds: %w", err)
	}
	log.Info().Int("feeds", len(feeds)).Msg("Seeded pseudo feeds")

	if _, err := session.Run(ctx, `
		UNWIND $rows AS row
		MATCH (a:Stat {key: row.from})
		MATCH (b:Stat {key: row.to})
		MERGE (a)-[:INDISTINGUISHABLE_FROM]->(b)
	`, map[string]any{"rows": twinRows(twins)}); err != nil {
		log.Warn().Err(err).Msg("Failed to create indistinguishable edges")
	}

	log.Info().Int("twins", len(twins)).Msg("Seeded indistinguishable edges")
	return nil
}

// StatNodes lists every template of every stat type. The text is the first
// English phrasing.
func StatNodes(stats StatsProvider) []StatNode {
	var out []StatNode
	for _, typ := range item.StatTypes {
		for _, tpl := range stats.Provide(typ).Entries {
			n := StatNode{
				Key:     statKey(typ, tpl.TradeID),
				ID:      tpl.ID,
				TradeID: tpl.TradeID,
				Type:    typ,
			}
			if descs := tpl.Text[refdata.English]; len(descs) > 0 {
				n.Text = descs[0].Source
			}
			out = append(out, n)
		}
	}
	return out
}

// Feeds flattens pseudo definitions into one edge per source. Definitions
// read from an item property have no sources and give no edge.
func Feeds(modifiers []processor.PseudoModifier) []Feed {
	var out []Feed
	for _, m := range modifiers {
		required := max(m.Count, 1)
		for _, src := range m.Mods {
			count := src.Count
			if count == 0 {
				count = 1
			}
			out = append(out, Feed{
				Pseudo:   m.ID,
				Source:   src.ID,
				Type:     src.Type,
				Count:    count,
				Combine:  src.Combine.String(),
				Required: required,
			})
		}
	}
	return out
}

// Twins lists the indistinguishable pairs of every stat type.
func Twins(stats StatsProvider) []Twin {
	var out []Twin
	for _, typ := range item.StatTypes {
		for from, tos := range stats.Indistinguishable(typ) {
			for _, to := range tos {
				out = append(out, Twin{From: statKey(typ, from), To: statKey(typ, to)})
			}
		}
	}
	return out
}

func statKey(typ item.StatType, tradeID string) string {
	return string(typ) + "." + tradeID
}

func nodeRows(nodes []StatNode) []map[string]any {
	rows := make([]map[string]any, len(nodes))
	for i, n := range nodes {
		rows[i] = map[string]any{
			"key":     n.Key,
			"id":      n.ID,
			"tradeId": n.TradeID,
			"type":    string(n.Type),
			"text":    n.Text,
		}
	}
	return rows
}

func feedRows(feeds []Feed) []map[string]any {
	rows := make([]map[string]any, len(feeds))
	for i, f := range feeds {
		rows[i] = map[string]any{
			"pseudo":   f.Pseudo,
			"source":   f.Source,
			"type":     string(f.Type),
			"count":    f.Count,
			"combine":  f.Combine,
			"required": f.Required,
		}
	}
	return rows
}

func twinRows(twins []Twin) []map[string]any {
	rows := make([]map[string]any, len(twins))
	for i, t := range twins {
		rows[i] = map[string]any{"from": t.From, "to": t.To}
	}
	return rows
}
