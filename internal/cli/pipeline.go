package cli

import (
	"context"
	"fmt"

	"poe-overlay/internal/cache"
	"poe-overlay/internal/config"
	"poe-overlay/internal/item"
	"poe-overlay/internal/parser"
	"poe-overlay/internal/processor"
	"poe-overlay/internal/refdata"
	"poe-overlay/internal/stats"

	"github.com/rs/zerolog/log"
)

// pipeline parses and post-processes item texts of one client language.
type pipeline struct {
	lang      refdata.Language
	data      *refdata.Data
	matcher   *stats.Service
	parser    *parser.ItemParserService
	processor *processor.ItemProcessorService
	opts      processor.Options
	cache     *cache.ItemCache
}

func loadData(cfg *config.Config) (*refdata.Data, error) {
	if cfg.DataDir != "" {
		log.Debug().Str("dir", cfg.DataDir).Msg("Loading reference data from directory")
		return refdata.LoadDir(cfg.DataDir)
	}
	return refdata.Default()
}

func newPipeline(cfg *config.Config, data *refdata.Data, itemCache *cache.ItemCache) (*pipeline, error) {
	lang, err := refdata.ParseLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}
	matcher := stats.NewService(data.ClientStrings, data.Stats)
	return &pipeline{
		lang:      lang,
		data:      data,
		matcher:   matcher,
		parser:    parser.NewItemParserService(parser.DepsFrom(data, matcher), lang),
		processor: processor.NewItemProcessorService(data.Stats),
		opts: processor.Options{
			NormalizeQuality:   cfg.NormalizeQuality,
			ClusterJewelRanges: cfg.ClusterJewelRanges,
		},
		cache: itemCache,
	}, nil
}

// Handle returns the processed item of text, reading and filling the cache.
func (p *pipeline) Handle(ctx context.Context, text string) (*item.Item, error) {
	if p.cache != nil {
		if it, ok := p.cache.Get(ctx, string(p.lang), text); ok {
			return it, nil
		}
	}

	it, err := p.parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse item: %w", err)
	}
	p.processor.Process(it, p.opts)

	if p.cache != nil {
		if err := p.cache.Set(ctx, string(p.lang), text, it); err != nil {
			log.Warn().Err(err).Msg("Failed to cache item")
		}
	}
	return it, nil
}

// Search runs the stat matcher alone over modifier lines.
func (p *pipeline) Search(texts []string) []stats.SearchResult {
	return p.matcher.SearchMultiple(texts, stats.SearchOptions{Language: p.lang})
}
