package processor

import (
	"poe-overlay/internal/item"
	"poe-overlay/internal/refdata"
)

// StatTemplates gives access to stat templates by type. The pseudo pass
// reads the pseudo table to build the stats it synthesizes.
type StatTemplates interface {
	Provide(typ item.StatType) *refdata.StatTable
}

// Options toggle the optional processing steps.
type Options struct {
	// NormalizeQuality rescales defences and damage to 20% quality.
	NormalizeQuality bool
	// ClusterJewelRanges widens cluster jewel passive counts and item level
	// into the buckets trade searches use.
	ClusterJewelRanges bool
}

// ItemProcessorService runs the post-parse processors in their fixed order:
// quality, damage, cluster jewel, modifier magnitude, pseudo.
type ItemProcessorService struct {
	pseudo *pseudoProcessor
}

// NewItemProcessorService wires the processors.
func NewItemProcessorService(templates StatTemplates) *ItemProcessorService {
	return &ItemProcessorService{
		pseudo: &pseudoProcessor{templates: templates, modifiers: pseudoModifiers},
	}
}

// Process updates it in place.
func (s *ItemProcessorService) Process(it *item.Item, opts Options) {
	if it == nil {
		return
	}
	processQuality(it, opts.NormalizeQuality)
	processDamage(it)
	if opts.ClusterJewelRanges {
		processClusterJewel(it)
	}
	processMagnitude(it)
	s.pseudo.process(it)
}
