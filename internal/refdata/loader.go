package refdata

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"poe-overlay/internal/item"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

//go:embed assets/*.yaml
var assets embed.FS

const (
	clientStringsFile = "client_strings.yaml"
	statsFile         = "stats.yaml"
	baseItemTypesFile = "base_item_types.yaml"
	wordsFile         = "words.yaml"
)

// Data bundles every reference table. It is built once and shared
// read-only by the matcher, the parsers and the processors.
type Data struct {
	ClientStrings *ClientStrings
	Stats         *Stats
	BaseItemTypes *BaseItemTypes
	Words         *Words
}

type statTemplateDoc struct {
	Trade   string                         `yaml:"trade"`
	ID      string                         `yaml:"id"`
	Mod     string                         `yaml:"mod"`
	Negated bool                           `yaml:"negated"`
	Option  bool                           `yaml:"option"`
	Gen     string                         `yaml:"gen"`
	Related []string                       `yaml:"related"`
	Text    map[string][]map[string]string `yaml:"text"`
}

type statsDoc struct {
	Templates         map[string][]statTemplateDoc   `yaml:"templates"`
	Local             map[string]map[string]string   `yaml:"local"`
	Indistinguishable map[string]map[string][]string `yaml:"indistinguishable"`
}

type namedDoc struct {
	ID       string            `yaml:"id"`
	Category string            `yaml:"category"`
	Names    map[string]string `yaml:"names"`
}

var defaultData = sync.OnceValues(func() (*Data, error) {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		return nil, fmt.Errorf("open embedded assets: %w", err)
	}
	return Load(sub)
})

// Default returns the tables compiled into the binary.
func Default() (*Data, error) {
	return defaultData()
}

// LoadDir reads the tables from a directory laid out like the embedded
// assets.
func LoadDir(dir string) (*Data, error) {
	return Load(os.DirFS(dir))
}

// Load reads every table from fsys concurrently.
func Load(fsys fs.FS) (*Data, error) {
	var (
		g    errgroup.Group
		data Data
	)

	g.Go(func() error {
		var doc map[string]map[string]string
		if err := decode(fsys, clientStringsFile, &doc); err != nil {
			return err
		}
		table := make(map[Language]map[string]string, len(doc))
		for name, strs := range doc {
			lang, err := ParseLanguage(name)
			if err != nil {
				return fmt.Errorf("%s: %w", clientStringsFile, err)
			}
			table[lang] = strs
		}
		data.ClientStrings = NewClientStrings(table)
		return nil
	})

	g.Go(func() error {
		var doc statsDoc
		if err := decode(fsys, statsFile, &doc); err != nil {
			return err
		}
		stats, err := buildStats(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", statsFile, err)
		}
		data.Stats = stats
		return nil
	})

	g.Go(func() error {
		var doc []namedDoc
		if err := decode(fsys, baseItemTypesFile, &doc); err != nil {
			return err
		}
		entries := make([]*BaseItemType, 0, len(doc))
		for _, d := range doc {
			names, err := languageNames(d.Names)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", baseItemTypesFile, d.ID, err)
			}
			entries = append(entries, &BaseItemType{ID: d.ID, Category: item.Category(d.Category), Names: names})
		}
		data.BaseItemTypes = NewBaseItemTypes(entries)
		return nil
	})

	g.Go(func() error {
		var doc []namedDoc
		if err := decode(fsys, wordsFile, &doc); err != nil {
			return err
		}
		entries := make([]*Word, 0, len(doc))
		for _, d := range doc {
			names, err := languageNames(d.Names)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", wordsFile, d.ID, err)
			}
			entries = append(entries, &Word{ID: d.ID, Names: names})
		}
		data.Words = NewWords(entries)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("base_item_types", len(data.BaseItemTypes.index.entries)).
		Int("words", len(data.Words.index.entries)).
		Msg("Loaded reference data")
	return &data, nil
}

func decode(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func languageNames(in map[string]string) (map[Language]string, error) {
	out := make(map[Language]string, len(in))
	for name, text := range in {
		lang, err := ParseLanguage(name)
		if err != nil {
			return nil, err
		}
		out[lang] = text
	}
	return out, nil
}

func buildStats(doc statsDoc) (*Stats, error) {
	tables := make(map[item.StatType]*StatTable, len(doc.Templates))
	for typeName, docs := range doc.Templates {
		typ := item.StatType(typeName)
		entries := make([]*StatTemplate, 0, len(docs))
		for _, d := range docs {
			text := make(map[Language][]StatDesc, len(d.Text))
			for name, descs := range d.Text {
				lang, err := ParseLanguage(name)
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", typeName, d.Trade, err)
				}
				text[lang] = descsFromMaps(descs)
			}
			entries = append(entries, &StatTemplate{
				TradeID: d.Trade,
				ID:      d.ID,
				Mod:     StatMod(d.Mod),
				Negated: d.Negated,
				Option:  d.Option,
				GenType: item.StatGenType(d.Gen),
				Related: d.Related,
				Text:    text,
			})
		}
		tables[typ] = NewStatTable(typ, entries)
	}

	local := make(map[item.StatType]map[string]LocalFlag, len(doc.Local))
	for typeName, flags := range doc.Local {
		m := make(map[string]LocalFlag, len(flags))
		for tradeID, flag := range flags {
			m[tradeID] = LocalFlag(flag)
		}
		local[item.StatType(typeName)] = m
	}

	indistinguishable := make(map[item.StatType]map[string][]string, len(doc.Indistinguishable))
	for typeName, ids := range doc.Indistinguishable {
		indistinguishable[item.StatType(typeName)] = ids
	}
	return NewStats(tables, local, indistinguishable), nil
}
