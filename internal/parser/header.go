package parser

import (
	"strings"

	"poe-overlay/internal/item"
)

// requirementsParser reads the "Requirements:" block.
type requirementsParser struct {
	*labels
}

func (p *requirementsParser) Section() SectionID { return SectionRequirements }
func (p *requirementsParser) Optional() bool     { return true }

func (p *requirementsParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	section := exported.Find(func(s *item.Section) bool {
		return p.is("ItemDisplayStringRequirements", s.Lines[0])
	})
	if section == nil {
		return nil
	}

	req := &item.Requirements{}
	for _, line := range section.Lines[1:] {
		if v, ok := p.prefix("ItemDisplayStringLevel", line); ok {
			req.Level = int(item.ParseNumber(v))
		} else if v, ok := p.prefix("ItemDisplayStringStr", line); ok {
			req.Str = int(item.ParseNumber(v))
		} else if v, ok := p.prefix("ItemDisplayStringDex", line); ok {
			req.Dex = int(item.ParseNumber(v))
		} else if v, ok := p.prefix("ItemDisplayStringInt", line); ok {
			req.Int = int(item.ParseNumber(v))
		} else if v, ok := p.prefix("ItemDisplayStringClass", line); ok {
			req.Class = v
		}
	}
	target.Requirements = req
	return []*item.Section{section}
}

// noteParser reads the price note a player attached to the item.
type noteParser struct {
	*labels
}

func (p *noteParser) Section() SectionID { return SectionNote }
func (p *noteParser) Optional() bool     { return true }

func (p *noteParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	for _, s := range exported.Sections {
		if len(s.Lines) != 1 {
			continue
		}
		if note, ok := p.prefix("ItemDisplayStringNote", s.Lines[0]); ok {
			target.Note = note
			return []*item.Section{s}
		}
	}
	return nil
}

// itemLevelParser reads "Item Level: N".
type itemLevelParser struct {
	*labels
}

func (p *itemLevelParser) Section() SectionID { return SectionItemLevel }
func (p *itemLevelParser) Optional() bool     { return true }

func (p *itemLevelParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	for _, s := range exported.Sections {
		for _, line := range s.Lines {
			v, ok := p.prefix("ItemDisplayStringItemLevel", line)
			if !ok {
				continue
			}
			level := item.ParseValue(v, 0)
			target.Level = &level
			if len(s.Lines) == 1 {
				return []*item.Section{s}
			}
			return nil
		}
	}
	return nil
}

// socketsParser reads "Sockets: R-B-B G"; a dash links two sockets.
type socketsParser struct {
	*labels
}

func (p *socketsParser) Section() SectionID { return SectionSockets }
func (p *socketsParser) Optional() bool     { return true }

func (p *socketsParser) Parse(exported *item.ExportedItem, target *item.Item) []*item.Section {
	for _, s := range exported.Sections {
		if len(s.Lines) != 1 {
			continue
		}
		v, ok := p.prefix("ItemDisplayStringSockets", s.Lines[0])
		if !ok {
			continue
		}
		target.Sockets = parseSockets(v)
		return []*item.Section{s}
	}
	return nil
}

func parseSockets(text string) []item.Socket {
	var sockets []item.Socket
	for _, r := range strings.ToUpper(text) {
		switch r {
		case 'R', 'G', 'B', 'W', 'A':
			sockets = append(sockets, item.Socket{Color: item.SocketColor(r)})
		case '-':
			if n := len(sockets); n > 0 {
				sockets[n-1].Linked = true
			}
		}
	}
	return sockets
}
