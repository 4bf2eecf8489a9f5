package favorites

import (
	"sort"
	"time"
)

// register holds the winning record seen so far for one identity key.
type register struct {
	action string
	paper  Paper
	at     time.Time
}

// projection folds events into a last-write-wins register per key. It is
// independent of storage, so it can be exercised without any file I/O. Scan
// order does not affect the outcome unless two records for one key carry
// the exact same timestamp, in which case the one applied later wins.
type projection struct {
	registers map[string]register
}

func newProjection() *projection {
	return &projection{registers: make(map[string]register)}
}

// apply folds one event into the projection. Events without an identity key
// or with an unrecognized action are ignored.
func (p *projection) apply(ev Event) {
	if ev.Action != ActionAdd && ev.Action != ActionRemove {
		return
	}

	key := ev.PaperID
	if key == "" {
		key = ev.Paper.Key()
	}
	if key == "" {
		return
	}

	at := ev.Time()
	if cur, ok := p.registers[key]; ok && at.Before(cur.at) {
		return
	}

	paper := ev.Paper
	if ev.Action == ActionAdd && paper == nil {
		paper = Paper{}
	}

	p.registers[key] = register{action: ev.Action, paper: paper, at: at}
}

// papers returns the current favorite set, most recently favorited first.
// Keys whose winning record is a remove are absent. Equal timestamps order
// by identity key, so output is stable across invocations.
func (p *projection) papers() []Paper {
	type entry struct {
		key   string
		paper Paper
		at    time.Time
	}

	entries := make([]entry, 0, len(p.registers))
	for key, reg := range p.registers {
		if reg.action != ActionAdd {
			continue
		}
		entries = append(entries, entry{key: key, paper: reg.paper, at: reg.at})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].at.Equal(entries[j].at) {
			return entries[i].at.After(entries[j].at)
		}
		return entries[i].key < entries[j].key
	})

	papers := make([]Paper, len(entries))
	for i, e := range entries {
		papers[i] = e.paper
	}
	return papers
}
