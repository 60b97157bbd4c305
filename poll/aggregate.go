// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"sort"

	"github.com/danielhkuo/quickly-pick-live/models"
)

// Aggregate counts records for q. Every configured option is present in the
// result, with 0 when nobody chose it. Labels found in the ledger but not
// configured are still counted and listed after the configured ones.
//
// With DuplicateReplace only the latest record per session counts; with
// DuplicateAppend every record counts.
func Aggregate(q models.Question, recs []models.ResponseRecord, policy string) models.Tally {
	counted := recs
	if policy != models.DuplicateAppend {
		counted = latestPerSession(recs)
	}

	counts := make(map[string]int, len(q.Options))
	for _, opt := range q.Options {
		counts[opt.Label] = 0
	}

	total := 0
	for _, rec := range counted {
		if rec.Ordinal != q.Ordinal {
			continue
		}
		counts[rec.Option]++
		total++
	}

	options := make([]models.OptionCount, 0, len(counts))
	configured := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		configured[opt.Label] = true
		options = append(options, models.OptionCount{Label: opt.Label, Count: counts[opt.Label]})
	}
	extra := []string{}
	for label := range counts {
		if !configured[label] {
			extra = append(extra, label)
		}
	}
	sort.Strings(extra)
	for _, label := range extra {
		options = append(options, models.OptionCount{Label: label, Count: counts[label]})
	}

	return models.Tally{
		Ordinal: q.Ordinal,
		Title:   q.Title,
		Counts:  counts,
		Options: options,
		Total:   total,
	}
}

// latestPerSession keeps the last record for each (session, ordinal) pair,
// preserving ledger order of the survivors.
func latestPerSession(recs []models.ResponseRecord) []models.ResponseRecord {
	type key struct {
		session string
		ordinal int
	}
	last := make(map[key]int, len(recs))
	for i, rec := range recs {
		last[key{rec.SessionID, rec.Ordinal}] = i
	}

	out := make([]models.ResponseRecord, 0, len(last))
	for i, rec := range recs {
		if last[key{rec.SessionID, rec.Ordinal}] == i {
			out = append(out, rec)
		}
	}
	return out
}

// tallyFromCache builds a tally from the question table's cached counts.
// ok is false when any option has a cold cache.
func tallyFromCache(q models.Question) (models.Tally, bool) {
	if len(q.Options) == 0 {
		return models.Tally{}, false
	}

	t := models.Tally{
		Ordinal: q.Ordinal,
		Title:   q.Title,
		Counts:  make(map[string]int, len(q.Options)),
		Options: make([]models.OptionCount, 0, len(q.Options)),
		Cached:  true,
	}
	for _, opt := range q.Options {
		if opt.Count == nil {
			return models.Tally{}, false
		}
		t.Counts[opt.Label] = *opt.Count
		t.Options = append(t.Options, models.OptionCount{Label: opt.Label, Count: *opt.Count})
		t.Total += *opt.Count
	}
	return t, true
}
