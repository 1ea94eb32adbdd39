package assistant

import (
	"context"
	"sort"
	"strings"
)

// Handler executes one command category. The utterance is the full
// transcribed text the category matched on; handlers may run their own
// nested listen operations on the shared capture device.
type Handler func(ctx context.Context, utterance string) error

// Category is one entry of the ordered command table.
type Category struct {
	// Key identifies the category; configuration extensions merge on it.
	Key string
	// Phrases are the accepted variants, matched by substring containment.
	Phrases []string
	// Handler runs when a phrase matches.
	Handler Handler
}

// buildCommandTable assembles the ordered command table: the session's
// built-in categories extended with configuration-supplied phrases.
// Extensions whose key matches a built-in category append variants to it;
// unknown keys become new categories appended after the built-ins, in
// sorted key order so the table stays deterministic.
func buildCommandTable(builtins []Category, custom map[string][]string) []Category {
	table := make([]Category, len(builtins))
	copy(table, builtins)

	index := make(map[string]int, len(table))
	for i, cat := range table {
		index[cat.Key] = i
	}

	extraKeys := make([]string, 0, len(custom))

	for key, phrases := range custom {
		if i, ok := index[key]; ok {
			table[i].Phrases = append(append([]string{}, table[i].Phrases...), phrases...)

			continue
		}

		extraKeys = append(extraKeys, key)
	}

	sort.Strings(extraKeys)

	for _, key := range extraKeys {
		table = append(table, Category{
			Key:     key,
			Phrases: custom[key],
		})
	}

	return table
}

// matchCategory returns the first category, in table order, with a phrase
// contained in the utterance. Matching is case-sensitive as transcribed.
func matchCategory(table []Category, utterance string) (*Category, bool) {
	if utterance == "" {
		return nil, false
	}

	for i := range table {
		for _, phrase := range table[i].Phrases {
			if strings.Contains(utterance, phrase) {
				return &table[i], true
			}
		}
	}

	return nil, false
}
