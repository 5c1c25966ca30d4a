package store

import (
	"strings"

	"gorm.io/gorm"
)

// Fuzzy name/address matching is delegated to the pg_trgm extension when the
// store is Postgres. Off Postgres (the sqlite test database) the same
// trigram-similarity measure is computed in process so the duplicate gate and
// name search behave identically.

func usesTrigram(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// trigramSimilarity mirrors pg_trgm's similarity(): the number of shared
// trigrams divided by the number of distinct trigrams across both strings.
func trigramSimilarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

// trigrams extracts the distinct trigram set the way pg_trgm does: lowercase,
// words padded with two leading and one trailing space.
func trigrams(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, word := range strings.Fields(strings.ToLower(s)) {
		padded := "  " + word + " "
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			out[string(runes[i:i+3])] = struct{}{}
		}
	}
	return out
}
