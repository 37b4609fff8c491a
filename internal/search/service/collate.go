package service

import (
	"sort"

	"github.com/MartinEBravo/duech-go/internal/search/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a Spanish collator, so "ñ" sorts between "n" and "o"
// instead of after "z". Collators are not safe for concurrent use; create one
// per sort pass.
func newCollator() *collate.Collator {
	return collate.New(language.Spanish)
}

func sortValues(c *collate.Collator, vals []string) {
	c.SortStrings(vals)
}

func sortWordsByLemma(c *collate.Collator, words []model.Word) {
	sort.Slice(words, func(i, j int) bool {
		if cmp := c.CompareString(words[i].Lemma, words[j].Lemma); cmp != 0 {
			return cmp < 0
		}
		return words[i].ID < words[j].ID
	})
}
