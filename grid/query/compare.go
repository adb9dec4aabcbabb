package query

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/arthur-debert/dispatchgrid/types"
)

// Comparator orders stringified cell values: numerically when both values
// are numbers, otherwise by case-insensitive, numeric-aware collation.
// A Comparator is not safe for concurrent use.
type Comparator struct {
	tag      language.Tag
	collator *collate.Collator
}

// NewComparator builds a comparator for a BCP 47 locale.
// Unparseable tags fall back to English.
func NewComparator(locale string) *Comparator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Comparator{
		tag:      tag,
		collator: collate.New(tag, collate.IgnoreCase, collate.Numeric),
	}
}

// Locale returns the collation language
func (c *Comparator) Locale() language.Tag { return c.tag }

// Compare returns -1, 0 or 1
func (c *Comparator) Compare(a, b string) int {
	if a != "" && b != "" {
		if x, ok := types.ParseNumber(a); ok {
			if y, ok := types.ParseNumber(b); ok {
				return cmp.Compare(x, y)
			}
		}
	}
	return c.collator.CompareString(a, b)
}

// OrderValues returns a filter menu: the blank value first, then the rest
// ascending numerically when every one is a number, else in collation
// order. Values equal under either ordering fall back to byte order so the
// menu is deterministic.
func (c *Comparator) OrderValues(set types.ValueSet) []string {
	values := make([]string, 0, len(set))
	blank := false
	numeric := true
	for v := range set {
		if v == "" {
			blank = true
			continue
		}
		if _, ok := types.ParseNumber(v); !ok {
			numeric = false
		}
		values = append(values, v)
	}

	slices.SortFunc(values, func(a, b string) int {
		var r int
		if numeric {
			x, _ := types.ParseNumber(a)
			y, _ := types.ParseNumber(b)
			r = cmp.Compare(x, y)
		} else {
			r = c.collator.CompareString(a, b)
		}
		if r != 0 {
			return r
		}
		return strings.Compare(a, b)
	})

	if blank {
		values = append([]string{""}, values...)
	}
	return values
}
