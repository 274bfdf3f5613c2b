package preprocess

import (
	"fmt"
	"sort"
)

// OneHotEncoder maps a category to a unit vector over a sorted vocabulary.
type OneHotEncoder struct {
	Categories []string `json:"categories"`
}

// FitOneHot builds the vocabulary from the observed values.
func FitOneHot(values []string) OneHotEncoder {
	seen := make(map[string]struct{}, 8)
	cats := make([]string, 0, 8)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		cats = append(cats, v)
	}
	sort.Strings(cats)
	return OneHotEncoder{Categories: cats}
}

func (e OneHotEncoder) Width() int { return len(e.Categories) }

// Index returns the position of category in the vocabulary.
func (e OneHotEncoder) Index(category string) (int, bool) {
	i := sort.SearchStrings(e.Categories, category)
	if i < len(e.Categories) && e.Categories[i] == category {
		return i, true
	}
	return 0, false
}

// EncodeInto writes the one-hot vector for category into dst, which must
// have length Width().
func (e OneHotEncoder) EncodeInto(dst []float64, category string) error {
	i, ok := e.Index(category)
	if !ok {
		return fmt.Errorf("%w: %q (known: %v)", ErrUnknownCategory, category, e.Categories)
	}
	for j := range dst {
		dst[j] = 0
	}
	dst[i] = 1
	return nil
}

func (e OneHotEncoder) validate() error {
	if len(e.Categories) == 0 {
		return fmt.Errorf("encoder has no categories")
	}
	for i := 1; i < len(e.Categories); i++ {
		if e.Categories[i-1] >= e.Categories[i] {
			return fmt.Errorf("encoder categories are not sorted and unique")
		}
	}
	return nil
}
