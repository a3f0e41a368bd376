package catalog

import (
	"strings"

	"github.com/SnapScribe/app/internal/services/words/internal/model"
)

// WordFilter narrows the word list. Zero values match everything.
type WordFilter struct {
	LanguageID int64
	CategoryID int64
	Query      string
}

func (f WordFilter) Active() bool {
	return normalizeQuery(f.Query) != "" || f.CategoryID != model.AllCategories
}

func FilterWords(words []model.Word, f WordFilter) []model.Word {
	q := normalizeQuery(f.Query)

	result := make([]model.Word, 0, len(words))
	for _, w := range words {
		if f.LanguageID != 0 && w.LanguageID != f.LanguageID {
			continue
		}
		if f.CategoryID != model.AllCategories && w.CategoryID != f.CategoryID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(w.Name), q) {
			continue
		}
		result = append(result, w)
	}

	return result
}

// SortCategories moves the selected category to the front, keeping the rest in order.
func SortCategories(cats []model.Category, selected int64) []model.Category {
	result := make([]model.Category, 0, len(cats))
	for _, c := range cats {
		if c.ID == selected {
			result = append(result, c)
		}
	}
	for _, c := range cats {
		if c.ID != selected {
			result = append(result, c)
		}
	}

	return result
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
