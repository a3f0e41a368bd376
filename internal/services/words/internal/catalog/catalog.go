package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SnapScribe/app/internal/pkg/fn"
	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/model"
	"github.com/dgraph-io/ristretto/v2"
)

const (
	keyLanguages  = "languages"
	keyCategories = "categories"
	keyWords      = "words"
)

// Provider is the data-fetch layer the catalog reads from.
type Provider interface {
	Languages(ctx context.Context) ([]model.Language, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Words(ctx context.Context) ([]model.Word, error)
}

// wordWriter is implemented by providers that accept new words.
type wordWriter interface {
	InsertWord(ctx context.Context, w model.Word) (int64, error)
}

type Config struct {
	MaxKeys      int64
	MaxCost      int64
	ReferenceTTL time.Duration
	WordsTTL     time.Duration
}

// Catalog serves languages, categories and words from a provider, keeping
// recent results in a cache the way a client-side query cache would.
type Catalog struct {
	provider     Provider
	cache        *ristretto.Cache[string, any]
	referenceTTL time.Duration
	wordsTTL     time.Duration
}

func New(p Provider, cfg Config) *Catalog {
	c, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: max(cfg.MaxKeys, 1) * 10,
		MaxCost:     max(cfg.MaxCost, 1),
		BufferItems: 64,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create catalog cache: %v", err))
	}

	return &Catalog{
		provider:     p,
		cache:        c,
		referenceTTL: cfg.ReferenceTTL,
		wordsTTL:     cfg.WordsTTL,
	}
}

func (c *Catalog) Languages(ctx context.Context) ([]model.Language, error) {
	return cached(ctx, c, keyLanguages, c.referenceTTL, c.provider.Languages)
}

func (c *Catalog) Categories(ctx context.Context) ([]model.Category, error) {
	return cached(ctx, c, keyCategories, c.referenceTTL, c.provider.Categories)
}

func (c *Catalog) Words(ctx context.Context) ([]model.Word, error) {
	return cached(ctx, c, keyWords, c.wordsTTL, c.provider.Words)
}

// FilteredWords returns the words matching f.
func (c *Catalog) FilteredWords(ctx context.Context, f WordFilter) ([]model.Word, error) {
	words, err := c.Words(ctx)
	if err != nil {
		return nil, err
	}

	return FilterWords(words, f), nil
}

// Language resolves an ISO 639 code. An empty code resolves to the default
// language, which is the first supported one.
func (c *Catalog) Language(ctx context.Context, iso string) (model.Language, error) {
	langs, err := c.Languages(ctx)
	if err != nil {
		return model.Language{}, err
	}

	if iso == "" {
		if len(langs) == 0 {
			return model.Language{}, serr.NewServiceError(nil, http.StatusServiceUnavailable, "no supported languages")
		}
		return langs[0], nil
	}

	lang, ok := fn.Find(langs, func(l model.Language) bool { return l.ISO639 == iso })
	if !ok {
		return model.Language{}, serr.NewServiceError(nil, http.StatusBadRequest, "invalid language selected").With("iso639", iso)
	}

	return lang, nil
}

// Category looks up a category by ID.
func (c *Catalog) Category(ctx context.Context, id int64) (model.Category, error) {
	cats, err := c.Categories(ctx)
	if err != nil {
		return model.Category{}, err
	}

	cat, ok := fn.Find(cats, func(cat model.Category) bool { return cat.ID == id })
	if !ok {
		return model.Category{}, serr.NewServiceError(nil, http.StatusNotFound, "category not found").With("category_id", fmt.Sprint(id))
	}

	return cat, nil
}

// AddWord stores a new word if the provider is writable and drops the cached
// word list.
func (c *Catalog) AddWord(ctx context.Context, w model.Word) (int64, error) {
	ww, ok := c.provider.(wordWriter)
	if !ok {
		return 0, serr.NewServiceError(nil, http.StatusMethodNotAllowed, "catalog is read-only")
	}

	id, err := ww.InsertWord(ctx, w)
	if err != nil {
		return 0, fmt.Errorf("insert word: %w", err)
	}

	c.InvalidateWords()
	return id, nil
}

func (c *Catalog) InvalidateWords() {
	c.cache.Del(keyWords)
}

func (c *Catalog) Close() {
	c.cache.Close()
}

func cached[T any](ctx context.Context, c *Catalog, key string, ttl time.Duration, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if v, found := c.cache.Get(key); found {
		if items, ok := v.([]T); ok {
			return items, nil
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	if ttl > 0 {
		c.cache.SetWithTTL(key, items, 1, ttl)
	} else {
		c.cache.Set(key, items, 1)
	}
	c.cache.Wait()

	return items, nil
}
