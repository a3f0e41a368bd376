package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"testing"
	"time"

	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/catalog"
	"github.com/SnapScribe/app/internal/services/words/internal/game"
	"github.com/SnapScribe/app/internal/services/words/internal/model"
	"github.com/SnapScribe/app/internal/services/words/internal/state"
	"github.com/stretchr/testify/require"
)

type mockWordSource struct {
	FilteredWordsFunc func(ctx context.Context, f catalog.WordFilter) ([]model.Word, error)
	LanguageFunc      func(ctx context.Context, iso string) (model.Language, error)
	CategoryFunc      func(ctx context.Context, id int64) (model.Category, error)
}

func (m *mockWordSource) FilteredWords(ctx context.Context, f catalog.WordFilter) ([]model.Word, error) {
	return m.FilteredWordsFunc(ctx, f)
}

func (m *mockWordSource) Language(ctx context.Context, iso string) (model.Language, error) {
	return m.LanguageFunc(ctx, iso)
}

func (m *mockWordSource) Category(ctx context.Context, id int64) (model.Category, error) {
	if m.CategoryFunc == nil {
		return model.Category{ID: id}, nil
	}
	return m.CategoryFunc(ctx, id)
}

type mockSettings struct {
	GetSettingsFunc func(ctx context.Context, userID string) (model.Settings, error)
}

func (m *mockSettings) GetSettings(ctx context.Context, userID string) (model.Settings, error) {
	return m.GetSettingsFunc(ctx, userID)
}

var (
	english = model.Language{ID: 1, ISO639: "en", Name: "English"}
	italian = model.Language{ID: 3, ISO639: "it", Name: "Italian"}
)

func languages(ctx context.Context, iso string) (model.Language, error) {
	switch iso {
	case "", "en":
		return english, nil
	case "it":
		return italian, nil
	}
	return model.Language{}, serr.NewServiceError(nil, http.StatusBadRequest, "invalid language selected")
}

func words(names ...string) []model.Word {
	res := make([]model.Word, len(names))
	for i, n := range names {
		res[i] = model.Word{ID: int64(i + 1), Name: n, Image: "img/" + n, LanguageID: 1, CategoryID: 1}
	}
	return res
}

func newMemory(t *testing.T) *state.Memory {
	t.Helper()

	mem, err := state.NewMemory(state.MemoryConfig{MaxKeys: 100, MaxBytes: 1 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })
	return mem
}

func seededGenerator() *game.Generator {
	return game.NewGenerator(rand.New(rand.NewPCG(7, 11)))
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	require.Error(t, err)
	var se *serr.ServiceError
	require.True(t, errors.As(err, &se), "expected service error, got %v", err)
	require.Equal(t, status, se.StatusCode)
}

func newGameService(t *testing.T, pool []model.Word) *GameService {
	t.Helper()

	src := &mockWordSource{
		LanguageFunc: languages,
		FilteredWordsFunc: func(ctx context.Context, f catalog.WordFilter) ([]model.Word, error) {
			return catalog.FilterWords(pool, f), nil
		},
	}
	settings := &mockSettings{
		GetSettingsFunc: func(ctx context.Context, userID string) (model.Settings, error) {
			return model.Settings{Theme: model.ThemeSystem, LanguageISO: "en"}, nil
		},
	}

	return NewGameService(newMemory(t), src, settings, seededGenerator(), time.Hour)
}
