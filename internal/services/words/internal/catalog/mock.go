package catalog

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/SnapScribe/app/internal/services/words/internal/model"
)

// MockDelays mirrors the latency of the real data endpoints.
type MockDelays struct {
	Languages  time.Duration
	Categories time.Duration
	Words      time.Duration
}

var DefaultMockDelays = MockDelays{
	Languages:  150 * time.Millisecond,
	Categories: 200 * time.Millisecond,
	Words:      420 * time.Millisecond,
}

// MockProvider serves the static catalog after an artificial delay.
type MockProvider struct {
	delays MockDelays
}

func NewMockProvider(delays MockDelays) *MockProvider {
	return &MockProvider{delays: delays}
}

func (p *MockProvider) Languages(ctx context.Context) ([]model.Language, error) {
	if err := sleep(ctx, p.delays.Languages); err != nil {
		return nil, err
	}
	return slices.Clone(mockLanguages), nil
}

func (p *MockProvider) Categories(ctx context.Context) ([]model.Category, error) {
	if err := sleep(ctx, p.delays.Categories); err != nil {
		return nil, err
	}
	return slices.Clone(mockCategories), nil
}

func (p *MockProvider) Words(ctx context.Context) ([]model.Word, error) {
	if err := sleep(ctx, p.delays.Words); err != nil {
		return nil, err
	}
	return slices.Clone(mockWords), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var mockLanguages = []model.Language{
	{ID: 1, ISO639: "en", Name: "English", Flag: "🇺🇸"},
	{ID: 2, ISO639: "es", Name: "Spanish", Flag: "🇪🇸"},
	{ID: 3, ISO639: "it", Name: "Italian", Flag: "🇮🇹"},
}

var mockCategories = []model.Category{
	{ID: 0, Name: "All", Emoji: "?"},
	{ID: 1, Name: "Furniture", Emoji: "🏠"},
	{ID: 2, Name: "Nature", Emoji: "🌿"},
	{ID: 3, Name: "Food", Emoji: "🍎"},
	{ID: 4, Name: "Animals", Emoji: "🦋"},
}

func mockWord(id int64, name, desc string, categoryID int64, createdAt int64) model.Word {
	return model.Word{
		ID:          id,
		Name:        name,
		Description: desc,
		Image:       "https://picsum.photos/seed/" + strings.ToLower(name) + "/350",
		LanguageID:  1,
		CategoryID:  categoryID,
		CreatedAt:   time.UnixMilli(createdAt).UTC(),
	}
}

var mockWords = []model.Word{
	mockWord(1, "Chair", "A piece of furniture you sit on", 1, 1754262574000),
	mockWord(2, "Oak", "A tree with large leaves that loses in winter whose wood is used to build furniture", 1, 1755731374000),
	mockWord(3, "River", "A natural flowing watercourse towards an ocean or sea", 1, 1756249774000),
	mockWord(4, "Lamp", "A device that produces light using electricity", 2, 1678934567890),
	mockWord(5, "Engineer", "A professional who designs and builds complex systems", 3, 1678945678901),
	mockWord(6, "Mountain", "A large natural elevation of the earth's surface", 1, 1678956789012),
	mockWord(7, "Sofa", "A long upholstered seat with a back and arms", 2, 1678967890123),
	mockWord(8, "Dolphin", "A highly intelligent marine mammal known for its playfulness", 1, 1678978901234),
	mockWord(9, "Chef", "A professional cook who prepares meals in restaurants", 3, 1678989012345),
	mockWord(10, "Bookshelf", "A piece of furniture with shelves for storing books", 2, 1679000123456),
	mockWord(11, "Butterfly", "A flying insect with colorful wings and a slender body", 1, 1679011234567),
	mockWord(12, "Artist", "A person who creates paintings or other works of art", 3, 1679022345678),
}
