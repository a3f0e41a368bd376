package game

import (
	"testing"

	"github.com/SnapScribe/app/internal/services/words/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeck_AnswerCorrectAndWrong(t *testing.T) {
	g := seeded()
	d := NewDeck(model.ModeFlashcards, wordsNamed("Chair", "Oak", "River"))
	require.True(t, d.Deal(g, ""))

	r := *d.Round
	out, ok := d.Answer(g, r.CorrectSlot())
	require.True(t, ok)
	assert.True(t, out.Correct)
	assert.Equal(t, r.Word, out.Word)
	assert.True(t, d.Seen.Has(r.Word))

	r = *d.Round
	wrong := Slot1
	if r.CorrectSlot() == Slot1 {
		wrong = Slot2
	}
	out, ok = d.Answer(g, wrong)
	require.True(t, ok)
	assert.False(t, out.Correct)

	assert.Equal(t, 2, d.Answered)
	assert.Equal(t, 1, d.Correct)
}

func TestDeck_WrongAnswerStillMarksSeen(t *testing.T) {
	g := seeded()
	d := NewDeck(model.ModeFlashcards, wordsNamed("Chair", "Oak", "River"))
	require.True(t, d.Deal(g, ""))

	r := *d.Round
	wrong := Slot2
	if r.CorrectSlot() == Slot2 {
		wrong = Slot1
	}

	_, ok := d.Answer(g, wrong)
	require.True(t, ok)
	assert.True(t, d.Seen.Has(r.Word))
}

func TestDeck_CoverageWraps(t *testing.T) {
	g := seeded()
	words := wordsNamed("Chair", "Oak", "River", "Lamp", "Engineer")
	d := NewDeck(model.ModeFlashcards, words)
	require.True(t, d.Deal(g, ""))

	prompts := map[string]bool{}
	for range len(words) {
		prompts[d.Round.Word] = true
		_, ok := d.Answer(g, Slot1)
		require.True(t, ok)
	}

	assert.Len(t, prompts, len(words))
	assert.Equal(t, 0, d.Seen.Len())
}

func TestDeck_EveryWordEventuallyPrompted(t *testing.T) {
	g := seeded()
	words := wordsNamed("Chair", "Oak", "River", "Lamp", "Engineer", "Mountain", "Dolphin")
	d := NewDeck(model.ModeFlashcards, words)
	require.True(t, d.Deal(g, ""))

	counts := map[string]int{}
	for range 10 * len(words) {
		counts[d.Round.Word]++
		_, ok := d.Answer(g, Slot2)
		require.True(t, ok)
		assert.LessOrEqual(t, d.Seen.Len(), len(words))
	}

	for _, w := range words {
		assert.Equal(t, 10, counts[w.Name], w.Name)
	}
}

func TestDeck_EmptyIsInert(t *testing.T) {
	g := seeded()
	d := NewDeck(model.ModeFlashcards, wordsNamed("Chair"))

	assert.False(t, d.Deal(g, ""))
	assert.True(t, d.Empty())

	_, ok := d.Answer(g, Slot1)
	assert.False(t, ok)
	assert.Equal(t, 0, d.Answered)
}

func TestDeck_AnswerRejectsNoSlot(t *testing.T) {
	g := seeded()
	d := NewDeck(model.ModeFlashcards, wordsNamed("Chair", "Oak"))
	require.True(t, d.Deal(g, ""))

	_, ok := d.Answer(g, SlotNone)
	assert.False(t, ok)
}

func wrongOption(q *Quiz) string {
	for _, o := range q.Options {
		if o != q.Prompt.Name {
			return o
		}
	}
	return ""
}

func TestDeck_LearnOnlyCorrectMarksSeen(t *testing.T) {
	g := seeded()
	d := NewDeck(model.ModeLearn, wordsNamed("Chair", "Oak", "River", "Lamp"))
	require.True(t, d.Deal(g, ""))
	require.NotNil(t, d.Quiz)
	assert.Nil(t, d.Round)

	prompt := d.Quiz.Prompt.Name
	out, err := d.Guess(g, wrongOption(d.Quiz))
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.False(t, d.Seen.Has(prompt))
	assert.NotEqual(t, prompt, d.Quiz.Prompt.Name)

	prompt = d.Quiz.Prompt.Name
	out, err = d.Guess(g, prompt)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.True(t, d.Seen.Has(prompt))
}

func TestDeck_GuessRejectsUnofferedName(t *testing.T) {
	g := seeded()
	d := NewDeck(model.ModeLearn, wordsNamed("Chair", "Oak", "River", "Lamp", "Bookshelf"))
	require.True(t, d.Deal(g, ""))
	quiz := *d.Quiz

	_, err := d.Guess(g, "definitely wrong")
	require.ErrorIs(t, err, ErrNotOffered)
	assert.Equal(t, quiz.Prompt.Name, d.Quiz.Prompt.Name)
	assert.Equal(t, 0, d.Answered)
}

func TestDeck_GuessWithoutQuiz(t *testing.T) {
	g := seeded()
	d := NewDeck(model.ModeFlashcards, wordsNamed("Chair", "Oak"))
	require.True(t, d.Deal(g, ""))

	_, err := d.Guess(g, "Chair")
	require.ErrorIs(t, err, ErrNoRound)
}

func TestDeck_Replace(t *testing.T) {
	g := seeded()
	d := NewDeck(model.ModeFlashcards, wordsNamed("Chair", "Oak", "River"))
	d.Seen = NewSeenSet("Chair", "River")

	d.Replace(g, wordsNamed("Chair", "Lamp", "Bookshelf"))

	assert.Equal(t, []string{"Chair"}, d.Seen.Names())
	require.NotNil(t, d.Round)
	assert.NotEqual(t, "Chair", d.Round.Word)
}

func TestDeck_Progress(t *testing.T) {
	d := NewDeck(model.ModeFlashcards, wordsNamed("Chair", "Oak", "River"))
	d.Seen.Add("Oak")

	seen, total := d.Progress()
	assert.Equal(t, 1, seen)
	assert.Equal(t, 3, total)
}
