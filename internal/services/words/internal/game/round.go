package game

import (
	"math/rand/v2"

	"github.com/SnapScribe/app/internal/services/words/internal/model"
)

type Slot int

const (
	SlotNone Slot = 0
	Slot1    Slot = 1
	Slot2    Slot = 2
)

// RoundChoice is one flashcard: the prompt word's image and two labels, exactly
// one of which is the prompt's name.
type RoundChoice struct {
	Word   string `json:"word"`
	Image  string `json:"image"`
	Guess1 string `json:"guess1"`
	Guess2 string `json:"guess2"`
}

// CorrectSlot returns the slot holding the prompt's name.
func (r RoundChoice) CorrectSlot() Slot {
	switch r.Word {
	case r.Guess1:
		return Slot1
	case r.Guess2:
		return Slot2
	}
	return SlotNone
}

// Quiz is a learn-mode round with up to three shuffled options.
type Quiz struct {
	Prompt  model.Word `json:"prompt"`
	Options []string   `json:"options"`
}

// Generator draws rounds from a word pool. It is not safe for concurrent use
// because *rand.Rand is not.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng}
}

// NextRound builds a two-choice round. It returns false when the pool has
// fewer than two distinct names.
func (g *Generator) NextRound(words []model.Word, seen SeenSet, avoid string) (RoundChoice, bool) {
	prompt, ok := g.pickPrompt(words, seen, avoid)
	if !ok {
		return RoundChoice{}, false
	}

	distractor := g.pickDistractors(words, prompt.Name, 1)[0]

	r := RoundChoice{
		Word:  prompt.Name,
		Image: prompt.Image,
	}
	if g.rng.IntN(2) == 0 {
		r.Guess1, r.Guess2 = prompt.Name, distractor
	} else {
		r.Guess1, r.Guess2 = distractor, prompt.Name
	}

	return r, true
}

// NextQuiz builds a round with min(maxOptions, distinct names) options, at
// least two.
func (g *Generator) NextQuiz(words []model.Word, seen SeenSet, avoid string, maxOptions int) (Quiz, bool) {
	prompt, ok := g.pickPrompt(words, seen, avoid)
	if !ok {
		return Quiz{}, false
	}

	maxOptions = max(maxOptions, 2)
	options := append(g.pickDistractors(words, prompt.Name, maxOptions-1), prompt.Name)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Quiz{Prompt: prompt, Options: options}, true
}

func (g *Generator) pickPrompt(words []model.Word, seen SeenSet, avoid string) (model.Word, bool) {
	if distinctNames(words) < 2 {
		return model.Word{}, false
	}

	var pool []model.Word
	for _, w := range words {
		if !seen.Has(w.Name) {
			pool = append(pool, w)
		}
	}
	if len(pool) == 0 {
		pool = words
	}

	if avoid != "" {
		var filtered []model.Word
		for _, w := range pool {
			if w.Name != avoid {
				filtered = append(filtered, w)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	return pool[g.rng.IntN(len(pool))], true
}

// pickDistractors draws up to n distinct names other than prompt without
// replacement.
func (g *Generator) pickDistractors(words []model.Word, prompt string, n int) []string {
	var names []string
	taken := map[string]bool{prompt: true}
	for _, w := range words {
		if !taken[w.Name] {
			taken[w.Name] = true
			names = append(names, w.Name)
		}
	}

	g.rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})

	return names[:min(n, len(names))]
}
