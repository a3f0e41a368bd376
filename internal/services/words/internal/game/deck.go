package game

import (
	"errors"
	"slices"

	"github.com/SnapScribe/app/internal/services/words/internal/model"
)

var (
	ErrNoRound    = errors.New("no round in play")
	ErrNotOffered = errors.New("guess is not one of the offered options")
)

// QuizOptions is the number of options offered in learn mode.
const QuizOptions = 3

// Outcome reports how a round was answered.
type Outcome struct {
	Correct bool   `json:"correct"`
	Word    string `json:"word"`
	Answer  string `json:"answer"`
}

// Deck is the full state of one game: the filtered word pool, the seen set and
// the round currently on the table. It holds no randomness of its own, so it
// can be stored and restored between requests.
type Deck struct {
	Mode     model.GameMode `json:"mode"`
	Words    []model.Word   `json:"words"`
	Seen     SeenSet        `json:"seen"`
	Round    *RoundChoice   `json:"round,omitempty"`
	Quiz     *Quiz          `json:"quiz,omitempty"`
	Answered int            `json:"answered"`
	Correct  int            `json:"correct"`
}

func NewDeck(mode model.GameMode, words []model.Word) *Deck {
	return &Deck{
		Mode:  mode,
		Words: words,
		Seen:  NewSeenSet(),
	}
}

// Empty reports whether no round could be dealt.
func (d *Deck) Empty() bool {
	return d.Round == nil && d.Quiz == nil
}

// Deal puts the next round on the table, avoiding the given name if possible.
func (d *Deck) Deal(g *Generator, avoid string) bool {
	if d.Seen == nil {
		d.Seen = NewSeenSet()
	}
	d.Round, d.Quiz = nil, nil

	switch d.Mode {
	case model.ModeLearn:
		q, ok := g.NextQuiz(d.Words, d.Seen, avoid, QuizOptions)
		if ok {
			d.Quiz = &q
		}
		return ok
	default:
		r, ok := g.NextRound(d.Words, d.Seen, avoid)
		if ok {
			d.Round = &r
		}
		return ok
	}
}

// Answer resolves a flashcard round with the committed slot. It returns false
// when there is no flashcard round on the table.
func (d *Deck) Answer(g *Generator, slot Slot) (Outcome, bool) {
	if d.Round == nil || (slot != Slot1 && slot != Slot2) {
		return Outcome{}, false
	}

	r := *d.Round
	out := Outcome{
		Correct: slot == r.CorrectSlot(),
		Word:    r.Word,
		Answer:  r.Guess1,
	}
	if slot == Slot2 {
		out.Answer = r.Guess2
	}

	d.record(out)
	d.markSeen(r.Word)
	d.Deal(g, r.Word)
	return out, true
}

// Guess resolves a learn round with one of the offered options. Only correct
// guesses count towards coverage.
func (d *Deck) Guess(g *Generator, name string) (Outcome, error) {
	if d.Quiz == nil {
		return Outcome{}, ErrNoRound
	}
	if !slices.Contains(d.Quiz.Options, name) {
		return Outcome{}, ErrNotOffered
	}

	prompt := d.Quiz.Prompt.Name
	out := Outcome{
		Correct: name == prompt,
		Word:    prompt,
		Answer:  name,
	}

	d.record(out)
	if out.Correct {
		d.markSeen(prompt)
	}
	d.Deal(g, prompt)
	return out, nil
}

// Replace swaps the word pool, keeping seen names that are still present.
func (d *Deck) Replace(g *Generator, words []model.Word) {
	d.Words = words
	d.Seen.Retain(words)
	if d.Seen.Covers(words) {
		d.Seen = NewSeenSet()
	}
	d.Deal(g, "")
}

// Progress returns seen and total counts for display.
func (d *Deck) Progress() (seen, total int) {
	return d.Seen.Len(), len(d.Words)
}

func (d *Deck) record(out Outcome) {
	d.Answered++
	if out.Correct {
		d.Correct++
	}
}

func (d *Deck) markSeen(name string) {
	d.Seen.Add(name)
	if d.Seen.Covers(d.Words) {
		d.Seen = NewSeenSet()
	}
}
