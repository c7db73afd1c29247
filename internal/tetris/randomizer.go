package tetris

import (
	"fmt"
	"math/rand"
)

// Randomizer chooses the kind of each newly generated piece.
type Randomizer interface {
	Next() Kind
}

// Randomizer names accepted by NewRandomizer.
const (
	RandomizerUniform = "uniform"
	RandomizerBag     = "bag"
)

// Uniform draws each kind independently with equal probability.
// Long streaks of the same kind are possible.
type Uniform struct {
	rng *rand.Rand
}

// NewUniform creates a uniform randomizer over rng.
func NewUniform(rng *rand.Rand) *Uniform {
	return &Uniform{rng: rng}
}

// Next returns a kind drawn with replacement.
func (u *Uniform) Next() Kind {
	return Kinds[u.rng.Intn(len(Kinds))]
}

// Bag deals all seven kinds in shuffled order before refilling, so every
// kind appears once per seven pieces.
type Bag struct {
	rng  *rand.Rand
	bag  []Kind
	next int
}

// NewBag creates a 7-bag randomizer over rng.
func NewBag(rng *rand.Rand) *Bag {
	return &Bag{rng: rng}
}

// Next returns the next kind from the current bag, refilling when empty.
func (b *Bag) Next() Kind {
	if b.next >= len(b.bag) {
		b.refill()
	}
	k := b.bag[b.next]
	b.next++
	return k
}

func (b *Bag) refill() {
	b.bag = append(b.bag[:0], Kinds[:]...)
	b.rng.Shuffle(len(b.bag), func(i, j int) {
		b.bag[i], b.bag[j] = b.bag[j], b.bag[i]
	})
	b.next = 0
}

// RandomPiece draws a kind from r and returns a fresh piece at (x, y).
func RandomPiece(r Randomizer, x, y int) *Piece {
	return NewPiece(r.Next(), x, y)
}

// NewRandomizer returns the named randomizer seeded from seed.
// An empty name selects the uniform randomizer.
func NewRandomizer(name string, seed int64) (Randomizer, error) {
	rng := rand.New(rand.NewSource(seed))
	switch name {
	case "", RandomizerUniform:
		return NewUniform(rng), nil
	case RandomizerBag:
		return NewBag(rng), nil
	default:
		return nil, fmt.Errorf("tetris: unknown randomizer %q", name)
	}
}
