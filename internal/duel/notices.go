package duel

import (
	"github.com/vovakirdan/blockduel/internal/blocks"
	"github.com/vovakirdan/blockduel/internal/core"
)

// GarbageNotice reports rows owed to Target after an opponent's clear.
type GarbageNotice struct {
	Target core.PlayerID `json:"target"`
	Rows   int           `json:"rows"`
}

// BagNotice publishes one bag of the shared sequence, in dequeue order.
type BagNotice struct {
	Index int      `json:"index"`
	Kinds []string `json:"kinds"`
}

// NewBagNotice encodes a bag.
func NewBagNotice(index int, bag blocks.Bag) BagNotice {
	kinds := make([]string, len(bag))
	for i, k := range bag {
		kinds[i] = k.String()
	}
	return BagNotice{Index: index, Kinds: kinds}
}

// Bag decodes the notice. It fails unless the kinds form a full bag.
func (n BagNotice) Bag() (blocks.Bag, error) {
	var bag blocks.Bag
	if len(n.Kinds) != blocks.KindCount {
		return bag, blocks.ErrInvalidBag
	}
	for i, name := range n.Kinds {
		k, ok := blocks.ParseKind(name)
		if !ok {
			return bag, blocks.ErrInvalidBag
		}
		bag[i] = k
	}
	return bag, bag.Validate()
}

// LinesNotice reports a line clear and the points it scored.
type LinesNotice struct {
	Side   core.PlayerID `json:"side"`
	Lines  int           `json:"lines"`
	Points int           `json:"points"`
}

// ToppedOutNotice reports that Side could not spawn.
type ToppedOutNotice struct {
	Side core.PlayerID `json:"side"`
}

// AbandonedNotice reports that Side left the match.
type AbandonedNotice struct {
	Side core.PlayerID `json:"side"`
}

func (GarbageNotice) IsGameNotice()   {}
func (BagNotice) IsGameNotice()       {}
func (LinesNotice) IsGameNotice()     {}
func (ToppedOutNotice) IsGameNotice() {}
func (AbandonedNotice) IsGameNotice() {}
