package blocks

import (
	"errors"
	"math/rand"
	"sync"
)

// Bag is one shuffled permutation of all seven kinds.
type Bag [KindCount]PieceKind

// ErrInvalidBag is returned when a bag is not a permutation of the seven kinds.
var ErrInvalidBag = errors.New("blocks: bag is not a permutation of the seven kinds")

// Validate checks that b holds every kind exactly once.
func (b Bag) Validate() error {
	var seen [KindCount]bool
	for _, k := range b {
		if !k.Valid() || seen[k] {
			return ErrInvalidBag
		}
		seen[k] = true
	}
	return nil
}

// Shuffle returns a uniformly random bag using a Fisher-Yates shuffle.
func Shuffle(rng *rand.Rand) Bag {
	bag := Bag(AllKinds)
	for i := len(bag) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}
	return bag
}

// BagSource supplies the index-th bag of a piece sequence.
// ok is false when the bag is not known yet.
type BagSource interface {
	NextBag(index int) (bag Bag, ok bool)
}

// RandomSource shuffles a fresh bag on every call.
// Used for solo play where no other participant needs the same sequence.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource creates a seeded source.
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

// NextBag implements BagSource.
func (s *RandomSource) NextBag(int) (Bag, bool) {
	return Shuffle(s.rng), true
}

// SharedSequence is the authoritative bag sequence of a match.
// Bag i is shuffled once, on first request, and then served verbatim to every
// board asking for index i. Each new bag is announced exactly once.
type SharedSequence struct {
	mu       sync.Mutex
	rng      *rand.Rand
	bags     []Bag
	announce func(index int, bag Bag)
}

// NewSharedSequence creates a sequence. announce may be nil.
func NewSharedSequence(seed int64, announce func(index int, bag Bag)) *SharedSequence {
	return &SharedSequence{
		rng:      rand.New(rand.NewSource(seed)),
		announce: announce,
	}
}

// NextBag implements BagSource.
func (s *SharedSequence) NextBag(index int) (Bag, bool) {
	if index < 0 {
		return Bag{}, false
	}
	s.mu.Lock()
	var fresh []Bag
	first := len(s.bags)
	for len(s.bags) <= index {
		b := Shuffle(s.rng)
		s.bags = append(s.bags, b)
		fresh = append(fresh, b)
	}
	bag := s.bags[index]
	announce := s.announce
	s.mu.Unlock()

	if announce != nil {
		for i, b := range fresh {
			announce(first+i, b)
		}
	}
	return bag, true
}

// Len returns the number of bags generated so far.
func (s *SharedSequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bags)
}

// ScriptedSource serves bags loaded from elsewhere, typically announced by
// the authoritative host. It never invents a shuffle: an unknown index
// reports ok=false and the caller has to wait.
type ScriptedSource struct {
	mu   sync.Mutex
	bags map[int]Bag
}

// NewScriptedSource creates a source preloaded with bags 0..len(bags)-1.
// Preloaded bags are served as given; only Load validates.
func NewScriptedSource(bags ...Bag) *ScriptedSource {
	s := &ScriptedSource{bags: make(map[int]Bag, len(bags))}
	for i, b := range bags {
		s.bags[i] = b
	}
	return s
}

// Load stores the bag at index. Invalid bags are rejected.
func (s *ScriptedSource) Load(index int, bag Bag) error {
	if err := bag.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.bags[index] = bag
	s.mu.Unlock()
	return nil
}

// NextBag implements BagSource.
func (s *ScriptedSource) NextBag(index int) (Bag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bags[index]
	return b, ok
}

// Len returns the number of loaded bags.
func (s *ScriptedSource) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bags)
}

// Queue is the piece queue of one board, refilled one bag at a time.
type Queue struct {
	src     BagSource
	pending []PieceKind
	refills int
}

// NewQueue creates an empty queue fed by src.
func NewQueue(src BagSource) *Queue {
	return &Queue{src: src}
}

// Refill appends the next bag from the source.
// It reports false when the source does not have that bag yet.
func (q *Queue) Refill() bool {
	bag, ok := q.src.NextBag(q.refills)
	if !ok {
		return false
	}
	q.pending = append(q.pending, bag[:]...)
	q.refills++
	return true
}

// Next dequeues a kind, refilling first if the queue is empty.
func (q *Queue) Next() (PieceKind, bool) {
	if len(q.pending) == 0 && !q.Refill() {
		return 0, false
	}
	k := q.pending[0]
	q.pending = q.pending[1:]
	return k, true
}

// Peek returns up to n upcoming kinds without consuming them.
// It refills as needed; fewer than n are returned if the source runs dry.
func (q *Queue) Peek(n int) []PieceKind {
	for len(q.pending) < n {
		if !q.Refill() {
			break
		}
	}
	n = min(n, len(q.pending))
	out := make([]PieceKind, n)
	copy(out, q.pending[:n])
	return out
}

// Len returns the number of queued kinds.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Refills returns how many bags have been appended.
func (q *Queue) Refills() int {
	return q.refills
}
