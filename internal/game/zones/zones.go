// Package zones owns the card instances of one trial. Every instance is in
// exactly one zone; Move is the only way to change that.
package zones

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/goldfish/internal/game/card"
)

// Kind names a zone.
type Kind int

const (
	Library Kind = iota
	Hand
	Battlefield
	Graveyard
	Exile
	Command
	Stack
	numKinds
)

var kindNames = [numKinds]string{"library", "hand", "battlefield", "graveyard", "exile", "command", "stack"}

func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("ZONE_%d", int(k))
}

var (
	// ErrNotInZone is a zone invariant violation: the card is not where the
	// caller claims it is.
	ErrNotInZone = errors.New("card not in source zone")
	// ErrLibraryEmpty is returned when a required draw finds no card.
	ErrLibraryEmpty = errors.New("library empty")
	// ErrPartition reports a broken partition of instances over zones.
	ErrPartition = errors.New("zone partition violated")
	// ErrDuplicate is returned when an instance is added twice.
	ErrDuplicate = errors.New("instance already tracked")
)

// Listener observes zone changes. Left runs after the card is removed from
// its old zone and Entered after it is inserted into the new one.
type Listener interface {
	Left(inst *card.Instance, from, to Kind)
	Entered(inst *card.Instance, from, to Kind)
}

// Shuffler is the subset of *rand.Rand used to shuffle the library.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Set is the full set of zones for one trial. The library is ordered with
// the top card first; other zones keep insertion order.
type Set struct {
	logger   *zap.Logger
	zones    [numKinds][]*card.Instance
	where    map[string]Kind
	decklist map[string]struct{}
	listener Listener
}

// NewSet creates empty zones.
func NewSet(logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Set{
		logger:   logger,
		where:    make(map[string]Kind),
		decklist: make(map[string]struct{}),
	}
}

// SetListener installs the zone change observer.
func (s *Set) SetListener(l Listener) {
	s.listener = l
}

// Add places a decklist card into a zone at setup time. It does not notify
// the listener.
func (s *Set) Add(inst *card.Instance, to Kind) error {
	if _, ok := s.where[inst.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, inst)
	}
	s.zones[to] = append(s.zones[to], inst)
	s.where[inst.ID] = to
	if !inst.Token {
		s.decklist[inst.ID] = struct{}{}
	}
	return nil
}

// CreateToken puts a new token onto the battlefield and notifies the
// listener. Tokens are not part of the decklist.
func (s *Set) CreateToken(inst *card.Instance) error {
	if !inst.Token {
		return fmt.Errorf("%s is not a token", inst)
	}
	if _, ok := s.where[inst.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, inst)
	}
	s.zones[Battlefield] = append(s.zones[Battlefield], inst)
	s.where[inst.ID] = Battlefield
	if s.listener != nil {
		s.listener.Entered(inst, Stack, Battlefield)
	}
	return nil
}

// Move moves inst from one zone to another. It fails without side effects
// when inst is not currently in from. A token that leaves the battlefield
// ceases to exist after the listener has seen it leave.
func (s *Set) Move(inst *card.Instance, from, to Kind) error {
	return s.move(inst, from, to, false)
}

// MoveToBottom moves inst to the bottom of the library.
func (s *Set) MoveToBottom(inst *card.Instance, from Kind) error {
	return s.move(inst, from, Library, true)
}

func (s *Set) move(inst *card.Instance, from, to Kind, bottom bool) error {
	if inst == nil {
		return fmt.Errorf("%w: nil card", ErrNotInZone)
	}
	if at, ok := s.where[inst.ID]; !ok || at != from {
		return fmt.Errorf("%w: %s is not in %s", ErrNotInZone, inst, from)
	}
	idx := s.index(from, inst.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s indexed in %s but missing", ErrNotInZone, inst, from)
	}

	s.zones[from] = append(s.zones[from][:idx], s.zones[from][idx+1:]...)
	delete(s.where, inst.ID)
	if s.listener != nil {
		s.listener.Left(inst, from, to)
	}

	if inst.Token && from == Battlefield && to != Battlefield {
		s.logger.Debug("token ceased to exist",
			zap.String("card", inst.Name()),
			zap.String("card_id", inst.ID),
			zap.String("to", to.String()),
		)
		return nil
	}

	if to == Library && !bottom {
		s.zones[to] = append([]*card.Instance{inst}, s.zones[to]...)
	} else {
		s.zones[to] = append(s.zones[to], inst)
	}
	s.where[inst.ID] = to

	s.logger.Debug("card moved",
		zap.String("card", inst.Name()),
		zap.String("card_id", inst.ID),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)

	if s.listener != nil {
		s.listener.Entered(inst, from, to)
	}
	return nil
}

func (s *Set) index(k Kind, id string) int {
	for i, c := range s.zones[k] {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Draw moves n cards from the top of the library to the hand. If the
// library runs out it returns the cards drawn so far and ErrLibraryEmpty.
func (s *Set) Draw(n int) ([]*card.Instance, error) {
	drawn := make([]*card.Instance, 0, n)
	for i := 0; i < n; i++ {
		top := s.Top(Library)
		if top == nil {
			return drawn, ErrLibraryEmpty
		}
		if err := s.Move(top, Library, Hand); err != nil {
			return drawn, err
		}
		drawn = append(drawn, top)
	}
	return drawn, nil
}

// Mill moves up to n cards from the top of the library to the graveyard.
// Milling an empty library is not an error.
func (s *Set) Mill(n int) ([]*card.Instance, error) {
	milled := make([]*card.Instance, 0, n)
	for i := 0; i < n; i++ {
		top := s.Top(Library)
		if top == nil {
			break
		}
		if err := s.Move(top, Library, Graveyard); err != nil {
			return milled, err
		}
		milled = append(milled, top)
	}
	return milled, nil
}

// Shuffle randomizes the library.
func (s *Set) Shuffle(r Shuffler) {
	lib := s.zones[Library]
	r.Shuffle(len(lib), func(i, j int) { lib[i], lib[j] = lib[j], lib[i] })
}

// Top returns the top card of a zone or nil.
func (s *Set) Top(k Kind) *card.Instance {
	if len(s.zones[k]) == 0 {
		return nil
	}
	return s.zones[k][0]
}

// Cards returns a copy of the zone's contents.
func (s *Set) Cards(k Kind) []*card.Instance {
	out := make([]*card.Instance, len(s.zones[k]))
	copy(out, s.zones[k])
	return out
}

// Len returns the number of cards in a zone.
func (s *Set) Len(k Kind) int {
	return len(s.zones[k])
}

// ZoneOf returns the zone holding the instance with id.
func (s *Set) ZoneOf(id string) (Kind, bool) {
	k, ok := s.where[id]
	return k, ok
}

// Get finds an instance by ID in any zone.
func (s *Set) Get(id string) *card.Instance {
	k, ok := s.where[id]
	if !ok {
		return nil
	}
	if idx := s.index(k, id); idx >= 0 {
		return s.zones[k][idx]
	}
	return nil
}

// Counts returns the number of cards per zone, keyed by zone name.
func (s *Set) Counts() map[string]int {
	out := make(map[string]int, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out[k.String()] = len(s.zones[k])
	}
	return out
}

// Verify checks that every decklist instance is in exactly one zone, that
// no instance appears twice and that the index agrees with the contents.
func (s *Set) Verify() error {
	seen := make(map[string]Kind, len(s.where))
	for k := Kind(0); k < numKinds; k++ {
		for _, inst := range s.zones[k] {
			if prev, dup := seen[inst.ID]; dup {
				return fmt.Errorf("%w: %s in both %s and %s", ErrPartition, inst, prev, k)
			}
			seen[inst.ID] = k
			if at, ok := s.where[inst.ID]; !ok || at != k {
				return fmt.Errorf("%w: %s found in %s but indexed in %s", ErrPartition, inst, k, at)
			}
		}
	}
	if len(seen) != len(s.where) {
		return fmt.Errorf("%w: index has %d entries, zones hold %d", ErrPartition, len(s.where), len(seen))
	}
	for id := range s.decklist {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: decklist card %s missing", ErrPartition, id)
		}
	}
	return nil
}

// DecklistSize returns the number of non-token instances tracked.
func (s *Set) DecklistSize() int {
	return len(s.decklist)
}
