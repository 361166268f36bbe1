package zones

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
)

type recordingListener struct {
	events []string
}

func (r *recordingListener) Left(inst *card.Instance, from, to Kind) {
	r.events = append(r.events, "left:"+inst.ID+":"+from.String())
}

func (r *recordingListener) Entered(inst *card.Instance, from, to Kind) {
	r.events = append(r.events, "entered:"+inst.ID+":"+to.String())
}

func newTestSet(t *testing.T, n int) (*Set, []*card.Instance) {
	t.Helper()
	s := NewSet(zaptest.NewLogger(t))
	def := &card.Definition{Name: "Forest", Types: card.Types(0).With(card.TypeLand)}
	var cards []*card.Instance
	for i := 0; i < n; i++ {
		inst := card.NewInstance(string(rune('a'+i)), def)
		require.NoError(t, s.Add(inst, Library))
		cards = append(cards, inst)
	}
	return s, cards
}

func TestMove_Atomic(t *testing.T) {
	s, cards := newTestSet(t, 3)
	l := &recordingListener{}
	s.SetListener(l)

	require.NoError(t, s.Move(cards[0], Library, Battlefield))
	assert.Equal(t, []string{"left:a:library", "entered:a:battlefield"}, l.events)

	err := s.Move(cards[0], Hand, Graveyard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInZone))
	zone, ok := s.ZoneOf("a")
	require.True(t, ok)
	assert.Equal(t, Battlefield, zone, "failed move must not change anything")
	assert.Len(t, l.events, 2)
	require.NoError(t, s.Verify())
}

func TestDraw_LibraryEmpty(t *testing.T) {
	s, _ := newTestSet(t, 2)

	drawn, err := s.Draw(3)
	assert.True(t, errors.Is(err, ErrLibraryEmpty))
	assert.Len(t, drawn, 2)
	assert.Equal(t, 2, s.Len(Hand))
	assert.Equal(t, 0, s.Len(Library))
	require.NoError(t, s.Verify())
}

func TestDraw_TakesFromTop(t *testing.T) {
	s, cards := newTestSet(t, 3)

	drawn, err := s.Draw(1)
	require.NoError(t, err)
	assert.Same(t, cards[0], drawn[0])

	require.NoError(t, s.MoveToBottom(drawn[0], Hand))
	lib := s.Cards(Library)
	assert.Same(t, cards[0], lib[len(lib)-1])

	require.NoError(t, s.Move(cards[2], Library, Library))
	assert.Same(t, cards[2], s.Top(Library))
}

func TestMill(t *testing.T) {
	s, _ := newTestSet(t, 2)
	milled, err := s.Mill(5)
	require.NoError(t, err)
	assert.Len(t, milled, 2)
	assert.Equal(t, 2, s.Len(Graveyard))
}

func TestTokenCeasesToExist(t *testing.T) {
	s, _ := newTestSet(t, 1)
	l := &recordingListener{}
	s.SetListener(l)

	tok := card.NewToken("tok", ability.TokenSpec{Power: 1, Toughness: 1})
	require.NoError(t, s.CreateToken(tok))
	assert.Equal(t, 1, s.Len(Battlefield))

	require.NoError(t, s.Move(tok, Battlefield, Graveyard))
	assert.Equal(t, 0, s.Len(Graveyard))
	_, ok := s.ZoneOf("tok")
	assert.False(t, ok)
	assert.Equal(t, []string{"entered:tok:battlefield", "left:tok:battlefield"}, l.events)
	require.NoError(t, s.Verify())
	assert.Equal(t, 1, s.DecklistSize())
}

func TestAdd_Duplicate(t *testing.T) {
	s, cards := newTestSet(t, 1)
	err := s.Add(cards[0], Hand)
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestPartitionHoldsUnderRandomMoves(t *testing.T) {
	s, cards := newTestSet(t, 20)
	rng := rand.New(rand.NewPCG(7, 11))
	s.Shuffle(rng)

	for i := 0; i < 500; i++ {
		inst := cards[rng.IntN(len(cards))]
		from, _ := s.ZoneOf(inst.ID)
		to := Kind(rng.IntN(int(numKinds)))
		require.NoError(t, s.Move(inst, from, to))
		require.NoError(t, s.Verify())
	}

	total := 0
	for _, n := range s.Counts() {
		total += n
	}
	assert.Equal(t, 20, total)
}
