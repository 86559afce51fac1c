package consent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type seqIDGenerator struct {
	n int
}

func (g *seqIDGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("session-%d", g.n)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestRegistry(ttl time.Duration) (*SessionRegistry, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	factory := NewFactory(UnavailableStore(), WithSleeper(&fakeSleeper{}))
	return NewSessionRegistry(factory, ttl, &seqIDGenerator{}, clock), clock
}

func TestSessionRegistry_CreateAndGet(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)

	id1, c1 := r.Create()
	id2, c2 := r.Create()
	assert.Equal(t, "session-1", id1)
	assert.Equal(t, "session-2", id2)
	assert.NotSame(t, c1, c2)

	got, err := r.Get(id1)
	require.NoError(t, err)
	assert.Same(t, c1, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// セッションごとに状態は独立している
func TestSessionRegistry_SessionsAreIsolated(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)

	_, c1 := r.Create()
	_, c2 := r.Create()

	_, err := c1.UpdateField(FieldName, "홍길동")
	require.NoError(t, err)
	assert.Empty(t, c2.Snapshot().Draft.Name)
}

func TestSessionRegistry_ExpiresIdleSessions(t *testing.T) {
	r, clock := newTestRegistry(10 * time.Minute)

	id, _ := r.Create()

	clock.Advance(9 * time.Minute)
	_, err := r.Get(id)
	require.NoError(t, err)

	// Get で最終アクセスが更新される
	clock.Advance(9 * time.Minute)
	_, err = r.Get(id)
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	_, err = r.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, r.Len())
}

func TestSessionRegistry_Sweep(t *testing.T) {
	r, clock := newTestRegistry(10 * time.Minute)

	_, _ = r.Create()
	_, _ = r.Create()
	clock.Advance(5 * time.Minute)
	keep, _ := r.Create()

	clock.Advance(6 * time.Minute)
	assert.Equal(t, 2, r.Sweep())
	assert.Equal(t, 1, r.Len())

	_, err := r.Get(keep)
	assert.NoError(t, err)
}

func TestSessionRegistry_CreateSweepsExpired(t *testing.T) {
	r, clock := newTestRegistry(time.Minute)

	_, _ = r.Create()
	clock.Advance(2 * time.Minute)
	_, _ = r.Create()

	assert.Equal(t, 1, r.Len())
}

func TestSessionRegistry_Delete(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)

	id, _ := r.Create()
	r.Delete(id)

	_, err := r.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRegistry_DefaultTTL(t *testing.T) {
	r, _ := newTestRegistry(0)
	assert.Equal(t, DefaultSessionTTL, r.ttl)
}

func TestFactory_SubmitOnce(t *testing.T) {
	repo := new(MockConsentRepository)
	repo.On("Insert", mock.Anything, validRecord).Return(nil).Once()

	f := NewFactory(ConfiguredStore(repo), WithSleeper(&fakeSleeper{}))
	assert.True(t, f.StoreAvailable())

	snap, err := f.SubmitOnce(context.Background(), OneShotInput{
		Name:          "홍길동",
		Phone:         "010-1234-5678",
		DetailAddress: "101호",
		Agreed:        true,
		Lookup: &AddressResult{
			Address:      "테헤란로 1",
			AddressType:  AddressTypeRoad,
			Bname:        "역삼동",
			BuildingName: "타워",
			Zonecode:     "06234",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, snap.Status)
	repo.AssertExpectations(t)
}

func TestFactory_SubmitOnce_WithoutLookup(t *testing.T) {
	repo := new(MockConsentRepository)
	f := NewFactory(ConfiguredStore(repo))

	snap, err := f.SubmitOnce(context.Background(), OneShotInput{
		Name:   "홍길동",
		Phone:  "010",
		Agreed: true,
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, FieldErrors{Address: MsgAddressRequired}, snap.Errors)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
