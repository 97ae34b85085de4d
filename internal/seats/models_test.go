package seats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSeatEligibleForHold(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("available seat is eligible", func(t *testing.T) {
		seat := &Seat{Status: StatusAvailable}
		assert.True(t, seat.EligibleForHold(now))
	})

	t.Run("sold seat is never eligible", func(t *testing.T) {
		past := now.Add(-time.Hour)
		seat := &Seat{Status: StatusSold, ReservedUntil: &past}
		assert.False(t, seat.EligibleForHold(now))
	})

	t.Run("reserved seat with live hold is not eligible", func(t *testing.T) {
		until := now.Add(time.Second)
		seat := &Seat{Status: StatusReserved, ReservedUntil: &until}
		assert.False(t, seat.EligibleForHold(now))
	})

	t.Run("reserved seat with lapsed hold is eligible before the sweeper runs", func(t *testing.T) {
		until := now.Add(-time.Second)
		seat := &Seat{Status: StatusReserved, ReservedUntil: &until}
		assert.True(t, seat.EligibleForHold(now))
	})

	t.Run("hold expiring exactly now is still held", func(t *testing.T) {
		until := now
		seat := &Seat{Status: StatusReserved, ReservedUntil: &until}
		assert.False(t, seat.EligibleForHold(now))
	})
}

func TestSeatHoldLapsed(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("no hold stamp means not lapsed", func(t *testing.T) {
		seat := &Seat{Status: StatusAvailable}
		assert.False(t, seat.HoldLapsed(now))
	})

	t.Run("boundary around expiry instant", func(t *testing.T) {
		justBefore := now.Add(-time.Millisecond)
		justAfter := now.Add(time.Millisecond)

		lapsed := &Seat{Status: StatusReserved, ReservedUntil: &justBefore}
		assert.True(t, lapsed.HoldLapsed(now))

		live := &Seat{Status: StatusReserved, ReservedUntil: &justAfter}
		assert.False(t, live.HoldLapsed(now))
	})
}

func TestSortSeatIDs(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	c := uuid.MustParse("00000000-0000-0000-0000-000000000003")

	t.Run("sorts ascending", func(t *testing.T) {
		got := SortSeatIDs([]uuid.UUID{c, a, b})
		assert.Equal(t, []uuid.UUID{a, b, c}, got)
	})

	t.Run("deduplicates", func(t *testing.T) {
		got := SortSeatIDs([]uuid.UUID{b, a, b, a, c, c})
		assert.Equal(t, []uuid.UUID{a, b, c}, got)
	})

	t.Run("same order regardless of input permutation", func(t *testing.T) {
		first := SortSeatIDs([]uuid.UUID{a, c, b})
		second := SortSeatIDs([]uuid.UUID{c, b, a})
		assert.Equal(t, first, second)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SortSeatIDs(nil))
	})
}
