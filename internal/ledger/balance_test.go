package ledger

import (
	"sync"
	"testing"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

func TestBalanceBook_Reserve(t *testing.T) {
	tests := []struct {
		name          string
		defaultFunds  int64
		amount        int64
		expectedError error
	}{
		{
			name:         "reserve_within_balance",
			defaultFunds: 100,
			amount:       60,
		},
		{
			name:         "reserve_full_balance",
			defaultFunds: 100,
			amount:       100,
		},
		{
			name:          "reserve_over_balance",
			defaultFunds:  100,
			amount:        101,
			expectedError: auctionerrors.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := NewBalanceBook(tt.defaultFunds, nil)
			err := book.Reserve("bidder1", "session1", tt.amount)

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				available, reserved := book.Balance("bidder1")
				require.Equal(t, tt.defaultFunds, available, "failed reserve must not mutate state")
				require.Zero(t, reserved)
				return
			}

			require.NoError(t, err)
			available, reserved := book.Balance("bidder1")
			require.Equal(t, tt.defaultFunds-tt.amount, available)
			require.Equal(t, tt.amount, reserved)
		})
	}
}

func TestBalanceBook_ReserveReplacesHoldForSameSession(t *testing.T) {
	book := NewBalanceBook(100, nil)

	require.NoError(t, book.Reserve("bidder1", "session1", 40))
	require.NoError(t, book.Reserve("bidder1", "session1", 60))

	available, reserved := book.Balance("bidder1")
	require.Equal(t, int64(40), available)
	require.Equal(t, int64(60), reserved)

	// Shrinking the hold returns the difference.
	require.NoError(t, book.Reserve("bidder1", "session1", 10))
	available, reserved = book.Balance("bidder1")
	require.Equal(t, int64(90), available)
	require.Equal(t, int64(10), reserved)
}

func TestBalanceBook_Release(t *testing.T) {
	book := NewBalanceBook(100, nil)
	require.NoError(t, book.Reserve("bidder1", "session1", 70))

	amount, err := book.Release("bidder1", "session1")
	require.NoError(t, err)
	require.Equal(t, int64(70), amount)

	available, reserved := book.Balance("bidder1")
	require.Equal(t, int64(100), available)
	require.Zero(t, reserved)

	// A second release of the same hold is an integrity failure, not a no-op.
	_, err = book.Release("bidder1", "session1")
	require.ErrorIs(t, err, auctionerrors.ErrNoSuchReservation)
}

func TestBalanceBook_Commit(t *testing.T) {
	book := NewBalanceBook(100, nil)
	require.NoError(t, book.Reserve("bidder1", "session1", 70))

	amount, err := book.Commit("bidder1", "session1")
	require.NoError(t, err)
	require.Equal(t, int64(70), amount)

	available, reserved := book.Balance("bidder1")
	require.Equal(t, int64(30), available)
	require.Zero(t, reserved)
}

func TestBalanceBook_CommitWithoutReservation(t *testing.T) {
	book := NewBalanceBook(100, nil)

	_, err := book.Commit("bidder1", "session1")
	require.ErrorIs(t, err, auctionerrors.ErrNoSuchReservation)

	available, reserved := book.Balance("bidder1")
	require.Equal(t, int64(100), available)
	require.Zero(t, reserved)
}

// Balance conservation: available + reserved stays invariant across any
// reserve/release sequence that contains no commit.
func TestBalanceBook_ConservationUnderConcurrency(t *testing.T) {
	const defaultFunds = 1_000_000
	book := NewBalanceBook(defaultFunds, nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			sessionID := string(rune('a' + g))
			for i := 0; i < 500; i++ {
				if err := book.Reserve("bidder1", sessionID, int64(i%100+1)); err != nil {
					continue
				}
				_, _ = book.Release("bidder1", sessionID)
			}
		}(g)
	}
	wg.Wait()

	available, reserved := book.Balance("bidder1")
	require.Equal(t, int64(defaultFunds), available+reserved)
	require.Zero(t, reserved, "all holds were released")
}

func TestBalanceBook_StatsAndAchievements(t *testing.T) {
	book := NewBalanceBook(100, nil)

	book.RecordBid("bidder1")
	book.RecordBid("bidder1")
	book.RecordWin("bidder1", "item1", 40)

	stats := book.Stats("bidder1")
	require.Equal(t, 2, stats.BidsPlaced)
	require.Equal(t, 1, stats.AuctionsWon)
	require.Equal(t, int64(40), stats.TotalSpent)
	require.Equal(t, []string{"item1"}, stats.Roster)
	require.Equal(t, int64(100), stats.Available)

	book.AddUnlocked("bidder1", []string{"first_bid", "win_auction"})
	unlocked := book.Unlocked("bidder1")
	require.True(t, unlocked["first_bid"])
	require.True(t, unlocked["win_auction"])

	account := book.Account("bidder1")
	require.Equal(t, []string{"first_bid", "win_auction"}, account.Achievements)
}

func TestBalanceBook_LoaderHydratesFirstTouch(t *testing.T) {
	loader := func(bidderID string) (models.BidderAccount, error) {
		return models.BidderAccount{
			BidderID:     bidderID,
			Available:    55,
			Stats:        models.BidderStats{AuctionsWon: 3, Roster: []string{"item1"}},
			Achievements: []string{"win_auction"},
		}, nil
	}
	book := NewBalanceBook(100, loader)

	// The very first operation already sees the persisted balance, not the
	// default; a bid path touch cannot mint fresh credits.
	err := book.Reserve("bidder1", "session1", 60)
	require.ErrorIs(t, err, auctionerrors.ErrInsufficientBalance)
	require.NoError(t, book.Reserve("bidder1", "session1", 50))

	account := book.Account("bidder1")
	require.Equal(t, int64(5), account.Available)
	require.Equal(t, int64(50), account.Reserved)
	require.Equal(t, 3, account.Stats.AuctionsWon)
	require.Equal(t, []string{"item1"}, account.Stats.Roster)
	require.Equal(t, []string{"win_auction"}, account.Achievements)
}

func TestBalanceBook_LoaderMissFallsBackToDefault(t *testing.T) {
	loader := func(string) (models.BidderAccount, error) {
		return models.BidderAccount{}, auctionerrors.ErrBidderNotFound
	}
	book := NewBalanceBook(100, loader)

	available, reserved := book.Balance("bidder1")
	require.Equal(t, int64(100), available)
	require.Zero(t, reserved)
}

func TestBalanceBook_ConcurrentFirstTouchSettlesOnOneAccount(t *testing.T) {
	loader := func(string) (models.BidderAccount, error) {
		return models.BidderAccount{Available: 50}, nil
	}
	book := NewBalanceBook(100, loader)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = book.Reserve("bidder1", "session1", 5)
		}()
	}
	wg.Wait()

	available, reserved := book.Balance("bidder1")
	require.Equal(t, int64(45), available, "hydrated balance, single winning hold")
	require.Equal(t, int64(5), reserved)
}
