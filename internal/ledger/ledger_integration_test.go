//go:build integration

package ledger_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/dairy_shop/internal/ledger"
	"github.com/Skotchmaster/dairy_shop/internal/testutil"
)

func TestReserve_PostgresRowLock(t *testing.T) {
	db := testutil.NewPostgres(t)
	const initial = 50
	p := testutil.SeedProduct(t, db, "Toned Milk", "30", initial)
	l := ledger.New(5 * time.Second)

	var (
		wg       sync.WaitGroup
		reserved atomic.Int64
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(q int64) {
			defer wg.Done()
			if _, err := l.ReserveAndCommit(context.Background(), db, p.ID, q); err == nil {
				reserved.Add(q)
			} else {
				assert.ErrorIs(t, err, ledger.ErrInsufficientStock)
			}
		}(int64(i%4 + 1))
	}
	wg.Wait()

	final := testutil.StockOf(t, db, p.ID)
	assert.GreaterOrEqual(t, final, int64(0))
	assert.Equal(t, initial-reserved.Load(), final)
}

func TestReserve_PostgresLockTimeout(t *testing.T) {
	db := testutil.NewPostgres(t)
	p := testutil.SeedProduct(t, db, "Ghee", "550", 5)
	l := ledger.New(200 * time.Millisecond)
	ctx := context.Background()

	holding := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = db.Transaction(func(tx *gorm.DB) error {
			if _, err := l.Reserve(ctx, tx, p.ID, 1); err != nil {
				return err
			}
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	_, err := l.ReserveAndCommit(ctx, db, p.ID, 1)
	close(release)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ledger.ErrInsufficientStock)
}
