package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/codexfield/codex-marketplace/internal/domain/ledger"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// recordingPayer accepts or rejects payments on demand.
type recordingPayer struct {
	reject bool
	paid   map[model.Account]uint64
}

func newRecordingPayer() *recordingPayer {
	return &recordingPayer{paid: make(map[model.Account]uint64)}
}

func (p *recordingPayer) Pay(ctx context.Context, to model.Account, amount uint64) error {
	if p.reject {
		return errors.New("recipient rejected transfer")
	}
	p.paid[to] += amount
	return nil
}

func TestLedger(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty ledger", t, func() {
		l := ledger.New()
		payer := newRecordingPayer()

		Convey("When crediting an account", func() {
			l.Credit(ctx, "alice", 90)
			l.Credit(ctx, "alice", 10)

			Convey("Then credits accumulate", func() {
				So(l.Balance(ctx, "alice"), ShouldEqual, 100)
				So(l.Outstanding(ctx), ShouldEqual, 100)
			})

			Convey("And claiming pays the full balance exactly once", func() {
				paid, err := l.Claim(ctx, "alice", payer)

				So(err, ShouldBeNil)
				So(paid, ShouldEqual, 100)
				So(payer.paid["alice"], ShouldEqual, 100)
				So(l.Balance(ctx, "alice"), ShouldEqual, 0)

				Convey("And a repeated claim fails with nothing owed", func() {
					_, err := l.Claim(ctx, "alice", payer)
					So(errors.Is(err, ledger.ErrNothingOwed), ShouldBeTrue)
					So(payer.paid["alice"], ShouldEqual, 100)
				})
			})

			Convey("And a failing payout rolls the balance back", func() {
				payer.reject = true
				_, err := l.Claim(ctx, "alice", payer)

				So(errors.Is(err, ledger.ErrClaimPayout), ShouldBeTrue)
				So(l.Balance(ctx, "alice"), ShouldEqual, 100)

				Convey("And the balance stays claimable once payouts recover", func() {
					payer.reject = false
					paid, err := l.Claim(ctx, "alice", payer)
					So(err, ShouldBeNil)
					So(paid, ShouldEqual, 100)
					So(l.Balance(ctx, "alice"), ShouldEqual, 0)
				})
			})
		})

		Convey("When claiming with no balance", func() {
			_, err := l.Claim(ctx, "nobody", payer)

			Convey("Then the claim is rejected", func() {
				So(errors.Is(err, ledger.ErrNothingOwed), ShouldBeTrue)
			})
		})

		Convey("When crediting zero", func() {
			l.Credit(ctx, "bob", 0)

			Convey("Then no balance appears", func() {
				So(l.Balance(ctx, "bob"), ShouldEqual, 0)
				So(l.Outstanding(ctx), ShouldEqual, 0)
			})
		})
	})
}
