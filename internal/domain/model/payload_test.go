package model

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSettlementPayload(t *testing.T) {
	Convey("Given the settlement payload codec", t, func() {
		Convey("An encoded payload decodes to the same record", func() {
			raw, err := EncodeSettlementPayload("alice", "bob", 100)
			So(err, ShouldBeNil)

			record, err := DecodeSettlementPayload(raw)
			So(err, ShouldBeNil)
			So(record.Owner, ShouldEqual, Account("alice"))
			So(record.Buyer, ShouldEqual, Account("bob"))
			So(record.Price, ShouldEqual, 100)
		})

		Convey("A payload of another kind is rejected", func() {
			_, err := DecodeSettlementPayload([]byte(`{"kind":"auction","owner":"a","buyer":"b","price":1}`))
			So(errors.Is(err, ErrBadPayload), ShouldBeTrue)
		})

		Convey("Garbage is rejected", func() {
			_, err := DecodeSettlementPayload([]byte("not json"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNotification(t *testing.T) {
	Convey("Given the notification constructor", t, func() {
		n := NewNotification(KindPurchase, "bob", 7, 100)

		Convey("It stamps an id, time, and the given fields", func() {
			So(n.ID, ShouldNotBeEmpty)
			So(n.Kind, ShouldEqual, KindPurchase)
			So(n.Actor, ShouldEqual, Account("bob"))
			So(n.GroupID, ShouldEqual, 7)
			So(n.Amount, ShouldEqual, 100)
			So(n.At.IsZero(), ShouldBeFalse)
		})
	})
}
