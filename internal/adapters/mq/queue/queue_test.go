package queue

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory admission queue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing and dequeuing requests", func() {
			q := NewInMemoryQueue(WithCapacity(10), WithBufferSize(10))

			req := Request{RequestID: "r1", GroupID: 7, Member: "bob", Escrow: 110}
			So(q.Enqueue(ctx, req), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 1)

			out := q.Dequeue(ctx)
			select {
			case got := <-out:
				So(got.RequestID, ShouldEqual, "r1")
				So(got.GroupID, ShouldEqual, 7)
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for dequeue")
			}
		})

		Convey("When the queue is full", func() {
			q := NewInMemoryQueue(WithCapacity(2), WithBufferSize(2))

			So(q.Enqueue(ctx, Request{RequestID: "a"}), ShouldBeTrue)
			So(q.Enqueue(ctx, Request{RequestID: "b"}), ShouldBeTrue)

			Convey("Then further enqueues are rejected", func() {
				So(q.Enqueue(ctx, Request{RequestID: "c"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is closed", func() {
			q := NewInMemoryQueue(WithCapacity(4), WithBufferSize(4))
			So(q.Enqueue(ctx, Request{RequestID: "a"}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects enqueues", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, Request{RequestID: "b"}), ShouldBeFalse)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("Then the dequeue channel drains and closes", func() {
				out := q.Dequeue(ctx)
				select {
				case got := <-out:
					So(got.RequestID, ShouldEqual, "a")
				case <-time.After(time.Second):
					t.Fatal("timed out draining queue")
				}
				select {
				case _, ok := <-out:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for channel close")
				}
			})
		})
	})
}
