package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/codexfield/codex-marketplace/internal/adapters/bank"
	"github.com/codexfield/codex-marketplace/internal/adapters/http/api"
	"github.com/codexfield/codex-marketplace/internal/adapters/registry"
	service "github.com/codexfield/codex-marketplace/internal/app"
	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/pkg/logger"
)

const relayOrigin = model.Account("relay-origin")

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// capturingRelayer lets tests deliver settlement callbacks by hand.
type capturingRelayer struct {
	fee      uint64
	requests []model.AdmissionRequest
}

func (r *capturingRelayer) RelayFee(ctx context.Context) (uint64, error) {
	return r.fee, nil
}

func (r *capturingRelayer) SubmitAdmissionRequest(ctx context.Context, req model.AdmissionRequest) error {
	r.requests = append(r.requests, req)
	return nil
}

type env struct {
	mux      *http.ServeMux
	svc      *service.Service
	registry *registry.InMemoryRegistry
	bank     *bank.InMemoryBank
	relay    *capturingRelayer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	e := &env{
		mux:      http.NewServeMux(),
		registry: registry.NewInMemoryRegistry(),
		bank:     bank.NewInMemoryBank(),
		relay:    &capturingRelayer{fee: 10},
	}
	e.svc = service.New(
		service.WithIdentity("marketplace"),
		service.WithRegistry(e.registry),
		service.WithAdmitter(e.registry),
		service.WithBank(e.bank),
		service.WithRelayer(e.relay),
		service.WithTrustedRelayer(relayOrigin),
		service.WithFeeRateBps(1000),
	)
	if err := e.svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}

	server := api.NewServer(e.svc, e.svc, 100)
	server.Register(ctx, e.mux)
	return e
}

func (e *env) listGroup(t *testing.T, owner model.Account, groupID, price uint64) {
	t.Helper()
	ctx := context.Background()
	e.registry.SetOwner(ctx, groupID, owner)
	e.registry.GrantAdmissionRole(ctx, owner, "marketplace")
	if err := e.svc.List(ctx, owner, groupID, price); err != nil {
		t.Fatalf("list group %d: %v", groupID, err)
	}
}

func (e *env) settleAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, req := range e.relay.requests {
		if err := e.registry.Admit(ctx, req.Member, req.GroupID); err != nil {
			t.Fatalf("admit: %v", err)
		}
		if err := e.svc.OnSettlementResult(ctx, relayOrigin, model.SettlementSuccess, req.GroupID, req.Payload); err != nil {
			t.Fatalf("settle: %v", err)
		}
	}
	e.relay.requests = nil
}

func (e *env) do(method, path, account, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if account != "" {
		req.Header.Set("X-Market-Account", account)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func TestListingEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		e := newEnv(t)
		ctx := context.Background()
		e.registry.SetOwner(ctx, 1, "alice")
		e.registry.GrantAdmissionRole(ctx, "alice", "marketplace")

		Convey("POST /listings requires the account header", func() {
			rec := e.do(http.MethodPost, "/listings", "", `{"group_id":1,"price":100}`)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("POST /listings rejects malformed bodies", func() {
			rec := e.do(http.MethodPost, "/listings", "alice", `{`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST /listings creates a listing", func() {
			rec := e.do(http.MethodPost, "/listings", "alice", `{"group_id":1,"price":100}`)
			So(rec.Code, ShouldEqual, http.StatusCreated)

			Convey("GET /listings pages it back", func() {
				rec := e.do(http.MethodGet, "/listings", "", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				var page service.ListingPage
				So(json.Unmarshal(rec.Body.Bytes(), &page), ShouldBeNil)
				So(page.Total, ShouldEqual, 1)
				So(page.Listings[0].GroupID, ShouldEqual, 1)
			})

			Convey("GET /listings/{id} returns it", func() {
				rec := e.do(http.MethodGet, "/listings/1", "", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
			})

			Convey("Relisting conflicts", func() {
				rec := e.do(http.MethodPost, "/listings", "alice", `{"group_id":1,"price":100}`)
				So(rec.Code, ShouldEqual, http.StatusConflict)
			})

			Convey("POST /price by a stranger is forbidden", func() {
				rec := e.do(http.MethodPost, "/price", "mallory", `{"group_id":1,"price":50}`)
				So(rec.Code, ShouldEqual, http.StatusForbidden)
			})

			Convey("POST /delist removes it", func() {
				rec := e.do(http.MethodPost, "/delist", "alice", `{"group_id":1}`)
				So(rec.Code, ShouldEqual, http.StatusOK)
				rec = e.do(http.MethodGet, "/listings/1", "", "")
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("GET /listings/{id} rejects a malformed id", func() {
			rec := e.do(http.MethodGet, "/listings/abc", "", "")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET /listings rejects an oversized limit", func() {
			rec := e.do(http.MethodGet, "/listings?limit=1000", "", "")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestPurchaseEndpoints(t *testing.T) {
	Convey("Given a listed group at price 100 with relay fee 10", t, func() {
		e := newEnv(t)
		e.listGroup(t, "alice", 1, 100)

		Convey("POST /buy with insufficient payment is 402", func() {
			rec := e.do(http.MethodPost, "/buy", "bob", `{"group_id":1,"paid":50}`)
			So(rec.Code, ShouldEqual, http.StatusPaymentRequired)
		})

		Convey("POST /buy forwards and answers 202", func() {
			rec := e.do(http.MethodPost, "/buy", "bob", `{"group_id":1,"paid":110}`)
			So(rec.Code, ShouldEqual, http.StatusAccepted)
			So(len(e.relay.requests), ShouldEqual, 1)

			Convey("After settlement the purchase shows in history", func() {
				e.settleAll(t)
				rec := e.do(http.MethodGet, "/history?kind=purchased", "bob", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				var hist struct {
					IDs   []uint64 `json:"ids"`
					Total int      `json:"total"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &hist), ShouldBeNil)
				So(hist.IDs, ShouldResemble, []uint64{1})

				Convey("A repeat purchase conflicts", func() {
					rec := e.do(http.MethodPost, "/buy", "bob", `{"group_id":1,"paid":110}`)
					So(rec.Code, ShouldEqual, http.StatusConflict)
				})
			})
		})

		Convey("POST /buy/batch with a shortfall is 402", func() {
			rec := e.do(http.MethodPost, "/buy/batch", "bob", `{"group_ids":[1],"refund_address":"bob","paid":5}`)
			So(rec.Code, ShouldEqual, http.StatusPaymentRequired)
		})

		Convey("POST /buy on an unknown group is 404", func() {
			rec := e.do(http.MethodPost, "/buy", "bob", `{"group_id":9,"paid":110}`)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestEngagementAndFundsEndpoints(t *testing.T) {
	Convey("Given a listed group with a settled purchase", t, func() {
		e := newEnv(t)
		e.listGroup(t, "alice", 1, 100)
		rec := e.do(http.MethodPost, "/buy", "bob", `{"group_id":1,"paid":110}`)
		So(rec.Code, ShouldEqual, http.StatusAccepted)
		e.settleAll(t)

		Convey("POST /star succeeds once then conflicts", func() {
			So(e.do(http.MethodPost, "/star", "bob", `{"group_id":1}`).Code, ShouldEqual, http.StatusOK)
			So(e.do(http.MethodPost, "/star", "bob", `{"group_id":1}`).Code, ShouldEqual, http.StatusConflict)
		})

		Convey("POST /sponsor with zero amount is 400", func() {
			rec := e.do(http.MethodPost, "/sponsor", "bob", `{"group_id":1,"amount":0}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST /rate by a non-buyer is forbidden", func() {
			rec := e.do(http.MethodPost, "/rate", "carol", `{"group_id":1,"score":300}`)
			So(rec.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("POST /rate by the buyer updates the group score", func() {
			So(e.do(http.MethodPost, "/rate", "bob", `{"group_id":1,"score":300}`).Code, ShouldEqual, http.StatusOK)
			rec := e.do(http.MethodGet, "/groups/1/score", "", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			var summary service.RatingSummary
			So(json.Unmarshal(rec.Body.Bytes(), &summary), ShouldBeNil)
			So(summary.Count, ShouldEqual, 1)
			So(summary.Average, ShouldEqual, 300)
		})

		Convey("GET /leaderboard requires a known metric", func() {
			So(e.do(http.MethodGet, "/leaderboard", "", "").Code, ShouldEqual, http.StatusBadRequest)
			So(e.do(http.MethodGet, "/leaderboard?metric=bogus", "", "").Code, ShouldEqual, http.StatusBadRequest)
			So(e.do(http.MethodGet, "/leaderboard?metric=sales_revenue", "", "").Code, ShouldEqual, http.StatusOK)
		})

		Convey("Claim surfaces through the funds endpoints", func() {
			e.bank.Reject("alice", true)
			So(e.do(http.MethodPost, "/sponsor", "bob", `{"group_id":1,"amount":40}`).Code, ShouldEqual, http.StatusOK)

			rec := e.do(http.MethodGet, "/balance", "alice", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			var bal struct {
				Balance uint64 `json:"balance"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &bal), ShouldBeNil)
			So(bal.Balance, ShouldEqual, 40)

			So(e.do(http.MethodPost, "/claim", "alice", "").Code, ShouldEqual, http.StatusBadGateway)
			e.bank.Reject("alice", false)
			So(e.do(http.MethodPost, "/claim", "alice", "").Code, ShouldEqual, http.StatusOK)
			So(e.do(http.MethodPost, "/claim", "alice", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET /notifications pages the feed", func() {
			rec := e.do(http.MethodGet, "/notifications", "", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("GET /stats answers JSON", func() {
			rec := e.do(http.MethodGet, "/stats", "", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
		})
	})
}
