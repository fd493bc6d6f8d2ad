package sigs

import (
	"context"
	"testing"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/custodytest"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/store"
	"github.com/stretchr/testify/require"
)

func TestBumpSequence(t *testing.T) {
	const chainID = "bump-chain"

	cases := map[string]struct {
		increment uint32
		wantCheck *errors.Error
		wantNonce int64
	}{
		"increment by one": {
			increment: 1,
			wantNonce: 1,
		},
		"increment by many": {
			increment: 20,
			wantNonce: 20,
		},
		"zero increment": {
			increment: 0,
			wantCheck: errors.ErrMsg,
			wantNonce: 1,
		},
		"too big increment": {
			increment: 1001,
			wantCheck: errors.ErrMsg,
			wantNonce: 1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctx := custody.WithChainID(context.Background(), chainID)
			priv := custodytest.NewKey()

			rt := newTestRouter()
			RegisterRoutes(rt, Authenticate{})
			h := custodytest.Decorate(rt, NewDecorator())

			tx := &StdTx{Tx: custodytest.Tx{Msg: &BumpSequenceMsg{
				Metadata:  &custody.Metadata{Schema: 1},
				Increment: tc.increment,
			}}}
			sig, err := SignTx(priv, tx, chainID, 0)
			require.NoError(t, err)
			tx.Signatures = []*StdSignature{sig}

			cache := db.CacheWrap()
			_, err = h.Check(ctx, cache, tx)
			cache.Discard()
			if tc.wantCheck != nil {
				require.True(t, tc.wantCheck.Is(err), "got %+v", err)
			} else {
				require.NoError(t, err)
			}

			_, err = h.Deliver(ctx, db, tx)
			if tc.wantCheck != nil {
				require.True(t, tc.wantCheck.Is(err), "got %+v", err)
			} else {
				require.NoError(t, err)
			}

			nonce, err := NextNonce(db, priv.PublicKey().Address())
			require.NoError(t, err)
			require.Equal(t, tc.wantNonce, nonce)
		})
	}
}

// testRouter is a minimal registry dispatching by message path.
type testRouter struct {
	handlers map[string]custody.Handler
}

func newTestRouter() *testRouter {
	return &testRouter{handlers: make(map[string]custody.Handler)}
}

func (r *testRouter) Handle(m custody.Msg, h custody.Handler) {
	r.handlers[m.Path()] = h
}

func (r *testRouter) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return r.handlers[msg.Path()].Check(ctx, db, tx)
}

func (r *testRouter) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return r.handlers[msg.Path()].Deliver(ctx, db, tx)
}
