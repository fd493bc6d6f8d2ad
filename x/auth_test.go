package x

import (
	"context"
	"testing"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/custodytest"
	"github.com/easlabs/custody/custodytest/assert"
	"github.com/easlabs/custody/errors"
)

func TestAuth(t *testing.T) {
	a := custodytest.NewCondition()
	b := custodytest.NewCondition()
	c := custodytest.NewCondition()

	ctx1 := &custodytest.CtxAuth{Key: "foo"}
	ctx2 := &custodytest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          custody.Context
		auth         Authenticator
		wantCaller   custody.Address
		wantErr      *errors.Error
		wantInCtx    custody.Condition
		wantNotInCtx custody.Condition
		wantAll      []custody.Condition
	}{
		"unsigned": {
			ctx:          context.Background(),
			auth:         &custodytest.Auth{},
			wantErr:      errors.ErrUnauthorized,
			wantNotInCtx: b,
		},
		"single signer": {
			ctx:          context.Background(),
			auth:         &custodytest.Auth{Signer: a},
			wantCaller:   a.Address(),
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []custody.Condition{a},
		},
		"chained signers keep order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&custodytest.Auth{Signer: b},
				&custodytest.Auth{Signer: a}),
			wantCaller:   b.Address(),
			wantInCtx:    a,
			wantNotInCtx: c,
			wantAll:      []custody.Condition{b, a},
		},
		"context conditions under the same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			wantCaller:   a.Address(),
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []custody.Condition{a, b},
		},
		"context conditions under another key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantErr:      errors.ErrUnauthorized,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			caller, err := Caller(tc.ctx, tc.auth)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, tc.wantCaller, caller)

			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition address that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("condition address that was expected not to be in context found")
			}
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(tc.ctx))
		})
	}
}

func TestSafeAdd(t *testing.T) {
	sum, err := SafeAdd(10, 23)
	assert.Nil(t, err)
	assert.Equal(t, uint64(33), sum)

	_, err = SafeAdd(^uint64(0), 1)
	if err == nil {
		t.Fatal("overflow not detected")
	}
}
