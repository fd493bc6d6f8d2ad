package custody_test

import (
	"encoding/json"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

func TestAddressPrinting(t *testing.T) {
	Convey("address is printed as upper case hex", t, func() {
		addr := custody.NewAddress([]byte("some condition"))
		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", []byte(addr)))
		So(custody.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("condition keeps extension and type readable", t, func() {
		cond := custody.NewCondition("vault", "seq", []byte{0xca, 0xfe})
		So(cond.String(), ShouldEqual, "vault/seq/CAFE")
		So(custody.Condition("nope").String(), ShouldContainSubstring, "Invalid Condition")
	})
}

func TestConditionParse(t *testing.T) {
	cond := custody.NewCondition("sigs", "ed25519", []byte("key"))
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	require.Equal(t, "sigs", ext)
	require.Equal(t, "ed25519", typ)
	require.Equal(t, []byte("key"), data)
	require.NoError(t, cond.Validate())

	_, _, _, err = custody.Condition("no/data").Parse()
	require.True(t, errors.ErrInput.Is(err))
	require.True(t, errors.ErrInput.Is(custody.Condition("x/y/z").Validate()))

	require.Equal(t, custody.AddressLength, len(cond.Address()))
	require.True(t, cond.Address().Equals(custody.NewAddress(cond)))
}

func TestParseAddress(t *testing.T) {
	addr := custody.NewAddress([]byte("owner"))
	b32, err := addr.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		enc     string
		want    custody.Address
		wantErr *errors.Error
	}{
		"hex":            {enc: addr.String(), want: addr},
		"prefixed hex":   {enc: "hex:" + addr.String(), want: addr},
		"bech32":         {enc: "bech32:" + b32, want: addr},
		"empty":          {enc: "", want: nil},
		"bad hex":        {enc: "zz", wantErr: errors.ErrInput},
		"short":          {enc: "cafe", wantErr: errors.ErrInput},
		"bad bech32":     {enc: "bech32:eas1qqqq", wantErr: errors.ErrInput},
		"unknown format": {enc: "cond:foo/bar/00", wantErr: errors.ErrType},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := custody.ParseAddress(tc.enc)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := custody.NewAddress([]byte("vault"))
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	require.Equal(t, `"`+addr.String()+`"`, string(raw))

	var got custody.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, addr, got)

	err = json.Unmarshal([]byte(`"beef"`), &got)
	require.True(t, errors.ErrInput.Is(err))
}

func TestAddressClone(t *testing.T) {
	addr := custody.NewAddress([]byte("ledger"))
	cpy := addr.Clone()
	require.Equal(t, addr, cpy)
	cpy[0]++
	require.False(t, addr.Equals(cpy))
	require.Nil(t, custody.Address(nil).Clone())
}
