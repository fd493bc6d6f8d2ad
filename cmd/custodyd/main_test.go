package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/easlabs/custody"
	custodyapp "github.com/easlabs/custody/cmd/custodyd/app"
	"github.com/easlabs/custody/commands/server"
	"github.com/easlabs/custody/crypto"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x/registry"
)

func tempHome(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "custodyd")
	require.NoError(t, err)
	return dir, func() { os.RemoveAll(dir) }
}

func TestKeys(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	keyFile := filepath.Join(home, "keys", "user.key")

	var first, second bytes.Buffer
	require.NoError(t, keysCmd(&first, []string{keyFile}))
	require.NoError(t, keysCmd(&second, []string{keyFile}))
	require.Equal(t, first.String(), second.String())
	require.Contains(t, first.String(), "bech32:  eas1")

	key, err := loadKey(keyFile)
	require.NoError(t, err)
	require.Contains(t, first.String(), key.PublicKey().Address().String())

	err = keysCmd(&first, nil)
	require.True(t, errors.ErrInput.Is(err))
}

func TestExecProvisionsVault(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	logger := log.NewNopLogger()

	keyFile := filepath.Join(home, "user.key")
	require.NoError(t, keysCmd(ioutil.Discard, []string{keyFile}))
	key, err := loadKey(keyFile)
	require.NoError(t, err)
	owner := key.PublicKey().Address()

	require.NoError(t, server.InitCmd(custodyapp.GenInitOptions, logger, home, []string{owner.String()}))

	tx := custodyapp.Tx{
		ProvisionVaultMsg: &registry.ProvisionVaultMsg{Metadata: &custody.Metadata{Schema: 1}},
	}
	raw, err := json.Marshal(tx)
	require.NoError(t, err)
	txFile := filepath.Join(home, "tx.json")
	require.NoError(t, ioutil.WriteFile(txFile, raw, 0600))

	var out bytes.Buffer
	require.NoError(t, execCmd(&out, logger, home, []string{"-key", keyFile, txFile}))

	var res execResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Equal(t, uint32(0), res.Code, res.Log)
	require.Equal(t, int64(1), res.Height)
	require.NotEmpty(t, res.Data)
}

func TestExecRejectsEmptyTx(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	txFile := filepath.Join(home, "tx.json")
	require.NoError(t, ioutil.WriteFile(txFile, []byte(`{}`), 0600))
	err := execCmd(ioutil.Discard, log.NewNopLogger(), home, []string{txFile})
	require.True(t, errors.ErrState.Is(err))

	err = execCmd(ioutil.Discard, log.NewNopLogger(), home, nil)
	require.True(t, errors.ErrInput.Is(err))
}

func TestParseQueryKey(t *testing.T) {
	addr := crypto.GenPrivKeyEd25519().PublicKey().Address()
	b32, err := addr.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		enc     string
		want    []byte
		wantErr *errors.Error
	}{
		"empty":   {enc: "", want: nil},
		"hex":     {enc: addr.String(), want: addr},
		"bech32":  {enc: "bech32:" + b32, want: addr},
		"raw hex": {enc: "cafe", want: []byte{0xca, 0xfe}},
		"garbage": {enc: "not a key", wantErr: errors.ErrInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := parseQueryKey(tc.enc)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeModel(t *testing.T) {
	vault := crypto.GenPrivKeyEd25519().PublicKey().Address()
	ref := &registry.VaultRef{Metadata: &custody.Metadata{Schema: 1}, Vault: vault}
	raw, err := ref.Marshal()
	require.NoError(t, err)

	got, err := decodeModel("/registry?prefix", raw)
	require.NoError(t, err)
	require.Equal(t, vault, got.(*registry.VaultRef).Vault)

	got, err = decodeModel("/unknown", []byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, "0102", got)
}
