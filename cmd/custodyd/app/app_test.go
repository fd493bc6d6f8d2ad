package app

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/app"
	"github.com/easlabs/custody/crypto"
	"github.com/easlabs/custody/custodytest"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x/avatar"
	"github.com/easlabs/custody/x/registry"
	"github.com/easlabs/custody/x/sigs"
	"github.com/easlabs/custody/x/token"
	"github.com/easlabs/custody/x/vault"
)

const chainID = "custody-test"

type testChain struct {
	t      testing.TB
	app    app.BaseApp
	height int64
}

func newTestChain(t testing.TB, admin custody.Address) *testChain {
	t.Helper()
	myApp, err := Application("custody", Stack(), TxDecoder, "", log.NewNopLogger(), true)
	require.NoError(t, err)

	genesis, err := GenInitOptions([]string{admin.String()})
	require.NoError(t, err)
	myApp.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: genesis})
	require.Equal(t, chainID, myApp.GetChainID())
	return &testChain{t: t, app: myApp}
}

// deliver signs the message with the key and executes it in a new block.
func (c *testChain) deliver(key *crypto.PrivateKey, msg custody.Msg) abci.ResponseDeliverTx {
	c.t.Helper()
	tx := &Tx{}
	require.NoError(c.t, tx.SetMsg(msg))
	if key != nil {
		nonce, err := sigs.NextNonce(c.app.DeliverStore(), key.PublicKey().Address())
		require.NoError(c.t, err)
		sig, err := sigs.SignTx(key, tx, chainID, nonce)
		require.NoError(c.t, err)
		tx.Signatures = []*sigs.StdSignature{sig}
	}
	raw, err := tx.Marshal()
	require.NoError(c.t, err)

	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: c.height, ChainID: chainID}})
	chk := c.app.CheckTx(raw)
	res := c.app.DeliverTx(raw)
	// Genesis state reaches the check store with the first commit.
	if res.Code == 0 && c.height > 1 {
		require.Equal(c.t, uint32(0), chk.Code, chk.Log)
	}
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return res
}

// query returns all values found under the path for given key.
func (c *testChain) query(path string, key []byte) [][]byte {
	c.t.Helper()
	q := c.app.Query(abci.RequestQuery{Path: path, Data: key})
	require.Equal(c.t, uint32(0), q.Code, q.Log)

	var keys, values app.ResultSet
	require.NoError(c.t, keys.Unmarshal(q.Key))
	require.NoError(c.t, values.Unmarshal(q.Value))
	models, err := app.JoinResults(&keys, &values)
	require.NoError(c.t, err)
	out := make([][]byte, 0, len(models))
	for _, m := range models {
		out = append(out, m.Value)
	}
	return out
}

func TestEscrowScenario(t *testing.T) {
	admin := custodytest.NewKey()
	user := custodytest.NewKey()
	chain := newTestChain(t, admin.PublicKey().Address())

	meta := &custody.Metadata{Schema: 1}
	ledger := GenesisLedger(1)
	cats := GenesisCollection(1)
	userAddr := user.PublicKey().Address()

	res := chain.deliver(user, &token.FaucetMsg{Metadata: meta, Ledger: ledger})
	require.Equal(t, uint32(0), res.Code, res.Log)

	res = chain.deliver(user, &registry.ProvisionVaultMsg{Metadata: meta})
	require.Equal(t, uint32(0), res.Code, res.Log)
	vaultAddr := custody.Address(res.Data)
	require.NoError(t, vaultAddr.Validate())

	res = chain.deliver(user, &registry.ProvisionVaultMsg{Metadata: meta})
	require.Equal(t, registry.ErrAlreadyProvisioned.ABCICode(), res.Code)

	// The escrow cost was not approved yet.
	res = chain.deliver(user, &avatar.MintMsg{Metadata: meta, Collection: cats})
	require.Equal(t, uint32(0), res.Code, res.Log)
	id := binary.BigEndian.Uint64(res.Data)
	require.Equal(t, uint64(0), id)

	res = chain.deliver(user, &avatar.ApproveMsg{Metadata: meta, Collection: cats, ID: id, Spender: vaultAddr})
	require.Equal(t, uint32(0), res.Code, res.Log)

	escrow := &vault.ActivateEscrowMsg{Metadata: meta, Vault: vaultAddr, AssetRegistry: cats, AssetID: id}
	res = chain.deliver(user, escrow)
	require.Equal(t, vault.ErrInsufficientAllowance.ABCICode(), res.Code)

	res = chain.deliver(user, &token.ApproveMsg{Metadata: meta, Ledger: ledger, Spender: vaultAddr, Amount: DefaultEscrowCost})
	require.Equal(t, uint32(0), res.Code, res.Log)

	// Only the vault owner can activate it.
	res = chain.deliver(admin, escrow)
	require.Equal(t, vault.ErrNotVaultOwner.ABCICode(), res.Code)

	res = chain.deliver(user, escrow)
	require.Equal(t, uint32(0), res.Code, res.Log)

	res = chain.deliver(user, escrow)
	require.Equal(t, vault.ErrAlreadyActive.ABCICode(), res.Code)

	found := chain.query("/vaults", vaultAddr)
	require.Len(t, found, 1)
	var v vault.Vault
	require.NoError(t, v.Unmarshal(found[0]))
	require.Equal(t, vault.Escrow, v.Mode)
	require.True(t, v.Active)
	require.Equal(t, uint64(DefaultEscrowCost), v.Deposited)
	require.Equal(t, userAddr, v.Owner)

	found = chain.query("/registry", userAddr)
	require.Len(t, found, 1)
	var ref registry.VaultRef
	require.NoError(t, ref.Unmarshal(found[0]))
	require.Equal(t, vaultAddr, ref.Vault)

	require.Empty(t, chain.query("/registry", admin.PublicKey().Address()))
}

func TestSelfCustodyScenario(t *testing.T) {
	admin := custodytest.NewKey()
	user := custodytest.NewKey()
	user2 := custodytest.NewKey()
	chain := newTestChain(t, admin.PublicKey().Address())

	meta := &custody.Metadata{Schema: 1}
	ledger := GenesisLedger(1)
	cats := GenesisCollection(1)

	res := chain.deliver(user, &token.FaucetMsg{Metadata: meta, Ledger: ledger})
	require.Equal(t, uint32(0), res.Code, res.Log)
	res = chain.deliver(user, &registry.ProvisionVaultMsg{Metadata: meta})
	require.Equal(t, uint32(0), res.Code, res.Log)
	vaultAddr := custody.Address(res.Data)

	res = chain.deliver(user, &token.ApproveMsg{Metadata: meta, Ledger: ledger, Spender: vaultAddr, Amount: 33})
	require.Equal(t, uint32(0), res.Code, res.Log)

	// An avatar minted by another user cannot be put under self custody.
	res = chain.deliver(user2, &avatar.MintMsg{Metadata: meta, Collection: cats})
	require.Equal(t, uint32(0), res.Code, res.Log)
	foreign := binary.BigEndian.Uint64(res.Data)

	selfCustody := &vault.ActivateSelfCustodyMsg{Metadata: meta, Vault: vaultAddr, AssetRegistry: cats, AssetID: foreign, Payment: 33}
	res = chain.deliver(user, selfCustody)
	require.Equal(t, vault.ErrNotOwner.ABCICode(), res.Code)

	res = chain.deliver(user, &avatar.MintMsg{Metadata: meta, Collection: cats})
	require.Equal(t, uint32(0), res.Code, res.Log)
	selfCustody.AssetID = binary.BigEndian.Uint64(res.Data)

	res = chain.deliver(user, selfCustody)
	require.Equal(t, uint32(0), res.Code, res.Log)

	found := chain.query("/vaults", vaultAddr)
	require.Len(t, found, 1)
	var v vault.Vault
	require.NoError(t, v.Unmarshal(found[0]))
	require.Equal(t, vault.SelfCustody, v.Mode)
	require.Equal(t, uint64(33), v.Deposited)
	require.False(t, v.AssetHeld)

	// Unsigned transactions are rejected.
	res = chain.deliver(nil, &registry.ProvisionVaultMsg{Metadata: meta})
	require.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)
}

func TestTxGetMsg(t *testing.T) {
	var tx Tx
	_, err := tx.GetMsg()
	require.True(t, errors.ErrState.Is(err))

	msg := &registry.ProvisionVaultMsg{Metadata: &custody.Metadata{Schema: 1}}
	require.NoError(t, tx.SetMsg(msg))
	got, err := tx.GetMsg()
	require.NoError(t, err)
	require.Equal(t, msg, got)

	tx.FaucetMsg = &token.FaucetMsg{}
	_, err = tx.GetMsg()
	require.True(t, errors.ErrState.Is(err))

	raw, err := tx.Marshal()
	require.NoError(t, err)
	decoded, err := TxDecoder(raw)
	require.NoError(t, err)
	_, err = decoded.GetMsg()
	require.True(t, errors.ErrState.Is(err))

	require.Error(t, tx.SetMsg(&custodytest.Msg{RoutePath: "test/unknown"}))
}
