/*
Package vault implements avatar custody vaults.

A vault belongs to a single owner and is bound to one fungible ledger for its
whole life. It starts inactive and can be activated exactly once, either by
escrowing an avatar together with a fixed fee, or by proving direct
ownership of an avatar and paying for self custody. An active vault never
changes its mode again.

Both ledgers are reached through the FungibleLedger and AssetRegistry
interfaces. Activation runs on a cache layer of the store and is written
only when every step succeeded.
*/
package vault
