/*
Package registry provisions vaults. Every account can own exactly one vault
created through the registry, and the registry resolves an owner to the
address of that vault.

The ledger and escrow cost of new vaults, together with the self custody
policy, are kept in the package configuration (see gconf).
*/
package registry
