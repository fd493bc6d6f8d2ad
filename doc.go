/*
Package custody defines the interfaces shared by all packages of the
avatar custody application: storage, transactions, messages, handlers and
the context that is passed down the handler stack.

The application keeps per-user vaults. A vault holds an amount of a
fungible token and a reference to one avatar (a non-fungible asset). The
x/registry extension creates at most one vault per owner, x/vault runs
the deposit state machine, x/token and x/avatar provide the two ledgers a
vault talks to.

Every state change is executed by a Handler on a KVStore that the
application wraps in a cache layer per transaction. A failing handler
never leaves partial state behind, because its cache is discarded.
*/
package custody
