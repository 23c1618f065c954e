/*
Package cash implements the ledger the escrow swaps settle on.

Every address owns a wallet with a set of coins. A wallet may name an
authority that is allowed to spend from it instead of its own address,
and it may be locked to a single ticker. Escrow vaults are wallets of this
kind: the authority is the escrow record and the ticker is the deposited
asset.

There is no logic in the coins (tokens), except that the balance of any
coin may not go below zero.
*/
package cash
