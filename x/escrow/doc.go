/*
Package escrow implements a two-party token swap.

A maker locks a deposit of one asset in a vault and names the amount of
another asset they want in return. Any taker paying that amount to the
maker receives the whole vault. Until the offer is taken, the maker can
refund it and get the deposit back.

Each offer is an Escrow record stored under an address derived from the
maker and a maker chosen seed. The vault is a cash wallet whose authority
is the escrow address. No private key exists for that address: this
package grants the escrow condition, rebuilt from the derivation seeds
stored in the record, only while it settles the offer.
*/
package escrow
