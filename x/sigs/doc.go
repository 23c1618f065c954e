// Package sigs authenticates transactions by their ed25519 signatures.
// Every signature carries the nonce of its key, which makes a signed
// transaction valid exactly once per chain.
package sigs
