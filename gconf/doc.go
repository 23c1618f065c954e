// Package gconf keeps one configuration object per extension in the
// application store, under the key "_c:<package>". The object is written
// by the genesis loader and replaced later by update messages signed by
// its owner.
package gconf
