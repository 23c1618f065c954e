package app

import (
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/commands"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/x/cash"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/sigs"
)

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	maker := crypto.GenPrivKeyEd25519()
	taker := crypto.GenPrivKeyEd25519()
	makerAddr := maker.PublicKey().Address()
	const seed = 42

	wallet := &cash.Wallet{
		Coins: []*coin.Coin{
			coin.NewCoinp(50000, 0, "BTR"),
			coin.NewCoinp(150, 0, "XTR"),
		},
	}
	user := &sigs.UserData{
		Pubkey:   maker.PublicKey(),
		Sequence: 17,
	}
	offer := &escrow.Escrow{
		Seed:          seed,
		Maker:         makerAddr,
		AssetA:        "BTR",
		AssetB:        "XTR",
		ReceiveAmount: coin.NewCoinp(50, 0, "XTR"),
		DerivationTag: escrow.DerivationSeeds(makerAddr, seed),
	}

	send := &cash.SendMsg{
		Source:      makerAddr,
		Destination: taker.PublicKey().Address(),
		Amount:      coin.NewCoinp(250, 0, "BTR"),
		Memo:        "Test payment",
	}
	makeMsg := &escrow.MakeMsg{
		Maker:   makerAddr,
		Seed:    seed,
		Deposit: coin.NewCoinp(100, 0, "BTR"),
		Receive: coin.NewCoinp(50, 0, "XTR"),
	}
	loc := escrow.Locator{Maker: makerAddr, Seed: seed}
	take := &escrow.TakeMsg{Locator: loc, Taker: taker.PublicKey().Address()}
	refund := &escrow.RefundMsg{Locator: loc}

	unsigned, err := NewTx(makeMsg)
	if err != nil {
		panic(err)
	}
	tx := *unsigned
	sig, err := sigs.SignTx(maker, &tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "wallet", Obj: wallet},
		{Filename: "user", Obj: user},
		{Filename: "escrow", Obj: offer},
		{Filename: "send_msg", Obj: send},
		{Filename: "make_msg", Obj: makeMsg},
		{Filename: "take_msg", Obj: take},
		{Filename: "refund_msg", Obj: refund},
		{Filename: "unsigned_tx", Obj: unsigned},
		{Filename: "signed_tx", Obj: &tx},
		{Filename: "priv_key", Obj: maker},
		{Filename: "pub_key", Obj: maker.PublicKey()},
	}
}
