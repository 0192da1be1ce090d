package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxReceipt is the outcome of a mined transaction
type TxReceipt struct {
	Hash              common.Hash
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	Status            uint64
}

// GasCost is gasUsed * effectiveGasPrice
func (r *TxReceipt) GasCost() *big.Int {
	if r == nil || r.EffectiveGasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), r.EffectiveGasPrice)
}

// Funder is one entry of the funders list together with its recorded amount
type Funder struct {
	Address common.Address `json:"address"`
	Amount  *big.Int       `json:"amount"`
}

// FundMeState is a read-only snapshot of a deployed FundMe contract
type FundMeState struct {
	Network   string         `json:"network"`
	Address   common.Address `json:"address"`
	PriceFeed common.Address `json:"priceFeed"`
	Owner     common.Address `json:"owner"`
	Balance   *big.Int       `json:"balance"`
	Funders   []Funder       `json:"funders"`
}

// FundResult describes a successful fund() call
type FundResult struct {
	Contract common.Address `json:"contract"`
	Funder   common.Address `json:"funder"`
	Amount   *big.Int       `json:"amount"`
	// AmountFunded is the funder's recorded total after the call
	AmountFunded *big.Int   `json:"amountFunded"`
	Receipt      *TxReceipt `json:"receipt"`
}

// WithdrawResult describes a successful withdraw() or cheaperWithdraw() call
type WithdrawResult struct {
	Contract common.Address `json:"contract"`
	Owner    common.Address `json:"owner"`
	Cheaper  bool           `json:"cheaper"`
	Receipt  *TxReceipt     `json:"receipt"`

	StartingContractBalance *big.Int `json:"startingContractBalance"`
	StartingOwnerBalance    *big.Int `json:"startingOwnerBalance"`
	EndingContractBalance   *big.Int `json:"endingContractBalance"`
	EndingOwnerBalance      *big.Int `json:"endingOwnerBalance"`
}

// Reconciles checks that the owner received exactly the contract balance
// minus the gas paid for the withdrawal.
func (w *WithdrawResult) Reconciles() bool {
	if w.StartingContractBalance == nil || w.StartingOwnerBalance == nil ||
		w.EndingContractBalance == nil || w.EndingOwnerBalance == nil {
		return false
	}
	left := new(big.Int).Add(w.EndingOwnerBalance, w.Receipt.GasCost())
	right := new(big.Int).Add(w.StartingOwnerBalance, w.StartingContractBalance)
	return w.EndingContractBalance.Sign() == 0 && left.Cmp(right) == 0
}
