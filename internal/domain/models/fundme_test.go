package models

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestTxReceipt_GasCost(t *testing.T) {
	r := &TxReceipt{GasUsed: 21000, EffectiveGasPrice: big.NewInt(2_000_000_000)}
	assert.Equal(t, big.NewInt(42_000_000_000_000), r.GasCost())

	var nilReceipt *TxReceipt
	assert.Equal(t, 0, nilReceipt.GasCost().Sign())
}

func TestWithdrawResult_Reconciles(t *testing.T) {
	receipt := &TxReceipt{GasUsed: 30000, EffectiveGasPrice: big.NewInt(1_000_000_000)}
	gas := receipt.GasCost()

	ok := &WithdrawResult{
		Receipt:                 receipt,
		StartingContractBalance: eth(1),
		StartingOwnerBalance:    eth(100),
		EndingContractBalance:   new(big.Int),
		EndingOwnerBalance:      new(big.Int).Sub(eth(101), gas),
	}
	assert.True(t, ok.Reconciles())

	leftover := *ok
	leftover.EndingContractBalance = big.NewInt(1)
	assert.False(t, leftover.Reconciles())

	short := *ok
	short.EndingOwnerBalance = new(big.Int).Sub(eth(100), gas)
	assert.False(t, short.Reconciles())

	assert.False(t, (&WithdrawResult{Receipt: receipt}).Reconciles())
}
