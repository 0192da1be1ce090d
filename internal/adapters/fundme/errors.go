package fundme

import (
	"bytes"
	"errors"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/fundme/internal/domain"
)

var (
	errorSelector = []byte{0x08, 0xc3, 0x79, 0xa0} // Error(string)
	panicSelector = []byte{0x4e, 0x48, 0x7b, 0x71} // Panic(uint256)
)

// MinimumNotMetReason is the require() message fund() reverts with
const MinimumNotMetReason = "You need to spend more ETH!"

// notOwnerErrors are the custom errors and messages owner-only functions revert with
var notOwnerErrors = []string{"FundMe__NotOwner", "NotOwner"}

// decodeRevert turns a failed call into a *domain.RevertError when the node
// returned revert data. Other errors are returned unchanged.
func decodeRevert(contractABI *abi.ABI, err error) error {
	if err == nil {
		return nil
	}

	data, ok := revertData(err)
	if !ok {
		if !strings.Contains(err.Error(), "execution reverted") {
			return err
		}
		reason := reasonFromMessage(err.Error())
		return &domain.RevertError{Reason: reason, Kind: classify(reason, "")}
	}

	revert := &domain.RevertError{Data: data}
	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], errorSelector):
		if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
			revert.Reason = reason
		}
	case len(data) >= 4 && bytes.Equal(data[:4], panicSelector):
		if len(data) >= 36 {
			revert.PanicCode = new(big.Int).SetBytes(data[4:36])
		}
	case len(data) >= 4 && contractABI != nil:
		for name, customErr := range contractABI.Errors {
			if bytes.Equal(customErr.ID[:4], data[:4]) {
				revert.ErrorName = name
				break
			}
		}
	}
	revert.Kind = classify(revert.Reason, revert.ErrorName)
	return revert
}

// revertData extracts the revert payload from an RPC error
func revertData(err error) ([]byte, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return nil, false
	}
	switch data := dataErr.ErrorData().(type) {
	case string:
		decoded, decodeErr := hexutil.Decode(data)
		if decodeErr != nil {
			return nil, false
		}
		return decoded, true
	case []byte:
		return data, true
	default:
		return nil, false
	}
}

func reasonFromMessage(msg string) string {
	_, reason, ok := strings.Cut(msg, "execution reverted: ")
	if !ok {
		return ""
	}
	return reason
}

func classify(reason, errorName string) error {
	switch {
	case reason == MinimumNotMetReason:
		return domain.ErrInsufficientFunds
	case slices.Contains(notOwnerErrors, errorName), slices.Contains(notOwnerErrors, reason):
		return domain.ErrNotOwner
	default:
		return nil
	}
}
