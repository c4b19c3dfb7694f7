// Package ruleerrors defines the closed taxonomy of consensus-rejection
// errors the core surfaces to its callers. Every rejection a caller can
// branch on is one of these codes; anything else is a storage or
// programmer error that propagates unwrapped.
package ruleerrors

import "fmt"

// ErrorCode identifies a specific consensus rule violation.
type ErrorCode int

const (
	// Parse errors: the wire structure itself is malformed.
	ErrInvalidValue ErrorCode = iota
	ErrInvalidSize

	// Validation errors.
	ErrUnknownParent
	ErrInvalidTipsCount
	ErrInvalidBlockVersion
	ErrInvalidBlockHeight
	ErrInvalidPoW

	// State errors.
	ErrAlreadyInChain
	ErrTxAlreadyInMempool
	ErrTxAlreadyInBlockchain
	ErrNoNonce

	// Mempool errors.
	ErrNonceStale
	ErrNonceGap
	ErrNonceDuplicate
	ErrMempoolFull
	ErrInsufficientBalance

	// Sync errors.
	ErrNotEnoughBlocks
	ErrInvalidReferenceTopoheight
	ErrInvalidReferenceHash
	ErrNoStableReferenceFound
	ErrIsSyncing
)

var errorCodeNames = map[ErrorCode]string{
	ErrInvalidValue:               "ErrInvalidValue",
	ErrInvalidSize:                "ErrInvalidSize",
	ErrUnknownParent:              "ErrUnknownParent",
	ErrInvalidTipsCount:           "ErrInvalidTipsCount",
	ErrInvalidBlockVersion:        "ErrInvalidBlockVersion",
	ErrInvalidBlockHeight:         "ErrInvalidBlockHeight",
	ErrInvalidPoW:                 "ErrInvalidPoW",
	ErrAlreadyInChain:             "ErrAlreadyInChain",
	ErrTxAlreadyInMempool:         "ErrTxAlreadyInMempool",
	ErrTxAlreadyInBlockchain:      "ErrTxAlreadyInBlockchain",
	ErrNoNonce:                    "ErrNoNonce",
	ErrNonceStale:                 "ErrNonceStale",
	ErrNonceGap:                   "ErrNonceGap",
	ErrNonceDuplicate:             "ErrNonceDuplicate",
	ErrMempoolFull:                "ErrMempoolFull",
	ErrInsufficientBalance:        "ErrInsufficientBalance",
	ErrNotEnoughBlocks:            "ErrNotEnoughBlocks",
	ErrInvalidReferenceTopoheight: "ErrInvalidReferenceTopoheight",
	ErrInvalidReferenceHash:       "ErrInvalidReferenceHash",
	ErrNoStableReferenceFound:     "ErrNoStableReferenceFound",
	ErrIsSyncing:                  "ErrIsSyncing",
}

func (code ErrorCode) String() string {
	if name, ok := errorCodeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(code))
}

// RuleError identifies a rule violation along with a human-readable
// description of why.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

func (e RuleError) Error() string {
	return e.Description
}

// Is allows errors.Is(err, ruleerrors.RuleError{ErrorCode: ...}) style
// matching against just the code, ignoring Description.
func (e RuleError) Is(target error) bool {
	other, ok := target.(RuleError)
	if !ok {
		return false
	}
	return e.ErrorCode == other.ErrorCode
}

// New creates a RuleError with the given code and formatted description.
func New(code ErrorCode, format string, args ...interface{}) error {
	return RuleError{ErrorCode: code, Description: fmt.Sprintf(format, args...)}
}
