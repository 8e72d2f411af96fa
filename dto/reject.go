package dto

// RejectReason 操作被拒绝的原因，作为 error 在规则层向外传递
type RejectReason string

const (
	RejectNotYourTurn                RejectReason = "NotYourTurn"
	RejectInvalidPhaseForAction      RejectReason = "InvalidPhaseForAction"
	RejectTileNotInHand              RejectReason = "TileNotInHand"
	RejectTileIllegalPlacement       RejectReason = "TileIllegalPlacement"
	RejectNoCompanyIdentityAvailable RejectReason = "NoCompanyIdentityAvailable"
	RejectInsufficientFunds          RejectReason = "InsufficientFunds"
	RejectInsufficientBankShares     RejectReason = "InsufficientBankShares"
	RejectInvalidMergerChoice        RejectReason = "InvalidMergerChoice"
	RejectActionAfterGameOver        RejectReason = "ActionAfterGameOver"
	RejectMalformedMessage           RejectReason = "MalformedMessage"
	RejectSequenceGap                RejectReason = "SequenceGap"
)

func (r RejectReason) Error() string {
	return string(r)
}

// Reject 对单个操作的否决回执，只发给发起者
type Reject struct {
	ActionID string       `json:"actionID"`
	Reason   RejectReason `json:"reason"`
	Detail   string       `json:"detail,omitempty"`
}
