package usecase

// Reply texts exposed for tests
const (
	MsgPleaseWait       = msgPleaseWait
	MsgHavingTrouble    = msgHavingTrouble
	MsgClarification    = msgClarification
	MsgSubmitted        = msgSubmitted
	MsgApprovedExecuted = msgApprovedExecuted
	MsgApprovedFailed   = msgApprovedFailed
	MsgRejected         = msgRejected
)
