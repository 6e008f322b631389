package usecase

// User-visible reply texts. These are the only failure texts that ever
// reach a customer; internal errors stay behind the pipeline boundary.
const (
	msgPleaseWait = "Your previous request is still waiting for a decision. Please wait until it is handled before sending a new one."

	msgHavingTrouble = "I'm having trouble understanding that right now. Please try again in a moment."

	msgClarification = "I want to get this right before acting on it. Could you rephrase your request with a bit more detail?"

	msgSubmitted = "Got it. This request needs a quick sign-off on our side; I'll let you know as soon as it's decided."

	msgApprovedExecuted = "Good news: your request was approved and has been completed."

	msgApprovedFailed = "Your request was approved, but something went wrong while carrying it out. We're looking into it."

	msgRejected = "Sorry, your request was declined after review."
)
