package domain

// Reason is the closed set of results returned by core operations.
// ReasonNone means the operation succeeded.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonAlreadyChatting
	ReasonAlreadySearching
	ReasonNothingToEnd
	ReasonNotInChat
	ReasonStillSearching
	ReasonPartnerMissing
	ReasonUnsupportedContent
	ReasonInvalidContent
	ReasonDeliveryFailed
	ReasonUnknownCommand
)

var reasonNames = map[Reason]string{
	ReasonNone:               "none",
	ReasonAlreadyChatting:    "already_chatting",
	ReasonAlreadySearching:   "already_searching",
	ReasonNothingToEnd:       "nothing_to_end",
	ReasonNotInChat:          "not_in_chat",
	ReasonStillSearching:     "still_searching",
	ReasonPartnerMissing:     "partner_missing",
	ReasonUnsupportedContent: "unsupported_content",
	ReasonInvalidContent:     "invalid_content",
	ReasonDeliveryFailed:     "delivery_failed",
	ReasonUnknownCommand:     "unknown_command",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// Delivery is one outbound payload the transport must send.
type Delivery struct {
	To      UserHandle
	Payload Payload
}

func NoticeTo(to UserHandle, notice Notice) Delivery {
	return Delivery{To: to, Payload: notice}
}
