package domain

// NoticeKey identifies an informational message. Transports render it
// through the locale catalogs, the key doubles as the catalog key.
type NoticeKey string

const (
	NoticeWelcome            NoticeKey = "notice.welcome"
	NoticeHelp               NoticeKey = "notice.help"
	NoticePartnerFound       NoticeKey = "notice.partner_found"
	NoticeSearching          NoticeKey = "notice.searching"
	NoticeSearchingQueued    NoticeKey = "notice.searching_queued"
	NoticeAlreadySearching   NoticeKey = "notice.already_searching"
	NoticeAlreadyInChat      NoticeKey = "notice.already_in_chat"
	NoticeChatEnded          NoticeKey = "notice.chat_ended"
	NoticePartnerLeft        NoticeKey = "notice.partner_left"
	NoticeSearchCancelled    NoticeKey = "notice.search_cancelled"
	NoticeNothingToEnd       NoticeKey = "notice.nothing_to_end"
	NoticeLookingForNext     NoticeKey = "notice.looking_for_next"
	NoticeStillSearching     NoticeKey = "notice.still_searching"
	NoticeNotInChat          NoticeKey = "notice.not_in_chat"
	NoticePartnerMissing     NoticeKey = "notice.partner_missing"
	NoticeUnsupportedContent NoticeKey = "notice.unsupported_content"
	NoticeInvalidContent     NoticeKey = "notice.invalid_content"
	NoticeDeliveryFailed     NoticeKey = "notice.delivery_failed"
	NoticeDialogEnded        NoticeKey = "notice.dialog_ended"
	NoticeStatus             NoticeKey = "notice.status"
	NoticeStats              NoticeKey = "notice.stats"
)

// Stats is the aggregate view reported by the stats collector.
type Stats struct {
	TotalTrackedUsers   int
	ChattingCount       int
	SearchingCount      int
	TotalPairingsFormed uint64
}

// Notice is a system message addressed to one user.
type Notice struct {
	Key     NoticeKey
	Waiting int
	State   SessionState
	Stats   *Stats
}

func (Notice) Kind() ContentKind { return KindNotice }

func NewNotice(key NoticeKey) Notice {
	return Notice{Key: key}
}
