package telegram

import "chat-pair/domain"

// Reply keyboards, as catalog button keys per row.
var (
	mainKeyboard   = [][]string{{"button.search"}, {"button.help"}}
	searchKeyboard = [][]string{{"button.cancel"}}
	chatKeyboard   = [][]string{{"button.next", "button.stop"}}
)

// keyboards maps a notice on the keyboard of the state the user is left in.
// Notices missing here keep the keyboard already shown.
var keyboards = map[domain.NoticeKey][][]string{
	domain.NoticeWelcome:         mainKeyboard,
	domain.NoticeChatEnded:       mainKeyboard,
	domain.NoticePartnerLeft:     mainKeyboard,
	domain.NoticeSearchCancelled: mainKeyboard,
	domain.NoticeNothingToEnd:    mainKeyboard,
	domain.NoticeNotInChat:       mainKeyboard,
	domain.NoticePartnerMissing:  mainKeyboard,
	domain.NoticeDialogEnded:     mainKeyboard,

	domain.NoticeSearching:        searchKeyboard,
	domain.NoticeSearchingQueued:  searchKeyboard,
	domain.NoticeAlreadySearching: searchKeyboard,
	domain.NoticeStillSearching:   searchKeyboard,

	domain.NoticePartnerFound: chatKeyboard,
}

func keyboardOf(key domain.NoticeKey) ([][]string, bool) {
	layout, ok := keyboards[key]
	return layout, ok
}
