package telegram

import (
	"chat-pair/contract"
	"chat-pair/domain"
	"chat-pair/errors"
	"chat-pair/i18n"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harshyadavone/tgx"
	"github.com/harshyadavone/tgx/models"
)

// forwardedPrefix marks text coming from the partner.
const forwardedPrefix = "💬 "

var _ contract.Transport = (*Transport)(nil)

// botAPI is the part of the Telegram client the transport sends with.
type botAPI interface {
	SendMessage(chatID int64, text string) error
	SendMessageWithOpts(req *tgx.SendMessageRequest) error
	SendPhoto(req *tgx.SendPhotoRequest) error
	SendVideo(req *tgx.SendVideoRequest) error
	SendVoice(req *tgx.SendVoiceRequest) error
	SendDocument(req *tgx.SendDocumentRequest) error
	SendSticker(req *tgx.SendStickerRequest) error
	SendAnimation(req *tgx.SendAnimationRequest) error
	SendAudio(req *tgx.SendAudioRequest) error
	SendVideoNote(req *tgx.SendVideoNoteRequest) error
}

// Transport delivers payloads to Telegram chats. The user handle is the chat id.
type Transport struct {
	api      botAPI
	renderer *i18n.Renderer
	locale   string
	log      *slog.Logger
}

func NewTransport(api botAPI, renderer *i18n.Renderer, locale string, log *slog.Logger) *Transport {
	return &Transport{api: api, renderer: renderer, locale: locale, log: log}
}

func (t *Transport) Send(ctx context.Context, to domain.UserHandle, payload domain.Payload) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrRecipientUnreachable, err)
	}
	chatID := int64(to)
	switch p := payload.(type) {
	case domain.Notice:
		return t.sendNotice(chatID, p)
	case domain.Text:
		return t.api.SendMessage(chatID, forwardedPrefix+p.Body)
	case domain.Media:
		return t.sendMedia(chatID, p)
	case domain.Contact:
		name := strings.TrimSpace(p.FirstName + " " + p.LastName)
		return t.api.SendMessage(chatID, fmt.Sprintf("📇 %s\n📞 %s", name, p.PhoneNumber))
	case domain.Location:
		return t.api.SendMessage(chatID, fmt.Sprintf("📍 https://maps.google.com/?q=%f,%f", p.Latitude, p.Longitude))
	case domain.Dice:
		return t.api.SendMessage(chatID, p.Emoji)
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedContent, payload.Kind())
	}
}

// sendNotice renders notice with the keyboard of the state it leads to.
func (t *Transport) sendNotice(chatID int64, notice domain.Notice) error {
	text := t.renderer.Render(t.locale, notice)
	layout, ok := keyboardOf(notice.Key)
	if !ok {
		return t.api.SendMessage(chatID, text)
	}
	return t.api.SendMessageWithOpts(&tgx.SendMessageRequest{
		ChatId:      chatID,
		Text:        text,
		ReplyMarkup: t.replyKeyboard(layout),
	})
}

func (t *Transport) replyKeyboard(layout [][]string) models.ReplyKeyboardMarkup {
	rows := make([][]models.KeyboardButton, 0, len(layout))
	for _, keys := range layout {
		row := make([]models.KeyboardButton, 0, len(keys))
		for _, key := range keys {
			row = append(row, models.KeyboardButton{Text: t.renderer.Button(t.locale, key)})
		}
		rows = append(rows, row)
	}
	return models.ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
}

// sendMedia forwards a Telegram file id, the caption stays attached to it.
func (t *Transport) sendMedia(chatID int64, m domain.Media) error {
	if m.FileID == "" {
		return fmt.Errorf("%w: %s without file id", errors.ErrUnsupportedContent, m.Type)
	}
	base := tgx.BaseMediaRequest{ChatId: chatID}
	if m.Caption != "" {
		base.Caption = forwardedPrefix + m.Caption
	}
	switch m.Type {
	case domain.KindPhoto:
		return t.api.SendPhoto(&tgx.SendPhotoRequest{Photo: m.FileID, BaseMediaRequest: base})
	case domain.KindVideo:
		return t.api.SendVideo(&tgx.SendVideoRequest{Video: m.FileID, BaseMediaRequest: base})
	case domain.KindVideoNote:
		// Round videos carry no caption.
		base.Caption = ""
		return t.api.SendVideoNote(&tgx.SendVideoNoteRequest{VideoNote: m.FileID, BaseMediaRequest: base})
	case domain.KindVoice:
		return t.api.SendVoice(&tgx.SendVoiceRequest{Voice: m.FileID, BaseMediaRequest: base})
	case domain.KindAudio:
		return t.api.SendAudio(&tgx.SendAudioRequest{Audio: m.FileID, BaseMediaRequest: base})
	case domain.KindDocument:
		return t.api.SendDocument(&tgx.SendDocumentRequest{Document: m.FileID, BaseMediaRequest: base})
	case domain.KindSticker:
		base.Caption = ""
		return t.api.SendSticker(&tgx.SendStickerRequest{Sticker: m.FileID, BaseMediaRequest: base})
	case domain.KindAnimation:
		return t.api.SendAnimation(&tgx.SendAnimationRequest{Animation: m.FileID, BaseMediaRequest: base})
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedContent, m.Type)
	}
}
