package telegram

import (
	"chat-pair/domain"
	"chat-pair/errors"
	"chat-pair/i18n"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/harshyadavone/tgx"
	"github.com/harshyadavone/tgx/models"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type sent struct {
	method   string
	chatID   int64
	value    string
	caption  string
	keyboard [][]string
}

type fakeAPI struct {
	calls []sent
	err   error
}

func (f *fakeAPI) record(method string, chatID int64, value string) error {
	f.calls = append(f.calls, sent{method: method, chatID: chatID, value: value})
	return f.err
}

func (f *fakeAPI) recordMedia(method string, base tgx.BaseMediaRequest, fileID string) error {
	f.calls = append(f.calls, sent{method: method, chatID: base.ChatId, value: fileID, caption: base.Caption})
	return f.err
}

func (f *fakeAPI) SendMessage(chatID int64, text string) error {
	return f.record("message", chatID, text)
}

func (f *fakeAPI) SendMessageWithOpts(req *tgx.SendMessageRequest) error {
	call := sent{method: "message", chatID: req.ChatId, value: req.Text}
	if markup, ok := req.ReplyMarkup.(models.ReplyKeyboardMarkup); ok {
		for _, row := range markup.Keyboard {
			var labels []string
			for _, button := range row {
				labels = append(labels, button.Text)
			}
			call.keyboard = append(call.keyboard, labels)
		}
	}
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeAPI) SendPhoto(req *tgx.SendPhotoRequest) error {
	return f.recordMedia("photo", req.BaseMediaRequest, req.Photo)
}

func (f *fakeAPI) SendVideo(req *tgx.SendVideoRequest) error {
	return f.recordMedia("video", req.BaseMediaRequest, req.Video)
}

func (f *fakeAPI) SendVoice(req *tgx.SendVoiceRequest) error {
	return f.recordMedia("voice", req.BaseMediaRequest, req.Voice)
}

func (f *fakeAPI) SendDocument(req *tgx.SendDocumentRequest) error {
	return f.recordMedia("document", req.BaseMediaRequest, req.Document)
}

func (f *fakeAPI) SendSticker(req *tgx.SendStickerRequest) error {
	return f.recordMedia("sticker", req.BaseMediaRequest, req.Sticker)
}

func (f *fakeAPI) SendAnimation(req *tgx.SendAnimationRequest) error {
	return f.recordMedia("animation", req.BaseMediaRequest, req.Animation)
}

func (f *fakeAPI) SendAudio(req *tgx.SendAudioRequest) error {
	return f.recordMedia("audio", req.BaseMediaRequest, req.Audio)
}

func (f *fakeAPI) SendVideoNote(req *tgx.SendVideoNoteRequest) error {
	return f.recordMedia("video_note", req.BaseMediaRequest, req.VideoNote)
}

func newTestTransport(t *testing.T) (*Transport, *fakeAPI) {
	renderer, err := i18n.NewRenderer("en")
	require.NoError(t, err)
	api := &fakeAPI{}
	return NewTransport(api, renderer, "en", logs.GetLoggerFromLevel(slog.LevelDebug)), api
}

func TestTransport_Send_TextIsPrefixed(t *testing.T) {
	req := require.New(t)
	transport, api := newTestTransport(t)

	// When a partner text is sent
	err := transport.Send(context.Background(), 42, domain.Text{Body: "hello"})

	// Then it is marked as coming from the partner
	req.NoError(err)
	req.Equal([]sent{{method: "message", chatID: 42, value: "💬 hello"}}, api.calls)
}

func TestTransport_Send_NoticeIsRendered(t *testing.T) {
	req := require.New(t)
	transport, api := newTestTransport(t)

	err := transport.Send(context.Background(), 7, domain.NewNotice(domain.NoticeSearchCancelled))

	req.NoError(err)
	req.Len(api.calls, 1)
	req.Equal("❌ Search cancelled.", api.calls[0].value)
}

func TestTransport_Send_MediaWithCaption(t *testing.T) {
	req := require.New(t)
	transport, api := newTestTransport(t)

	// When a photo with a caption is sent
	err := transport.Send(context.Background(), 5,
		domain.Media{Type: domain.KindPhoto, FileID: "file-1", Caption: "look"})

	// Then the caption is attached to the photo
	req.NoError(err)
	req.Equal([]sent{{method: "photo", chatID: 5, value: "file-1", caption: "💬 look"}}, api.calls)
}

func TestTransport_Send_MediaKinds(t *testing.T) {
	tests := []struct {
		name   string
		kind   domain.ContentKind
		method string
	}{
		{name: "audio", kind: domain.KindAudio, method: "audio"},
		{name: "video note", kind: domain.KindVideoNote, method: "video_note"},
		{name: "video", kind: domain.KindVideo, method: "video"},
		{name: "document", kind: domain.KindDocument, method: "document"},
		{name: "voice", kind: domain.KindVoice, method: "voice"},
		{name: "sticker", kind: domain.KindSticker, method: "sticker"},
		{name: "animation", kind: domain.KindAnimation, method: "animation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			transport, api := newTestTransport(t)

			req.NoError(transport.Send(context.Background(), 1, domain.Media{Type: tt.kind, FileID: "f"}))
			req.Len(api.calls, 1)
			req.Equal(tt.method, api.calls[0].method)
		})
	}
}

func TestTransport_Send_ContactLocationDice(t *testing.T) {
	req := require.New(t)
	transport, api := newTestTransport(t)

	req.NoError(transport.Send(context.Background(), 1, domain.Contact{PhoneNumber: "+100", FirstName: "Ann"}))
	req.NoError(transport.Send(context.Background(), 1, domain.Location{Latitude: 1.5, Longitude: 2.5}))
	req.NoError(transport.Send(context.Background(), 1, domain.Dice{Emoji: "🎲"}))

	req.Len(api.calls, 3)
	req.Equal("📇 Ann\n📞 +100", api.calls[0].value)
	req.Contains(api.calls[1].value, "1.500000,2.500000")
	req.Equal("🎲", api.calls[2].value)
}

func TestTransport_Send_Failures(t *testing.T) {
	req := require.New(t)
	transport, api := newTestTransport(t)

	// Inline bytes cannot be sent by file id
	err := transport.Send(context.Background(), 1, domain.Media{Type: domain.KindPhoto, Data: []byte{1}})
	req.ErrorIs(err, errors.ErrUnsupportedContent)

	// The Bot API refusing is a delivery failure
	api.err = fmt.Errorf("Forbidden: bot was blocked by the user")
	req.Error(transport.Send(context.Background(), 1, domain.Text{Body: "hi"}))

	// An expired context never reaches the API
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.ErrorIs(transport.Send(ctx, 1, domain.Text{Body: "hi"}), errors.ErrRecipientUnreachable)
	req.Len(api.calls, 1)
}

func TestTransport_Send_VideoNoteDropsCaption(t *testing.T) {
	req := require.New(t)
	transport, api := newTestTransport(t)

	req.NoError(transport.Send(context.Background(), 1,
		domain.Media{Type: domain.KindVideoNote, FileID: "round", Caption: "ignored"}))

	req.Equal([]sent{{method: "video_note", chatID: 1, value: "round"}}, api.calls)
}

func TestTransport_Send_NoticeKeyboards(t *testing.T) {
	tests := []struct {
		name     string
		notice   domain.Notice
		keyboard [][]string
	}{
		{
			name:     "partner found shows the chat keyboard",
			notice:   domain.NewNotice(domain.NoticePartnerFound),
			keyboard: [][]string{{"⏭ Next", "🛑 Stop"}},
		},
		{
			name:     "searching shows the cancel button",
			notice:   domain.Notice{Key: domain.NoticeSearchingQueued, Waiting: 2},
			keyboard: [][]string{{"❌ Cancel search"}},
		},
		{
			name:     "partner left shows the main menu",
			notice:   domain.NewNotice(domain.NoticePartnerLeft),
			keyboard: [][]string{{"🔍 Find a partner"}, {"ℹ️ Help"}},
		},
		{
			name:   "stats keep the current keyboard",
			notice: domain.NewNotice(domain.NoticeStats),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			transport, api := newTestTransport(t)

			req.NoError(transport.Send(context.Background(), 9, tt.notice))

			req.Len(api.calls, 1)
			req.Equal(tt.keyboard, api.calls[0].keyboard)
		})
	}
}
