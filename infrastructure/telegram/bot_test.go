package telegram

import (
	"chat-pair/domain"
	"chat-pair/errors"
	"chat-pair/i18n"
	"chat-pair/mocks"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harshyadavone/tgx"
	"github.com/harshyadavone/tgx/models"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestBot(t *testing.T) (*Bot, *mocks.MockIPairingService) {
	renderer, err := i18n.NewRenderer("en")
	require.NoError(t, err)
	service := mocks.NewMockIPairingService(gomock.NewController(t))
	return NewBot(nil, service, renderer, logs.GetLoggerFromLevel(slog.LevelDebug)), service
}

func TestBot_OnText_ForwardsPlainText(t *testing.T) {
	req := require.New(t)
	bot, service := newTestBot(t)

	// Given the service receives a forward
	service.EXPECT().Submit(gomock.Any()).DoAndReturn(func(cmd domain.Command) error {
		req.Equal(domain.UserHandle(12), cmd.Sender)
		req.Equal(domain.CommandForwardPayload, cmd.Kind)
		req.Equal(domain.Text{Body: "hello"}, cmd.Payload)
		return nil
	}).Times(1)

	// When plain text arrives
	req.NoError(bot.onText(12, "hello"))
}

func TestBot_OnText_ButtonLabelIsCommand(t *testing.T) {
	req := require.New(t)
	bot, service := newTestBot(t)

	// Given the service receives a search
	service.EXPECT().Submit(gomock.Any()).DoAndReturn(func(cmd domain.Command) error {
		req.Equal(domain.CommandStartSearch, cmd.Kind)
		req.Nil(cmd.Payload)
		return nil
	}).Times(1)

	// When the russian search button is pressed
	req.NoError(bot.onText(12, "🔍 Найти собеседника"))
}

func TestBot_OnMedia(t *testing.T) {
	req := require.New(t)
	bot, service := newTestBot(t)

	service.EXPECT().Submit(gomock.Any()).DoAndReturn(func(cmd domain.Command) error {
		req.Equal(domain.Media{Type: domain.KindSticker, FileID: "sticker-1"}, cmd.Payload)
		return nil
	}).Times(1)

	req.NoError(bot.onMedia(3, domain.KindSticker, "sticker-1"))
}

func TestBot_Submit_RejectionDoesNotFailUpdate(t *testing.T) {
	req := require.New(t)
	bot, service := newTestBot(t)

	// Given a full command queue
	service.EXPECT().Submit(gomock.Any()).Return(errors.ErrCommandQueueFull).Times(1)

	// Then the update is still acknowledged
	req.NoError(bot.submit(3, domain.CommandHelp, nil))
}

func TestSlashCommands(t *testing.T) {
	req := require.New(t)

	req.Equal(domain.CommandReset, slashCommands["start"])
	req.Equal(domain.CommandEndChat, slashCommands["stop"])
	req.Equal(domain.CommandNextPartner, slashCommands["next"])
	req.Equal(domain.CommandStatsQuery, slashCommands["stats"])
}

func TestMediaFiles(t *testing.T) {
	tests := []struct {
		messageType string
		ctx         *tgx.Context
		kind        domain.ContentKind
		fileID      string
	}{
		{"Photo", &tgx.Context{Photo: []*models.PhotoSize{{FileId: "small"}, {FileId: "large"}}}, domain.KindPhoto, "large"},
		{"Audio", &tgx.Context{Audio: &models.Audio{FileId: "track"}}, domain.KindAudio, "track"},
		{"VideoNote", &tgx.Context{VideoNote: &models.VideoNote{FileId: "round"}}, domain.KindVideoNote, "round"},
		{"Voice", &tgx.Context{Voice: &models.Voice{FileId: "voice"}}, domain.KindVoice, "voice"},
	}
	for _, tt := range tests {
		t.Run(tt.messageType, func(t *testing.T) {
			req := require.New(t)
			file, ok := mediaFiles[tt.messageType]
			req.True(ok)

			kind, fileID := file(tt.ctx)

			req.Equal(tt.kind, kind)
			req.Equal(tt.fileID, fileID)
		})
	}
}

func TestBot_Webhook_UnhandledContentIsUnsupported(t *testing.T) {
	req := require.New(t)
	bot, service := newTestBot(t)

	// Given the service receives an unsupported forward
	service.EXPECT().Submit(gomock.Any()).DoAndReturn(func(cmd domain.Command) error {
		req.Equal(domain.UserHandle(77), cmd.Sender)
		req.Equal(domain.CommandForwardPayload, cmd.Kind)
		req.Equal(domain.Unsupported{Description: "contact"}, cmd.Payload)
		return nil
	}).Times(1)

	// When a contact card arrives, tgx has no handler for it
	body := `{"update_id":1,"message":{"message_id":3,"chat":{"id":77},"contact":{"phone_number":"+1","first_name":"Ann"}}}`
	recorder := httptest.NewRecorder()
	bot.webhook(recorder, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))

	// Then the update is acknowledged
	req.Equal(http.StatusOK, recorder.Code)
}

func TestBot_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		handled  bool
		expected *domain.Command
	}{
		{
			name:     "location",
			body:     `{"message":{"chat":{"id":5},"location":{"latitude":1,"longitude":2}}}`,
			handled:  true,
			expected: &domain.Command{Sender: 5, Kind: domain.CommandForwardPayload, Payload: domain.Unsupported{Description: "location"}},
		},
		{
			name:     "unknown command gets the help",
			body:     `{"message":{"chat":{"id":5},"text":"/dance"}}`,
			handled:  true,
			expected: &domain.Command{Sender: 5, Kind: domain.CommandHelp},
		},
		{
			name:     "command addressed to the bot",
			body:     `{"message":{"chat":{"id":5},"text":"/next@pair_bot"}}`,
			handled:  true,
			expected: &domain.Command{Sender: 5, Kind: domain.CommandNextPartner},
		},
		{name: "known command is left to tgx", body: `{"message":{"chat":{"id":5},"text":"/search"}}`},
		{name: "text is left to tgx", body: `{"message":{"chat":{"id":5},"text":"hi"}}`},
		{name: "audio is left to tgx", body: `{"message":{"chat":{"id":5},"audio":{"file_id":"a"}}}`},
		{name: "callback is left to tgx", body: `{"callback_query":{"id":"1","data":"x"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			bot, service := newTestBot(t)
			if tt.expected != nil {
				service.EXPECT().Submit(gomock.Any()).DoAndReturn(func(cmd domain.Command) error {
					req.Equal(tt.expected.Sender, cmd.Sender)
					req.Equal(tt.expected.Kind, cmd.Kind)
					req.Equal(tt.expected.Payload, cmd.Payload)
					return nil
				}).Times(1)
			}

			req.Equal(tt.handled, bot.fallback([]byte(tt.body)))
		})
	}
}
