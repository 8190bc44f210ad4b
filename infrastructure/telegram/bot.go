// Package telegram is the Telegram front-end: it turns bot updates into
// commands and sends outcomes back through the Bot API.
package telegram

import (
	"bytes"
	"chat-pair/domain"
	"chat-pair/i18n"
	"chat-pair/services"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/harshyadavone/tgx"
	"github.com/harshyadavone/tgx/models"
)

var slashCommands = map[string]domain.CommandKind{
	"start":  domain.CommandReset,
	"help":   domain.CommandHelp,
	"search": domain.CommandStartSearch,
	"stop":   domain.CommandEndChat,
	"next":   domain.CommandNextPartner,
	"stats":  domain.CommandStatsQuery,
	"status": domain.CommandStatus,
}

// Bot receives webhook updates and submits them to the pairing service.
type Bot struct {
	bot      *tgx.Bot
	service  services.IPairingService
	renderer *i18n.Renderer
	log      *slog.Logger
}

func NewBot(bot *tgx.Bot, service services.IPairingService, renderer *i18n.Renderer, log *slog.Logger) *Bot {
	return &Bot{bot: bot, service: service, renderer: renderer, log: log}
}

// mediaFiles maps the message types dispatched by tgx on the content kind
// and file id they carry.
var mediaFiles = map[string]func(ctx *tgx.Context) (domain.ContentKind, string){
	"Photo": func(ctx *tgx.Context) (domain.ContentKind, string) {
		if len(ctx.Photo) == 0 {
			return domain.KindPhoto, ""
		}
		// The last size is the largest.
		return domain.KindPhoto, ctx.Photo[len(ctx.Photo)-1].FileId
	},
	"Video": func(ctx *tgx.Context) (domain.ContentKind, string) {
		return domain.KindVideo, ctx.Video.FileId
	},
	"Voice": func(ctx *tgx.Context) (domain.ContentKind, string) {
		return domain.KindVoice, ctx.Voice.FileId
	},
	"Document": func(ctx *tgx.Context) (domain.ContentKind, string) {
		return domain.KindDocument, ctx.Document.FileId
	},
	"Sticker": func(ctx *tgx.Context) (domain.ContentKind, string) {
		return domain.KindSticker, ctx.Sticker.FileId
	},
	"Animation": func(ctx *tgx.Context) (domain.ContentKind, string) {
		return domain.KindAnimation, ctx.Animation.FileId
	},
	"Audio": func(ctx *tgx.Context) (domain.ContentKind, string) {
		return domain.KindAudio, ctx.Audio.FileId
	},
	"VideoNote": func(ctx *tgx.Context) (domain.ContentKind, string) {
		return domain.KindVideoNote, ctx.VideoNote.FileId
	},
}

// Register wires every command and message handler on the bot.
func (b *Bot) Register() {
	b.bot.OnError(func(ctx *tgx.Context, err error) {
		b.log.Error("Telegram handler failed", "chat_id", ctx.ChatID, "error", err)
	})

	for name, kind := range slashCommands {
		b.bot.OnCommand(name, func(ctx *tgx.Context) error {
			return b.submit(ctx.ChatID, kind, nil)
		})
	}

	b.bot.OnMessage("Text", func(ctx *tgx.Context) error {
		return b.onText(ctx.ChatID, ctx.Text)
	})
	for messageType, file := range mediaFiles {
		b.bot.OnMessage(messageType, func(ctx *tgx.Context) error {
			kind, fileID := file(ctx)
			return b.onMedia(ctx.ChatID, kind, fileID)
		})
	}
}

// onText treats keyboard button labels as commands and relays everything else.
func (b *Bot) onText(chatID int64, text string) error {
	if kind, ok := b.renderer.CommandOf(text); ok {
		return b.submit(chatID, kind, nil)
	}
	return b.submit(chatID, domain.CommandForwardPayload, domain.Text{Body: text})
}

func (b *Bot) onMedia(chatID int64, kind domain.ContentKind, fileID string) error {
	return b.submit(chatID, domain.CommandForwardPayload, domain.Media{Type: kind, FileID: fileID})
}

// submit never fails the update: a rejected command is only logged,
// Telegram would otherwise redeliver it.
func (b *Bot) submit(chatID int64, kind domain.CommandKind, payload domain.Payload) error {
	cmd := domain.Command{
		Sender:     domain.UserHandle(chatID),
		Kind:       kind,
		Payload:    payload,
		ReceivedAt: time.Now().UTC(),
	}
	if err := b.service.Submit(cmd); err != nil {
		b.log.Warn("Command rejected", "chat_id", chatID, "command", kind, "error", err)
	}
	return nil
}

// Serve registers the webhook and serves updates on addr until ctx is done.
func (b *Bot) Serve(ctx context.Context, addr string) error {
	if err := b.bot.SetWebhook(); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", b.webhook)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			b.log.Error("Webhook server shutdown failed", "error", err)
		}
	}()

	b.log.Info("Webhook server listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// webhook answers the updates tgx has no handler for, then hands the others over.
func (b *Bot) webhook(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		body, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		if b.fallback(body) {
			w.WriteHeader(http.StatusOK)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
	}
	b.bot.HandleWebhook(w, r)
}

// fallback submits the messages tgx would drop. Unknown slash commands get
// the help, content without a handler is forwarded as unsupported.
func (b *Bot) fallback(body []byte) bool {
	var update models.Update
	if err := json.Unmarshal(body, &update); err != nil || update.Message == nil {
		return false
	}
	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") {
		command := strings.TrimPrefix(strings.Fields(msg.Text)[0], "/")
		// tgx only knows the bare form of a command.
		name, _, mentioned := strings.Cut(command, "@")
		kind, known := slashCommands[name]
		if known && !mentioned {
			return false
		}
		if !known {
			kind = domain.CommandHelp
		}
		_ = b.submit(msg.Chat.Id, kind, nil)
		return true
	}
	if msg.Text != "" || msg.Photo != nil || msg.Video != nil || msg.Voice != nil ||
		msg.Document != nil || msg.Animation != nil || msg.Sticker != nil ||
		msg.Audio != nil || msg.VideoNote != nil {
		return false
	}
	kind := unhandledKind(body)
	b.log.Debug("Unsupported Telegram message", "chat_id", msg.Chat.Id, "kind", kind)
	_ = b.submit(msg.Chat.Id, domain.CommandForwardPayload, domain.Unsupported{Description: kind})
	return true
}

var unhandledFields = []string{"contact", "location", "venue", "dice", "poll", "game", "story", "invoice"}

func unhandledKind(body []byte) string {
	var raw struct {
		Message map[string]json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "unknown"
	}
	for _, field := range unhandledFields {
		if _, ok := raw.Message[field]; ok {
			return field
		}
	}
	return "unknown"
}
