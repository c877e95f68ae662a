// Package gateway receives Telegram webhook updates, enforces the
// single-operator whitelist, and dispatches messages and commands into the
// capture and task services.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/attach"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/capture"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/session"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/task"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/telegram"
)

const maxUpdateBytes = 1 << 20 // 1 MB

// BotAPI is the slice of the Telegram client the gateway consumes.
type BotAPI interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Transcriber converts audio bytes to text. An empty result is valid
// ("no speech").
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// AudioExtractor converts video (or audio container) bytes to MP3 bytes.
type AudioExtractor func(ctx context.Context, data []byte, format string) ([]byte, error)

// Deps are the collaborators a Gateway needs.
type Deps struct {
	API           BotAPI
	AllowedUserID int64
	WebhookSecret string
	Capture       *capture.Service
	Tasks         *task.Store
	Codec         *task.Codec
	Attachments   *attach.Store
	Transcriber   Transcriber
	ExtractAudio  AudioExtractor
	Logger        *slog.Logger
}

// Gateway handles webhook updates for the single whitelisted operator.
type Gateway struct {
	api          BotAPI
	allowedUser  int64
	secret       string
	capture      *capture.Service
	tasks        *task.Store
	codec        *task.Codec
	attach       *attach.Store
	transcriber  Transcriber
	extractAudio AudioExtractor
	sessions     *session.Store
	logger       *slog.Logger
}

// New creates a Gateway.
func New(d Deps) *Gateway {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		api:          d.API,
		allowedUser:  d.AllowedUserID,
		secret:       d.WebhookSecret,
		capture:      d.Capture,
		tasks:        d.Tasks,
		codec:        d.Codec,
		attach:       d.Attachments,
		transcriber:  d.Transcriber,
		extractAudio: d.ExtractAudio,
		sessions:     d.Capture.Sessions(),
		logger:       logger,
	}
}

// Webhook handles POST updates from the Bot API. Telegram retries any
// non-2xx response, so handler-level failures are reported to the operator
// in-chat and the request still returns 200.
func (g *Gateway) Webhook(w http.ResponseWriter, r *http.Request) {
	if g.secret != "" && r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != g.secret {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateBytes)
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	msg := update.Message
	if msg == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	if msg.From == nil || msg.From.ID != g.allowedUser {
		// Whitelist: exactly one operator, everyone else is dropped.
		g.logger.Warn("update from non-whitelisted user dropped",
			slog.Int64("user_id", userID(msg)))
		w.WriteHeader(http.StatusOK)
		return
	}

	g.dispatch(r.Context(), msg)
	w.WriteHeader(http.StatusOK)
}

func userID(msg *telegram.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}

// dispatch routes a whitelisted message to the matching handler.
func (g *Gateway) dispatch(ctx context.Context, msg *telegram.Message) {
	switch {
	case strings.HasPrefix(msg.Text, "/"):
		g.handleCommand(ctx, msg)
	case msg.Voice != nil:
		g.handleVoice(ctx, msg)
	case len(msg.Photo) > 0:
		g.handlePhoto(ctx, msg)
	case msg.Video != nil:
		g.handleVideo(ctx, msg, msg.Video.FileID, "vid", "video", msg.Caption, msg.Video.Duration)
	case msg.VideoNote != nil:
		g.handleVideo(ctx, msg, msg.VideoNote.FileID, "vnote", "video_note", "", msg.VideoNote.Duration)
	case msg.Document != nil:
		g.handleDocument(ctx, msg)
	case msg.Text != "":
		g.handleText(ctx, msg)
	}
}

// reply sends text back to the operator's chat; send failures are logged,
// never propagated.
func (g *Gateway) reply(ctx context.Context, msg *telegram.Message, text string) {
	if err := g.api.SendMessage(ctx, msg.Chat.ID, text); err != nil {
		g.logger.Error("reply failed",
			slog.Int64("chat_id", msg.Chat.ID),
			slog.String("error", err.Error()))
	}
}
