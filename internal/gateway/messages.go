package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/capture"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/telegram"
)

// handleText captures a plain text message, with a "task:" shortcut that
// appends to the task inbox instead.
func (g *Gateway) handleText(ctx context.Context, msg *telegram.Message) {
	text := msg.Text
	g.logger.Info("received text",
		slog.Int64("user_id", userID(msg)),
		slog.Int("length", len(text)))

	if len(text) >= 5 && strings.EqualFold(text[:5], "task:") {
		path, err := g.tasks.Add(text, false, "")
		if err != nil {
			g.logger.Error("task add failed", slog.String("error", err.Error()))
			g.reply(ctx, msg, "❌ Failed to add task")
			return
		}
		g.logger.Info("task added", slog.String("path", path))
		g.reply(ctx, msg, "✓ Task added")
		return
	}

	if _, err := g.capture.Capture(userID(msg), capture.Input{Content: text, Kind: "text"}); err != nil {
		g.logger.Error("capture failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Capture failed")
		return
	}
	g.reply(ctx, msg, "✓ Captured")
}

// handleVoice downloads the voice file, transcribes it, and captures the
// text. A transcription failure aborts the capture entirely: no note, no
// attachment, nothing to undo.
func (g *Gateway) handleVoice(ctx context.Context, msg *telegram.Message) {
	g.logger.Info("received voice",
		slog.Int64("user_id", userID(msg)),
		slog.Int("duration", msg.Voice.Duration))

	data, err := g.api.Download(ctx, msg.Voice.FileID)
	if err != nil {
		g.logger.Error("voice download failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Download failed")
		return
	}

	g.reply(ctx, msg, "🎙 Transcribing...")
	transcription, err := g.transcribeOGG(ctx, data)
	if err != nil {
		g.logger.Error("transcription failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Transcription failed")
		return
	}
	if transcription == "" {
		g.reply(ctx, msg, "❌ No speech detected")
		return
	}

	if _, err := g.capture.Capture(userID(msg), capture.Input{Content: transcription, Kind: "voice"}); err != nil {
		g.logger.Error("capture failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Capture failed")
		return
	}
	g.reply(ctx, msg, fmt.Sprintf("✓ Captured (%ds)", msg.Voice.Duration))
}

// transcribeOGG converts Telegram's OGG/Opus audio to MP3 and runs it
// through the transcriber.
func (g *Gateway) transcribeOGG(ctx context.Context, ogg []byte) (string, error) {
	mp3, err := g.extractAudio(ctx, ogg, "ogg")
	if err != nil {
		return "", err
	}
	return g.transcriber.Transcribe(ctx, mp3)
}

// handlePhoto stores the largest photo size as an attachment and captures
// the caption with the embed.
func (g *Gateway) handlePhoto(ctx context.Context, msg *telegram.Message) {
	photo := msg.Photo[len(msg.Photo)-1]
	g.logger.Info("received photo",
		slog.Int64("user_id", userID(msg)),
		slog.String("file_id", photo.FileID))

	data, err := g.api.Download(ctx, photo.FileID)
	if err != nil {
		g.logger.Error("photo download failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Download failed")
		return
	}

	absPath, ref, err := g.attach.Save(data, "jpg", "")
	if err != nil {
		g.logger.Error("attachment save failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Capture failed")
		return
	}

	in := capture.Input{
		Content:         msg.Caption,
		Kind:            "photo",
		AttachmentRef:   ref,
		AttachmentPaths: []string{absPath},
	}
	if _, err := g.capture.Capture(userID(msg), in); err != nil {
		g.logger.Error("capture failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Capture failed")
		return
	}
	g.reply(ctx, msg, "✓ Captured")
}

// handleVideo stores the video as an attachment, then tries audio
// extraction and transcription. Both are best-effort: on failure the
// capture degrades to caption and attachment only.
func (g *Gateway) handleVideo(ctx context.Context, msg *telegram.Message, fileID, prefix, kind, caption string, duration int) {
	g.logger.Info("received "+kind,
		slog.Int64("user_id", userID(msg)),
		slog.Int("duration", duration))

	data, err := g.api.Download(ctx, fileID)
	if err != nil {
		g.logger.Error("video download failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Download failed")
		return
	}

	absPath, ref, err := g.attach.Save(data, "mp4", prefix)
	if err != nil {
		g.logger.Error("attachment save failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Capture failed")
		return
	}

	g.reply(ctx, msg, "Processing video...")
	transcription := ""
	if mp3, exErr := g.extractAudio(ctx, data, "mp4"); exErr != nil {
		g.logger.Warn("video audio extraction failed", slog.String("error", exErr.Error()))
	} else if text, trErr := g.transcriber.Transcribe(ctx, mp3); trErr != nil {
		g.logger.Warn("video transcription failed", slog.String("error", trErr.Error()))
	} else {
		transcription = text
	}

	content := caption
	if transcription != "" {
		if content != "" {
			content = content + "\n\n**Transcription:**\n" + transcription
		} else {
			content = "**Transcription:**\n" + transcription
		}
	}

	in := capture.Input{
		Content:         content,
		Kind:            kind,
		AttachmentRef:   ref,
		AttachmentPaths: []string{absPath},
	}
	if _, err := g.capture.Capture(userID(msg), in); err != nil {
		g.logger.Error("capture failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Capture failed")
		return
	}
	g.reply(ctx, msg, fmt.Sprintf("✓ Captured (%ds)", duration))
}

// handleDocument stores the document as an attachment and captures the
// caption plus the original filename.
func (g *Gateway) handleDocument(ctx context.Context, msg *telegram.Message) {
	doc := msg.Document
	filename := doc.FileName
	if filename == "" {
		filename = "file"
	}
	g.logger.Info("received document",
		slog.Int64("user_id", userID(msg)),
		slog.String("filename", filename))

	data, err := g.api.Download(ctx, doc.FileID)
	if err != nil {
		g.logger.Error("document download failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Download failed")
		return
	}

	extension := "bin"
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		extension = filename[i+1:]
	}

	absPath, ref, err := g.attach.Save(data, extension, "doc")
	if err != nil {
		g.logger.Error("attachment save failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Capture failed")
		return
	}

	content := fmt.Sprintf("Original filename: `%s`", filename)
	if msg.Caption != "" {
		content = msg.Caption + "\n\n" + content
	}

	in := capture.Input{
		Content:         content,
		Kind:            "document",
		AttachmentRef:   ref,
		AttachmentPaths: []string{absPath},
	}
	if _, err := g.capture.Capture(userID(msg), in); err != nil {
		g.logger.Error("capture failed", slog.String("error", err.Error()))
		g.reply(ctx, msg, "❌ Capture failed")
		return
	}
	g.reply(ctx, msg, "✓ Captured")
}
