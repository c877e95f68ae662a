package telegram

// Update is one incoming Bot API update. Only message updates are consumed;
// the webhook drops everything else.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the subset of the Bot API message object the bot reads.
type Message struct {
	MessageID int64       `json:"message_id"`
	From      *User       `json:"from"`
	Chat      Chat        `json:"chat"`
	Text      string      `json:"text"`
	Caption   string      `json:"caption"`
	Voice     *Voice      `json:"voice"`
	Photo     []PhotoSize `json:"photo"`
	Video     *Video      `json:"video"`
	VideoNote *VideoNote  `json:"video_note"`
	Document  *Document   `json:"document"`
}

// User identifies a Telegram account.
type User struct {
	ID int64 `json:"id"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// Voice is a voice message (OGG/Opus).
type Voice struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration"`
}

// PhotoSize is one resolution of a photo; Telegram sends several, smallest
// first.
type PhotoSize struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int64  `json:"file_size"`
}

// Video is a video message.
type Video struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration"`
	MimeType string `json:"mime_type"`
}

// VideoNote is a round video message; it never carries a caption.
type VideoNote struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration"`
}

// Document is a generic file message.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

// File is the Bot API file descriptor used for downloads.
type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
}
