// Package attach stores raw attachment bytes under the vault's attachments
// folder and hands back the wikilink reference notes embed.
package attach

import (
	"fmt"
	"path"
	"time"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/vault"
)

// DefaultPrefix is used when the caller does not pick one.
const DefaultPrefix = "tg"

// Store persists attachments inside the vault.
type Store struct {
	fs     *vault.FS
	folder string // vault-relative, forward slashes
	loc    *time.Location
	now    func() time.Time
}

// NewStore creates an attachment store writing under folder.
func NewStore(fs *vault.FS, folder string, loc *time.Location) *Store {
	return &Store{
		fs:     fs,
		folder: folder,
		loc:    loc,
		now:    time.Now,
	}
}

// Save writes the bytes as "<prefix>-YYYY-MM-DD-HHMMSS.<ext>" under the
// attachments folder, creating parent directories. It returns the absolute
// stored path and the vault-relative reference to embed in notes. The
// timestamped name is unique enough in practice, not guaranteed unique.
func (s *Store) Save(data []byte, extension, prefix string) (string, string, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	now := s.now().In(s.loc)

	filename := fmt.Sprintf("%s-%s.%s", prefix, now.Format("2006-01-02-150405"), extension)
	rel := path.Join(s.folder, filename)

	if err := s.fs.Write(rel, data); err != nil {
		return "", "", err
	}
	abs, err := s.fs.Abs(rel)
	if err != nil {
		return "", "", err
	}
	return abs, rel, nil
}
