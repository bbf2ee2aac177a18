// persistence/interface.go
package persistence

import (
	"errors"

	"github.com/wordchain/gameserver/models"
)

// WordStore 사전 단어 저장소
type WordStore interface {
	// FindByPrefixAndTag returns up to limit dictionary words starting with
	// prefix and carrying the part-of-speech tag, in random order.
	FindByPrefixAndTag(prefix, tag string, limit int) ([]models.Word, error)
	// FindByName returns the dictionary entry for word, or ErrRecordNotFound.
	FindByName(word string) (models.Word, error)
	// SaveGameRecord persists the word chain of a finished room.
	SaveGameRecord(roomID string, players []string, words []string) error
	Close() error
}

var ErrRecordNotFound = errors.New("record not found")
