//go:generate go run go.uber.org/mock/mockgen -source=journal.go -destination=../mocks/mock_journal_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const journalPrefix = "journal:"

type IJournalRepository interface {
	Append(entry JournalEntry) error
	List(limit int, cursor *string) ([]JournalEntry, *string, error)
}

// JournalEntry is one session lifecycle transition. It never carries user content.
type JournalEntry struct {
	ID      uuid.UUID
	Event   string
	Handle  int64
	Partner int64
	Reason  string
	At      time.Time
}

type JournalRepository struct {
	db  *badger.DB
	log *slog.Logger
	ttl time.Duration
}

func NewJournalRepository(db *badger.DB, log *slog.Logger, ttl time.Duration) *JournalRepository {
	return &JournalRepository{db: db, log: log, ttl: ttl}
}

// Append persists an entry under "journal:{timestamp_padded}:{uuid}".
// The padded timestamp keeps keys in chronological order.
// Entries expire after the configured ttl, zero keeps them forever.
func (j *JournalRepository) Append(entry JournalEntry) error {
	key := fmt.Sprintf("%s%019d:%s", journalPrefix, entry.At.UnixNano(), entry.ID)
	value, err := fromJournalEntry(entry)
	if err != nil {
		return err
	}
	bytes, err := proto.Marshal(value)
	if err != nil {
		return err
	}
	return j.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), bytes)
		if j.ttl > 0 {
			e = e.WithTTL(j.ttl)
		}
		return txn.SetEntry(e)
	})
}

// List returns the newest entries first, at most limit of them.
// The returned cursor resumes the scan right after the last entry.
func (j *JournalRepository) List(limit int, cursor *string) ([]JournalEntry, *string, error) {
	var raw [][]byte
	var lastKey string
	err := j.db.View(func(txn *badger.Txn) error {
		prefix := []byte(journalPrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append([]byte(journalPrefix), []byte("9999999999999999999")...)
		default:
			seekKey = append([]byte(journalPrefix), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(raw) == limit {
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			raw = append(raw, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	entries := make([]JournalEntry, 0, len(raw))
	for _, b := range raw {
		var value structpb.Struct
		if err = proto.Unmarshal(b, &value); err != nil {
			return nil, nil, err
		}
		entry, err := toJournalEntry(&value)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}
	return entries, &lastKey, nil
}

// Handles are kept as strings, a float64 cannot hold every int64.
func fromJournalEntry(entry JournalEntry) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":      entry.ID.String(),
		"event":   entry.Event,
		"handle":  strconv.FormatInt(entry.Handle, 10),
		"partner": strconv.FormatInt(entry.Partner, 10),
		"reason":  entry.Reason,
		"at":      entry.At.UTC().Format(time.RFC3339Nano),
	})
}

func toJournalEntry(value *structpb.Struct) (JournalEntry, error) {
	fields := value.GetFields()
	id, err := uuid.Parse(fields["id"].GetStringValue())
	if err != nil {
		return JournalEntry{}, err
	}
	handle, err := strconv.ParseInt(fields["handle"].GetStringValue(), 10, 64)
	if err != nil {
		return JournalEntry{}, err
	}
	partner, err := strconv.ParseInt(fields["partner"].GetStringValue(), 10, 64)
	if err != nil {
		return JournalEntry{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, fields["at"].GetStringValue())
	if err != nil {
		return JournalEntry{}, err
	}
	return JournalEntry{
		ID:      id,
		Event:   fields["event"].GetStringValue(),
		Handle:  handle,
		Partner: partner,
		Reason:  fields["reason"].GetStringValue(),
		At:      at,
	}, nil
}
