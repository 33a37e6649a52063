// Package journal records scene events to sqlite so that a session can be
// replayed into a fresh scene.
package journal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/logging"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Kind string

const (
	KindSpawn Kind = "spawn"
	KindMove  Kind = "move"
	KindBuy   Kind = "buy"
	KindHouse Kind = "house"
	KindHotel Kind = "hotel"
)

var ErrUnknownKind = errors.New("unknown event kind")

type Event struct {
	ID      uint   `gorm:"primaryKey"`
	Session string `gorm:"index:idx_session_seq,priority:1"`
	Seq     int    `gorm:"index:idx_session_seq,priority:2"`
	Kind    Kind
	Slot    int
	Tile    int
	// Comma separated start tiles of a spawn.
	Tiles string
	At    time.Time
}

func encodeTiles(tiles []board.TileIndex) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = strconv.Itoa(int(t))
	}
	return strings.Join(parts, ",")
}

// SpawnTiles decodes the tiles of a spawn event.
func (e Event) SpawnTiles() ([]board.TileIndex, error) {
	if e.Tiles == "" {
		return nil, nil
	}
	var tiles []board.TileIndex
	for _, part := range strings.Split(e.Tiles, ",") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("event %d tiles %q: %w", e.ID, e.Tiles, err)
		}
		tiles = append(tiles, board.TileIndex(n))
	}
	return tiles, nil
}

type Journal struct {
	db      *gorm.DB
	session string
	seq     int
}

var memoryDBs atomic.Int64

// Open opens (creating if needed) the journal at path and appends to
// session. An empty path gives a private in-memory journal.
func Open(path, session string) (*Journal, error) {
	dsn := path
	if dsn == "" {
		dsn = fmt.Sprintf("file:journal%d?mode=memory&cache=shared", memoryDBs.Add(1))
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening journal %q: %w", path, err)
	}
	if err := db.AutoMigrate(&Event{}); err != nil {
		return nil, fmt.Errorf("migrating journal: %w", err)
	}

	j := &Journal{db: db, session: session}
	var last struct{ Max *int }
	err = db.Model(&Event{}).Select("MAX(seq) AS max").Where("session = ?", session).Scan(&last).Error
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	if last.Max != nil {
		j.seq = *last.Max + 1
	}
	logging.Info("journal open", "path", path, "session", session, "next", j.seq)
	return j, nil
}

func (j *Journal) Session() string {
	return j.session
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record appends e to the current session.
func (j *Journal) Record(e Event) error {
	switch e.Kind {
	case KindSpawn, KindMove, KindBuy, KindHouse, KindHotel:
	default:
		return fmt.Errorf("%q: %w", e.Kind, ErrUnknownKind)
	}
	e.ID = 0
	e.Session = j.session
	e.Seq = j.seq
	if e.At.IsZero() {
		e.At = time.Now()
	}
	if err := j.db.Create(&e).Error; err != nil {
		return fmt.Errorf("recording %s: %w", e.Kind, err)
	}
	j.seq++
	logging.Trace("journal event", "kind", e.Kind, "seq", e.Seq)
	return nil
}

// Events lists a session's events in the order they were recorded.
func (j *Journal) Events(session string) ([]Event, error) {
	var events []Event
	err := j.db.Where("session = ?", session).Order("seq").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", session, err)
	}
	return events, nil
}

func (j *Journal) Sessions() ([]string, error) {
	var sessions []string
	err := j.db.Model(&Event{}).Distinct().Order("session").Pluck("session", &sessions).Error
	return sessions, err
}
