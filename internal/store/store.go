package store

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MatchRecord is one concluded match on a board.
type MatchRecord struct {
	ID        uint   `gorm:"primarykey"`
	BoardID   string `gorm:"index"`
	MatchID   string `gorm:"index"`
	Winner    int    // seat index, -1 when the provider never reported one
	CreatedAt time.Time
}

// LegRecord is one won leg within a match.
type LegRecord struct {
	ID         uint   `gorm:"primarykey"`
	BoardID    string `gorm:"index"`
	MatchID    string `gorm:"index"`
	Winner     int
	WinnerName string
	CreatedAt  time.Time
}

// TurnRecord is one announced turn: its total, dart count and bust flag.
type TurnRecord struct {
	ID        uint   `gorm:"primarykey"`
	BoardID   string `gorm:"index"`
	MatchID   string `gorm:"index"`
	Seat      int
	SeatName  string
	Score     int
	Darts     int
	Busted    bool
	CreatedAt time.Time
}

// Store persists match history. All writes are best-effort and asynchronous:
// records go onto a buffered queue drained by one writer goroutine, failures
// are logged and swallowed, and when the queue is full records are dropped so
// the board loops never block on the database.
type Store struct {
	db     *gorm.DB
	log    *zap.Logger
	writes chan any
}

const writeQueueSize = 256

func Open(dsn string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&MatchRecord{}, &LegRecord{}, &TurnRecord{}); err != nil {
		return nil, err
	}
	s := &Store{db: db, log: log, writes: make(chan any, writeQueueSize)}
	go s.writer()
	return s, nil
}

func (s *Store) writer() {
	for rec := range s.writes {
		if err := s.db.Create(rec).Error; err != nil {
			s.log.Warn("history write failed", zap.Error(err))
		}
	}
}

func (s *Store) enqueue(rec any) {
	select {
	case s.writes <- rec:
	default:
		s.log.Warn("history queue full, dropping record")
	}
}

func (s *Store) RecordTurn(boardID, matchID string, seat int, name string, score, darts int, busted bool) {
	s.enqueue(&TurnRecord{
		BoardID:  boardID,
		MatchID:  matchID,
		Seat:     seat,
		SeatName: name,
		Score:    score,
		Darts:    darts,
		Busted:   busted,
	})
}

func (s *Store) RecordLeg(boardID, matchID string, winner int, name string) {
	s.enqueue(&LegRecord{BoardID: boardID, MatchID: matchID, Winner: winner, WinnerName: name})
}

func (s *Store) RecordMatch(boardID, matchID string, winner int) {
	s.enqueue(&MatchRecord{BoardID: boardID, MatchID: matchID, Winner: winner})
}
