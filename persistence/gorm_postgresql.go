// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wordchain/gameserver/models"
)

// GormPostgreSQL is the GORM-backed implementation of WordStore.
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL opens the dictionary database and migrates its tables.
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// WordModel 사전 단어 테이블
type WordModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex:idx_name;not null;size:100"`
	Tag  string `gorm:"index;size:10"`
}

func (WordModel) TableName() string { return "dictionary" }

// GameRecordModel 끝난 방의 단어 사슬 기록
type GameRecordModel struct {
	ID        uint     `gorm:"primaryKey"`
	RoomID    string   `gorm:"index;not null"`
	Players   []string `gorm:"type:jsonb;serializer:json"`
	Words     []string `gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time
}

func (GameRecordModel) TableName() string { return "game_records" }

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&WordModel{},
		&GameRecordModel{},
	)
}

// FindByPrefixAndTag returns random dictionary words for the AI candidate
// search.
func (p *GormPostgreSQL) FindByPrefixAndTag(prefix, tag string, limit int) ([]models.Word, error) {
	var rows []WordModel
	err := p.db.
		Where("name LIKE ? AND tag = ?", prefix+"%", tag).
		Order("RANDOM()").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	words := make([]models.Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, models.Word{Name: row.Name, Tag: row.Tag})
	}
	return words, nil
}

// FindByName 단어 단건 조회
func (p *GormPostgreSQL) FindByName(word string) (models.Word, error) {
	var row WordModel
	if err := p.db.Where("name = ?", word).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Word{}, ErrRecordNotFound
		}
		return models.Word{}, err
	}
	return models.Word{Name: row.Name, Tag: row.Tag}, nil
}

// SaveGameRecord 게임 기록 저장
func (p *GormPostgreSQL) SaveGameRecord(roomID string, players []string, words []string) error {
	record := GameRecordModel{
		RoomID:  roomID,
		Players: players,
		Words:   words,
	}
	return p.db.Create(&record).Error
}

// Close 데이터베이스 연결 종료
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
