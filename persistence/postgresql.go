// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/wordchain/gameserver/models"
)

// PostgreSQL is the database/sql implementation of WordStore.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL opens the dictionary database over database/sql.
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS dictionary (
            id SERIAL PRIMARY KEY,
            name VARCHAR(100) UNIQUE NOT NULL,
            tag VARCHAR(10)
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_name ON dictionary (name)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            players JSONB NOT NULL,
            words JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	return err
}

func (p *PostgreSQL) FindByPrefixAndTag(prefix, tag string, limit int) ([]models.Word, error) {
	rows, err := p.db.Query(
		`SELECT name, tag FROM dictionary WHERE name LIKE $1 AND tag = $2 ORDER BY RANDOM() LIMIT $3`,
		prefix+"%", tag, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		if err := rows.Scan(&w.Name, &w.Tag); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (p *PostgreSQL) FindByName(word string) (models.Word, error) {
	var w models.Word
	err := p.db.QueryRow(`SELECT name, tag FROM dictionary WHERE name = $1`, word).Scan(&w.Name, &w.Tag)
	if err == sql.ErrNoRows {
		return models.Word{}, ErrRecordNotFound
	}
	return w, err
}

func (p *PostgreSQL) SaveGameRecord(roomID string, players []string, words []string) error {
	playersJSON, err := json.Marshal(players)
	if err != nil {
		return err
	}
	wordsJSON, err := json.Marshal(words)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(
		`INSERT INTO game_records (room_id, players, words) VALUES ($1, $2, $3)`,
		roomID, playersJSON, wordsJSON,
	)
	return err
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
