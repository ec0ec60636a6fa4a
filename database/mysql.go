package database

import (
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"huddle/config"
)

var DB *sql.DB

func Connect() error {
	var err error
	DB, err = sql.Open("mysql", config.Cfg.MysqlDSN)
	if err != nil {
		return err
	}

	if err = DB.Ping(); err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)

	log.Println("Database connected successfully")
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

func CreateTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id          VARCHAR(36) PRIMARY KEY,
			username    VARCHAR(50) NOT NULL,
			email       VARCHAR(255) NOT NULL,
			avatar_url  VARCHAR(255),
			password    VARCHAR(255) NOT NULL,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uk_username (username),
			UNIQUE KEY uk_email (email)
		)`,
		`CREATE TABLE IF NOT EXISTS friend_requests (
			id          VARCHAR(36) PRIMARY KEY,
			from_id     VARCHAR(36) NOT NULL,
			to_id       VARCHAR(36) NOT NULL,
			status      ENUM('pending', 'accepted', 'rejected') DEFAULT 'pending',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uk_pair (from_id, to_id),
			INDEX idx_to (to_id)
		)`,
		`CREATE TABLE IF NOT EXISTS friendships (
			id          VARCHAR(36) PRIMARY KEY,
			user_id     VARCHAR(36) NOT NULL,
			friend_id   VARCHAR(36) NOT NULL,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_friendship (user_id, friend_id),
			INDEX idx_friend (friend_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id          VARCHAR(36) PRIMARY KEY,
			sender_id   VARCHAR(36) NOT NULL,
			receiver_id VARCHAR(36) NOT NULL,
			content     TEXT NOT NULL,
			is_read     BOOLEAN DEFAULT FALSE,
			created_at  DATETIME(3) DEFAULT CURRENT_TIMESTAMP(3),
			INDEX idx_conversation (sender_id, receiver_id, created_at),
			INDEX idx_unread (receiver_id, sender_id, is_read)
		)`,
	}

	for _, table := range tables {
		if _, err := DB.Exec(table); err != nil {
			return err
		}
	}

	log.Println("Database tables created successfully")
	return nil
}
