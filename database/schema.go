package database

// The friendships pair index spans the unordered pair, so A->B and B->A
// cannot coexist.
var mysqlTables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          VARCHAR(36) PRIMARY KEY,
		email       VARCHAR(255) NOT NULL,
		password    VARCHAR(255) NOT NULL,
		created_at  DATETIME(6) NOT NULL,
		updated_at  DATETIME(6) NOT NULL,
		UNIQUE KEY uk_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id          VARCHAR(36) PRIMARY KEY,
		first_name  VARCHAR(100),
		last_name   VARCHAR(100),
		avatar_url  VARCHAR(255),
		created_at  DATETIME(6) NOT NULL,
		updated_at  DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS friendships (
		id          VARCHAR(36) PRIMARY KEY,
		user_id     VARCHAR(36) NOT NULL,
		friend_id   VARCHAR(36) NOT NULL,
		status      ENUM('pending', 'accepted', 'blocked') NOT NULL DEFAULT 'pending',
		pair_low    VARCHAR(36) AS (LEAST(user_id, friend_id)) STORED,
		pair_high   VARCHAR(36) AS (GREATEST(user_id, friend_id)) STORED,
		created_at  DATETIME(6) NOT NULL,
		updated_at  DATETIME(6) NOT NULL,
		UNIQUE KEY uk_friendship_pair (pair_low, pair_high),
		INDEX idx_friend (friend_id),
		CONSTRAINT chk_not_self CHECK (user_id <> friend_id)
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id                 VARCHAR(36) PRIMARY KEY,
		text               VARCHAR(2000) NOT NULL,
		completed          BOOLEAN NOT NULL DEFAULT FALSE,
		user_id            VARCHAR(36) NOT NULL,
		shared_by_user_id  VARCHAR(36),
		created_at         DATETIME(6) NOT NULL,
		INDEX idx_owner_time (user_id, created_at),
		INDEX idx_sharer (shared_by_user_id)
	)`,
}

var postgresTables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          VARCHAR(36) PRIMARY KEY,
		email       VARCHAR(255) NOT NULL UNIQUE,
		password    VARCHAR(255) NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id          VARCHAR(36) PRIMARY KEY,
		first_name  VARCHAR(100),
		last_name   VARCHAR(100),
		avatar_url  VARCHAR(255),
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS friendships (
		id          VARCHAR(36) PRIMARY KEY,
		user_id     VARCHAR(36) NOT NULL,
		friend_id   VARCHAR(36) NOT NULL,
		status      VARCHAR(16) NOT NULL DEFAULT 'pending'
		            CHECK (status IN ('pending', 'accepted', 'blocked')),
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		CHECK (user_id <> friend_id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uk_friendship_pair
		ON friendships (LEAST(user_id, friend_id), GREATEST(user_id, friend_id))`,
	`CREATE INDEX IF NOT EXISTS idx_friendships_friend ON friendships (friend_id)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id                 VARCHAR(36) PRIMARY KEY,
		text               VARCHAR(2000) NOT NULL,
		completed          BOOLEAN NOT NULL DEFAULT FALSE,
		user_id            VARCHAR(36) NOT NULL,
		shared_by_user_id  VARCHAR(36),
		created_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_owner_time ON todos (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_sharer ON todos (shared_by_user_id)`,
}
