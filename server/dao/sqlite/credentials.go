package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dekarrin/grammarkit/server/dao"
	"github.com/google/uuid"
)

// CredentialsDB is the sqlite-backed dao.CredentialRepository.
type CredentialsDB struct {
	db *sql.DB
}

func (repo *CredentialsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS credentials (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		last_logout_time INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

func (repo *CredentialsDB) Create(ctx context.Context, c dao.Credential) (dao.Credential, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Credential{}, err
	}
	c.ID = newUUID

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO credentials (id, username, password_hash, last_logout_time) VALUES (?, ?, ?, ?)`,
		c.ID.String(), c.Username, c.PasswordHash, c.LastLogoutTime.Unix(),
	)
	if err != nil {
		return dao.Credential{}, wrapDBError(err)
	}
	return repo.GetByID(ctx, c.ID)
}

func (repo *CredentialsDB) scanRow(row interface{ Scan(...interface{}) error }) (dao.Credential, error) {
	var c dao.Credential
	var id string
	var logoutTime int64

	err := row.Scan(&id, &c.Username, &c.PasswordHash, &logoutTime)
	if err != nil {
		return dao.Credential{}, wrapDBError(err)
	}

	c.ID, err = uuid.Parse(id)
	if err != nil {
		return dao.Credential{}, dao.ErrDecodingFailure
	}
	c.LastLogoutTime = time.Unix(logoutTime, 0)
	return c, nil
}

func (repo *CredentialsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Credential, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, last_logout_time FROM credentials WHERE id = ?`, id.String())
	return repo.scanRow(row)
}

func (repo *CredentialsDB) GetByUsername(ctx context.Context, username string) (dao.Credential, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, last_logout_time FROM credentials WHERE username = ?`, username)
	return repo.scanRow(row)
}

func (repo *CredentialsDB) Update(ctx context.Context, id uuid.UUID, c dao.Credential) (dao.Credential, error) {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE credentials SET username = ?, password_hash = ?, last_logout_time = ? WHERE id = ?`,
		c.Username, c.PasswordHash, c.LastLogoutTime.Unix(), id.String(),
	)
	if err != nil {
		return dao.Credential{}, wrapDBError(err)
	}
	return repo.GetByID(ctx, id)
}

func (repo *CredentialsDB) Close() error {
	return nil
}
