package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dekarrin/grammarkit/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// GrammarsDB is the sqlite-backed dao.GrammarRepository. The compiled column
// holds a rezi-encoded []dao.RuleInfo: enough to answer a listing request
// without recompiling. A parse request always recompiles from source so a
// stale cache can never produce a wrong parse.
type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		entry_rule TEXT NOT NULL,
		compiled BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, err
	}
	g.ID = newUUID
	g.Created = time.Now()

	compiled := rezi.EncBinary(g.Rules)

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO grammars (id, name, source, entry_rule, compiled, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID.String(), g.Name, g.Source, g.EntryRule, compiled, g.Created.Unix(),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByName(ctx, g.Name)
}

func (repo *GrammarsDB) scanRow(row interface{ Scan(...interface{}) error }) (dao.Grammar, error) {
	var g dao.Grammar
	var id string
	var compiled []byte
	var createdAt int64

	err := row.Scan(&id, &g.Name, &g.Source, &g.EntryRule, &compiled, &createdAt)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	g.ID, err = uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, dao.ErrDecodingFailure
	}
	g.Created = time.Unix(createdAt, 0)

	if len(compiled) > 0 {
		if _, err := rezi.DecBinary(compiled, &g.Rules); err != nil {
			return dao.Grammar{}, dao.ErrDecodingFailure
		}
	}

	return g, nil
}

func (repo *GrammarsDB) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, name, source, entry_rule, compiled, created_at FROM grammars WHERE name = ?`, name)
	return repo.scanRow(row)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, name, source, entry_rule, compiled, created_at FROM grammars ORDER BY created_at`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar
	for rows.Next() {
		g, err := repo.scanRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, g)
	}
	return all, wrapDBError(rows.Err())
}

func (repo *GrammarsDB) Delete(ctx context.Context, name string) (dao.Grammar, error) {
	g, err := repo.GetByName(ctx, name)
	if err != nil {
		return dao.Grammar{}, err
	}

	_, err = repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE name = ?`, name)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	return g, nil
}

func (repo *GrammarsDB) Close() error {
	return nil
}
