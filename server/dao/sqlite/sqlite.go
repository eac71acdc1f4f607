// Package sqlite is the sqlite-backed implementation of dao.Store, used by
// the grammarkit registry server.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/grammarkit/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB

	grammars    *GrammarsDB
	credentials *CredentialsDB
}

// NewDatastore opens (creating if necessary) the sqlite database file
// "registry.db" in storageDir and returns a dao.Store backed by it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "registry.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		return nil, err
	}

	st.credentials = &CredentialsDB{db: st.db}
	if err := st.credentials.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Grammars() dao.GrammarRepository       { return s.grammars }
func (s *store) Credentials() dao.CredentialRepository { return s.credentials }

func (s *store) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}

	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
