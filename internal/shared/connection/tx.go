package connection

import (
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a gorm handle whose statements execute on tx instead of
// the pool, so repository calls join a transaction the caller opened on
// the underlying *sql.DB. The session is detached from db; mutating its
// conn pool does not leak the transaction into the shared handle.
func BindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.Session(&gorm.Session{Context: db.Statement.Context, NewDB: true})
	session.Statement.ConnPool = tx
	return session
}
