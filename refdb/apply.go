package refdb

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

// ApplyUpdates writes the resolved fold-changes to the patient's table in a
// single transaction, one prepared statement reused per identifier. Either
// every update lands or none do. Returns the number of rows the database
// reports as affected, which can undercount len(updates) when an identifier
// has since vanished from the patient copy.
func ApplyUpdates(db *sqlx.DB, table string, updates map[string]float64) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, pfx.Err(err)
	}

	query := db.Rebind(fmt.Sprintf(
		`UPDATE %s SET fold_change = ? WHERE transcript_id = ?`, table,
	))

	stmt, err := tx.Preparex(query)
	if err != nil {
		tx.Rollback()
		return 0, pfx.Err(err)
	}
	defer stmt.Close()

	var affected int64
	for id, fold := range updates {
		res, err := stmt.Exec(fold, id)
		if err != nil {
			tx.Rollback()
			return 0, pfx.Err(err)
		}

		if n, err := res.RowsAffected(); err == nil {
			affected += n
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, pfx.Err(err)
	}

	return affected, nil
}
