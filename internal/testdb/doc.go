// Package testdb provides helpers for PostgreSQL integration tests.
//
// Tests call GetTestDBWithT, which skips unless DATABASE_URL (or
// TENXCARDS_TEST_DB_URL) is set, and isolate themselves with WithTx:
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			cards := postgres.NewPostgresCardStore(tx, nil)
//			// ...
//		})
//	}
package testdb
