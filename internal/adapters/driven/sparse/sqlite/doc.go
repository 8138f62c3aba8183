// Package sqlite provides a keyword index backed by SQLite FTS5.
//
// Chunks are stored in a metadata table and a standalone FTS5 table.
// Queries are ranked by BM25. The database lives at <data_dir>/sparse.db
// and is opened in WAL mode.
package sqlite
