// Package database provides the SQLite record store for the image catalog.
//
// Each catalogued file has one row in the images table, keyed by a UUID and
// unique by its path relative to the media root. Timestamps are stored as
// Unix nanoseconds so that a stored modification time compares exactly with
// a later fs.FileInfo.ModTime. The created and updated columns are owned by
// the store and set on insert and update respectively.
//
// The database uses WAL mode for improved concurrent read performance
// and includes automatic schema initialization.
package database
