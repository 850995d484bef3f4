// Package repositories implements SQLite persistence for the client.
//
// Key Implementations:
//   - [HistoryRepository] : "now playing" observations recorded while polling
//
// The schema lives in the embedded migrations of the shared package; repositories assume [shared.RunMigrations]
// has been applied to the connection they are given.
package repositories
