// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting storage logic away from the service layer.
//
// Two stores implement the same contract: PostgresStore over a pgx pool and
// BoltStore over a bbolt file. Errors are wrapped with pkg/errors so that the
// stack reaches the error handler; callers classify them with errors.Is
// against ErrNotFound and ErrReferenceNotFound.
package repository
