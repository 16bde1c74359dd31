package store

// rowScanner 同時涵蓋 pgx.Row 與 pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}
