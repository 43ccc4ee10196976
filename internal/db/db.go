package db

import "fmt"

// FormatConnectionString builds a lib/pq connection string from the standard
// PG* settings.
func FormatConnectionString(host string, port int, name string, user string, password string, sslmode string) string {
	s := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s", host, port, name, user, password)
	if sslmode != "" {
		s += fmt.Sprintf(" sslmode=%s", sslmode)
	}
	return s
}
