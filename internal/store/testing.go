package store

import "testing"

// OpenTest opens a migrated in-memory Store that is closed when the test ends.
// This is only intended for use in tests.
func OpenTest(t testing.TB) *Store {
	t.Helper()

	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}
