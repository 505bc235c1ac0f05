package knowledge

import "time"

// SetSearchTimeout overrides the retrieval deadline so tests can exercise
// the timeout path without waiting out the production value.
func (s *Store) SetSearchTimeout(d time.Duration) {
	s.searchTimeout = d
}
