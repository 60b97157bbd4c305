// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session keeps per-client state for the audience: display name, the
progress cursor and the set of answered ordinals.

Sessions are identified by a random UUID, live only in process memory and
expire after a configurable period without activity. Each client's cursor is
private to its session; nothing here is shared between clients.

	st := session.NewStore(12 * time.Hour)
	s := st.Create("Ann")
	s, err := st.Update(s.ID, func(s *session.Session) error {
		s.Cursor = 2
		return nil
	})
*/
package session
