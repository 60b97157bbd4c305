// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards the presenter endpoints.

# Presenter Key

The presenter key is a shared secret from configuration (PRESENTER_KEY). It
is sent in the X-Presenter-Key header and compared in constant time:

	if err := auth.ValidatePresenterRequest(r, cfg.PresenterKey); err != nil {
		// 401
	}

# Fingerprints

KeyFingerprint produces a short HMAC-SHA256 tag of a secret for startup logs,
so operators can tell which key is loaded without the key itself appearing in
the log.

# Audience

Audience members are not authenticated. They are identified by the random
session ID issued at login (see package session).
*/
package auth
