// Package deeplink maps tryme:// URLs from the desktop shell and share
// links onto in-app destinations. Anything unparseable resolves to an
// Invalid route; this package never returns an error.
package deeplink

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

const Scheme = "tryme"

// Route kinds
const (
	KindConnect = "connect"
	KindProfile = "profile"
	KindChat    = "chat"
	KindHome    = "home"
	KindInvalid = "invalid"
)

// Route is a parsed deep link.
type Route struct {
	Kind         string
	Token        string // invite token (connect links)
	Handle       string // profile links
	ConnectionID uint   // chat links
}

// Parse interprets a deep link URL.
//
//	tryme://connect?token=X   -> Connect with invite token
//	tryme://u?handle=jason    -> Profile
//	tryme://u/jason           -> Profile
//	tryme://chat/42           -> Chat window for connection 42
func Parse(raw string) Route {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != Scheme {
		return Route{Kind: KindInvalid}
	}

	// With a custom scheme the first path segment lands in Host.
	head := u.Host
	rest := strings.Trim(u.Path, "/")
	if head == "" {
		parts := strings.SplitN(rest, "/", 2)
		head = parts[0]
		if len(parts) > 1 {
			rest = parts[1]
		} else {
			rest = ""
		}
	}

	switch head {
	case "connect":
		return Route{Kind: KindConnect, Token: u.Query().Get("token")}

	case "u":
		handle := u.Query().Get("handle")
		if handle == "" {
			handle = rest
		}
		if handle == "" {
			return Route{Kind: KindInvalid}
		}
		return Route{Kind: KindProfile, Handle: handle}

	case "chat":
		id, err := strconv.ParseUint(rest, 10, 64)
		if err != nil || id == 0 {
			return Route{Kind: KindInvalid}
		}
		return Route{Kind: KindChat, ConnectionID: uint(id)}

	case "":
		return Route{Kind: KindHome}
	}

	return Route{Kind: KindInvalid}
}

// ResolveRecipient turns a raw query-parameter value into a target user id.
// Accepts a literal numeric id or a base64 JSON payload {"pid": N} as embedded
// in share URLs. Invite tokens are handled separately by the invite service.
func ResolveRecipient(raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
		return uint(id), true
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
	if err != nil {
		return 0, false
	}
	var payload struct {
		PID uint `json:"pid"`
	}
	if err := json.Unmarshal(decoded, &payload); err != nil || payload.PID == 0 {
		return 0, false
	}
	return payload.PID, true
}
