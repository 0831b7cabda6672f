package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// FlashCookieName is the cookie carrying a one-shot user notice.
const FlashCookieName = "flash"

// EnvPrefix is prepended to every environment variable read by the server.
const EnvPrefix = "TODOLISTS_"
