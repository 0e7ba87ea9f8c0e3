package auth

// AuthCookieName is the httpOnly cookie carrying the session token for
// browser clients, shared by the HTTP middleware and the WebSocket upgrade.
const AuthCookieName = "sc_token"
