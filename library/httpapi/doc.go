// Package httpapi exposes the lending service over HTTP using gin.
//
// Every response uses the same envelope: {"success": bool, "data": T, "message": string}.
// Authorization is decided server-side from the verified bearer token on every request,
// role and user id fields sent by clients are never trusted.
package httpapi
