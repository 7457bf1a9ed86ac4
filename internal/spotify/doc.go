// Package spotify talks to the Spotify accounts service and Web API.
//
// Authenticator drives the OAuth2 authorization-code flow through
// golang.org/x/oauth2, Client reads the listener's playback state, and
// FileTokenStore plus TokenSource keep a refreshable token on disk for
// command-line use.
package spotify
