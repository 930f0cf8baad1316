// Package keepalive serves the plaintext responder that keeps the diagnostic
// pod running after the probe report has been printed.
//
// Every GET on any path answers 200 with a fixed text/plain body. Other verbs
// get chi's 405. The listener is bound before serving so a port conflict is
// reported to the caller synchronously instead of from a background goroutine.
package keepalive
