// Package directory consumes the Radio Browser station catalog as a
// black-box HTTP API.
//
// Searches go through an ordered list of equivalent mirrors; the first
// mirror that answers wins and a failure of every mirror is classified as
// upstream-unavailable rather than crashing the session. The package also
// fetches raw logo bytes so the imaging layer never touches the network.
package directory
