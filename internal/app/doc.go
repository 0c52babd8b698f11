// Package app wires the environment manager together: configuration,
// logging, the probe/install/dispatch flow behind `krakenw run`, and the
// `krakenw env` command surface.
package app
