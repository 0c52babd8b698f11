// Package buildenv manages a project's isolated build environment: it
// probes the on-disk environment against the current requirement spec and
// lock file to reach a dispatch decision, and creates, upgrades or removes
// the environment by delegating to the package-installation collaborator.
//
// The environment is either fully installed (fingerprint marker and lock
// file present) or absent. Installation failures roll the directory back to
// absent so a later probe re-triggers installation instead of trusting a
// partial install.
package buildenv
