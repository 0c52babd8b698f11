// Package reqspec extracts the build-time requirement specification of a
// project: the ordered requirement tokens, installer index flags and extra
// script search paths declared either in the leading comment block of the
// root build script or in a dedicated kraken.hcl requirements file.
//
// The specification is recomputed from the current file contents on every
// invocation and is never cached across runs. Only the root script
// contributes; scripts of included sub-projects are ignored.
package reqspec
