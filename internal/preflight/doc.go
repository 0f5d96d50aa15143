// Package preflight checks the filesystem paths and external binaries a run
// depends on before any file is touched.
//
// The extract command runs RunAll before starting a batch; any failed check
// aborts with an invocation error so a long review session never starts
// against an unusable output directory or a missing ffmpeg.
package preflight
