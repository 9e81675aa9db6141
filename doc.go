// Package ar assembles static link archives from object files and from
// members of existing archives.
//
// A [Builder] accumulates entries in insertion order, keeps every input
// archive memory-mapped exactly once, and writes the output archive
// atomically: the container bytes are streamed into a temporary file
// next to the destination and renamed into place, so a partial archive
// is never observable. On Apple targets, fat (multi-architecture) input
// archives are narrowed to the target's slice before merging.
//
// # Quick Start
//
// Merge an object file and a static library into a new archive:
//
//	b := ar.NewBuilder(ar.Target{
//	    Triple: "x86_64-unknown-linux-gnu",
//	    Arch:   "x86_64",
//	    Format: "gnu",
//	})
//	b.AddFile("main.o")
//	if err := b.AddArchive("libfoo.a", nil); err != nil {
//	    return err
//	}
//	hasMembers := b.Build("libout.a")
//
// AddArchive errors are recoverable and returned to the caller. Build
// failures are fatal: they are routed to the handler installed with
// [WithFatalHandler], which by default reports the error and exits.
//
// # Bundled libraries
//
// [ExtractBundledLibs] recovers native libraries that were wrapped in
// object files and archived, writing each one back out as a plain file.
package ar
