package lattice

// Version is the current release of the lattice library.
// Overridable at build time via -ldflags "-X lattice.Version=...".
var Version = "0.1.0"
