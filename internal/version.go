package internal

// Version is the corpustrans release version (overridden via -ldflags at build time)
var Version = "0.3.0"
