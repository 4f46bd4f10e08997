package tolet

import "embed"

// EmbeddedAssets holds the stylesheet and the map script served under /public/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
