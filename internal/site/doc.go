// Package site drives one build of the event site.
//
// A build runs a fixed list of stages (bootstrap, source_nodes, resolve_slugs,
// store_nodes, create_pages, render_pages). Each stage is timed and its result
// recorded; the first failing stage ends the build, so pages are only written
// after page creation succeeded.
package site
