// Package menu implements the interactive driver of the pipeline: a numbered
// load / generate / exit loop over any reader and writer.
//
// Generating reports is only offered after a successful load. A failed
// action prints its error and returns to the menu; only exiting, the end of
// input or a cancelled context ends the loop.
package menu
