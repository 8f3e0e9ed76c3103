// Package match suggests the closest known name for a misspelled one, so
// configuration errors can say what was probably meant.
package match
