// Package registry holds the identity of logical assets across roots.
//
// A logical asset is identified by its path relative to the root it was found
// in; the same relative path under two roots is one asset with one id. Ids
// are sequential and handed out on first encounter. Each root keeps a slot
// array with exactly one slot per id, so adding an asset extends every root
// at once and a slot stays empty until that root provides the file.
package registry
