// Package compare prints source and translated corpus rows one below the
// other for manual spot checks. Rows are picked either by index or by a
// substring of the source text. Both files are assumed to be row aligned.
package compare
