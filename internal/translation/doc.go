// Package translation performs word-level dictionary translation of text.
// Text is split into lines and word tokens, each token is looked up in a
// dictionary (hyphenated compounds piece by piece), and tokens without an
// entry are copied through behind an out-of-vocabulary marker. Punctuation
// is not carried into the translated text.
package translation
