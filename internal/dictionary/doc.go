// Package dictionary loads word-pair files into an in-memory translation
// dictionary and appends newly accepted pairs back to them. Both the
// whitespace-separated and the CSV pair formats are supported, in either
// column order.
package dictionary
