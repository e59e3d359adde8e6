// Package processor contains the core business logic of corpustrans. It
// loads the pair dictionary, drives corpus translation, records unknown
// words in the OOV database and run reports, renders comparisons, and
// feeds collected unknown words to a suggestion provider. This package
// serves as the main coordinator between all other components.
package processor
