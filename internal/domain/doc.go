// Package domain holds the entities the rest of the system is built
// around: concept/meaning pairs, the saved sources they are generated
// from, and the shared validation errors. The matching-game state machine
// lives in the match subpackage. Nothing here touches I/O.
package domain
