// Package subtitle decodes SubRip (.srt) text into ordered records and plays
// them back through a forward-only Queue driven by an external clock.
//
// A file is a sequence of blocks:
//
//	1
//	00:00:01,000 --> 00:00:03,000
//	Hello
//
// Timestamps keep whole seconds only. A timing line that cannot be decoded
// aborts the parse with an error matching ErrMalformedTimestamp.
package subtitle
