// Package cleaning turns raw CC/SDH cue text into plain dialogue.
//
// Rules are grouped into categories applied in a fixed order:
//
//  1. formatting-markup: HTML-style tags and {\an8} style override blocks
//  2. advertisement: release-group and subtitle-site credit cues
//  3. sound-description: [bracketed], (parenthesized) and #hashed# text, music notes
//  4. speaker-label: "JOHN:", "Dr. Smith:", "MAN #2:" prefixes
//  5. whitespace: spacing cleanup, empty line removal, dialogue dashes
//
// Each category that changes a cue yields one CandidateEdit so a reviewer
// can accept or reject categories independently. The rule table is built
// once and never mutated, so an Engine is safe for concurrent use.
package cleaning
