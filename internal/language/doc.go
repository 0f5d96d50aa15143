// Package language normalizes the language tags found on container subtitle
// streams. Tags arrive in many shapes (ISO 639-1, ISO 639-2 with
// bibliographic variants, full English words, IETF tags with a region
// subtag) and the track scorer needs a single answer: is this English?
package language
