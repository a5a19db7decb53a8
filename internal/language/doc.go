// Package language resolves ISO 639 language codes to display names and
// normalizes the language lists carried on source records.
package language
