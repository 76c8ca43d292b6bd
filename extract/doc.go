// Package extract detects structured clues (brand, color, item type) in
// free-text item descriptions.
//
// Rules are ordered data: for each entity kind the first rule whose keyword
// appears as a whole word, case-insensitively, sets the value. Kinds are
// extracted independently and each kind gets at most one value.
package extract
