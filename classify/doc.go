// Package classify assigns a coarse category to an item description.
//
// Classification has two tiers. An item type found by the extract package is
// used directly. Otherwise every category in an ordered keyword table scores
// one point per keyword contained in the text, and the highest score wins.
package classify
