// Package scoring turns a pair of analyzed descriptions into a match score.
//
// The score is the cosine similarity of the two embeddings as a percentage,
// plus fixed bonuses for each entity kind both sides agree on and for a
// shared category.
package scoring
