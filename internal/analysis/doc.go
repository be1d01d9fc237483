// Package analysis checks the statistical shape of a run: whether the
// active fraction oscillates and whether neighbouring lanes move together.
//
// Independent per-lane spawn draws should give a spectrum with no dominant
// peak and adjacent-lane correlation near zero.
package analysis
