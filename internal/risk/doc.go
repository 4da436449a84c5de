// Package risk turns an applicant's financial attributes into a risk score, a
// risk tier, an approval probability and a lending decision.
//
// Everything here is pure domain logic: no I/O, no clock, no randomness. The
// pipeline is
//
//	Profile -> Score -> Classify          (tier)
//	              \--> ApprovalProbability -> Decide   (decision)
//
// and Engine.Evaluate guarantees both branches start from the same score.
package risk
