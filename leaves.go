// leaves.go
//
// Copyright (C) 2025 Vilhjálmur Þorsteinsson / Miðeind ehf.
//
// This file declares the leave valuation interface.

package skrafl

// LeaveValuator values the tiles left on a rack after a play.
// Mid-game engines look the value up in a precomputed table;
// the endgame solver uses the empty table, since with an empty
// bag a leave has no hidden value.
type LeaveValuator interface {
	LeaveValue(rack []byte) float32
}

// EmptyLeaves values every leave at zero
type EmptyLeaves struct{}

// LeaveValue always returns zero
func (EmptyLeaves) LeaveValue(rack []byte) float32 {
	return 0
}
