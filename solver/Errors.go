package solver

import "errors"

// SolverError implements errors unique to solving a decision process.
type SolverError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *SolverError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

var errNotConverged = errors.New("iteration limit reached before convergence")

// IsNotConverged returns whether or not an error reports that a solver
// reached its iteration limit before satisfying its convergence
// criterion.
//
// A solver that has not converged may still have made progress; raising
// the iteration limit or loosening the tolerance may let it finish.
func IsNotConverged(err error) bool {
	if solverErr, ok := err.(*SolverError); ok {
		err = solverErr.Err
	}
	return err == errNotConverged
}
