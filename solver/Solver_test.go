package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/samuelfneumann/goinventory/demand"
	"github.com/samuelfneumann/goinventory/mdp"
	"gonum.org/v1/gonum/mat"
)

// testKernel returns the Kernel of a store with the argument capacity
// and truncated geometric demand
func testKernel(t *testing.T, capacity int) *mdp.Kernel {
	pmf, err := demand.TruncGeomPMF(capacity, 0.3)
	if err != nil {
		t.Fatalf("could not create demand pmf: %v", err)
	}
	config, err := mdp.NewConfig(capacity, 1.0, 2.0, 5.0, 6.0, pmf)
	if err != nil {
		t.Fatalf("could not create config: %v", err)
	}
	kernel, err := mdp.NewKernel(config)
	if err != nil {
		t.Fatalf("could not create kernel: %v", err)
	}
	return kernel
}

// fillShelfPolicy returns the policy ordering up to capacity at every
// stock level
func fillShelfPolicy(k *mdp.Kernel) *mat.VecDense {
	policy := mat.NewVecDense(k.States(), nil)
	for stock := 0; stock < k.States(); stock++ {
		policy.SetVec(stock, float64(k.Config().Capacity-stock))
	}
	return policy
}

func TestEvaluateBellmanResidual(t *testing.T) {
	discount := 0.9
	kernel := testKernel(t, 10)
	policy := fillShelfPolicy(kernel)

	value, err := Evaluate(kernel, policy, discount)
	if err != nil {
		t.Fatalf("could not evaluate policy: %v", err)
	}

	// The values of a policy are the fixed point of its Bellman
	// equation V = r + discount * P V
	probs, err := kernel.PolicyMatrix(policy)
	if err != nil {
		t.Fatalf("could not create policy matrix: %v", err)
	}
	rewards, err := kernel.PolicyReward(policy)
	if err != nil {
		t.Fatalf("could not create policy rewards: %v", err)
	}

	var expected mat.VecDense
	expected.MulVec(probs, value)
	expected.ScaleVec(discount, &expected)
	expected.AddVec(rewards, &expected)

	for stock := 0; stock < kernel.States(); stock++ {
		if math.Abs(expected.AtVec(stock)-value.AtVec(stock)) > 1e-8 {
			t.Errorf("stock %v: value %v does not satisfy the Bellman "+
				"equation (expected %v)", stock, value.AtVec(stock),
				expected.AtVec(stock))
		}
	}
}

func TestEvaluateInvalid(t *testing.T) {
	kernel := testKernel(t, 5)
	policy := fillShelfPolicy(kernel)

	for _, discount := range []float64{-0.1, 1.0, 1.5} {
		if _, err := Evaluate(kernel, policy, discount); err == nil {
			t.Errorf("discount %v should be an error", discount)
		}
	}

	short := mat.NewVecDense(2, nil)
	if _, err := Evaluate(kernel, short, 0.9); err == nil {
		t.Error("policy with missing stock levels should be an error")
	}
}

func TestGreedyPolicyTies(t *testing.T) {
	// With no costs and a worthless product every order size is equally
	// good, so ties must resolve to the smallest order
	config, err := mdp.NewConfig(3, 0, 0, 0, 0,
		[]float64{0.5, 0.3, 0.1, 0.1})
	if err != nil {
		t.Fatalf("could not create config: %v", err)
	}
	kernel, err := mdp.NewKernel(config)
	if err != nil {
		t.Fatalf("could not create kernel: %v", err)
	}

	value := mat.NewVecDense(kernel.States(), nil)
	policy, newValue := GreedyPolicy(kernel, value, 0.9)

	for stock := 0; stock < kernel.States(); stock++ {
		if policy.AtVec(stock) != 0.0 {
			t.Errorf("stock %v: tied orders should resolve to order 0, "+
				"got %v", stock, policy.AtVec(stock))
		}
		if newValue.AtVec(stock) != 0.0 {
			t.Errorf("stock %v: value of a worthless store should be 0, "+
				"got %v", stock, newValue.AtVec(stock))
		}
	}
}

// supDistance returns the largest elementwise distance between two
// vectors
func supDistance(a, b *mat.VecDense) float64 {
	largest := 0.0
	for i := 0; i < a.Len(); i++ {
		largest = math.Max(largest, math.Abs(a.AtVec(i)-b.AtVec(i)))
	}
	return largest
}

func TestGreedyPolicyContraction(t *testing.T) {
	discount := 0.9
	kernel := testKernel(t, 10)

	// The greedy backup is a discount-contraction in the max norm, so
	// the gap between successive value estimates shrinks by at least
	// the discount each sweep
	value := mat.NewVecDense(kernel.States(), nil)
	_, next := GreedyPolicy(kernel, value, discount)
	gap := supDistance(value, next)

	for sweep := 0; sweep < 25; sweep++ {
		value = next
		_, next = GreedyPolicy(kernel, value, discount)
		nextGap := supDistance(value, next)
		if nextGap > discount*gap+1e-9 {
			t.Fatalf("sweep %v: successive estimates are %v apart, more "+
				"than the discounted previous gap %v", sweep, nextGap,
				discount*gap)
		}
		gap = nextGap
	}
}

func TestValueIterationConverges(t *testing.T) {
	discount := 0.9
	kernel := testKernel(t, 10)

	vi, err := NewValueIteration(discount, 1e-3, DefaultMaxSweeps)
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}
	policy, value, sweeps, err := vi.Solve(kernel)
	if err != nil {
		t.Fatalf("could not solve: %v", err)
	}
	if sweeps < 1 || sweeps > DefaultMaxSweeps {
		t.Errorf("sweeps should be in [1, %v], got %v", DefaultMaxSweeps,
			sweeps)
	}

	// The value estimate at convergence is close to the exact value of
	// the returned policy
	exact, err := Evaluate(kernel, policy, discount)
	if err != nil {
		t.Fatalf("could not evaluate policy: %v", err)
	}
	for stock := 0; stock < kernel.States(); stock++ {
		if math.Abs(exact.AtVec(stock)-value.AtVec(stock)) > 0.1 {
			t.Errorf("stock %v: estimate %v is far from the exact value "+
				"%v of the returned policy", stock, value.AtVec(stock),
				exact.AtVec(stock))
		}
	}

	// Solving twice gives identical results
	again, againValue, againSweeps, err := vi.Solve(kernel)
	if err != nil {
		t.Fatalf("could not solve: %v", err)
	}
	if againSweeps != sweeps {
		t.Errorf("sweeps changed between solves: %v then %v", sweeps,
			againSweeps)
	}
	for stock := 0; stock < kernel.States(); stock++ {
		if policy.AtVec(stock) != again.AtVec(stock) ||
			value.AtVec(stock) != againValue.AtVec(stock) {
			t.Fatal("solving the same kernel twice should give identical " +
				"results")
		}
	}
}

func TestValueIterationNotConverged(t *testing.T) {
	kernel := testKernel(t, 10)

	vi, err := NewValueIteration(0.9, 1e-3, 1)
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}
	_, _, _, err = vi.Solve(kernel)
	if err == nil {
		t.Fatal("a single sweep should not reach the tolerance")
	}
	if !IsNotConverged(err) {
		t.Errorf("error should report non-convergence, got %v", err)
	}

	if IsNotConverged(nil) {
		t.Error("nil error should not report non-convergence")
	}
	if IsNotConverged(errors.New("some other error")) {
		t.Error("unrelated errors should not report non-convergence")
	}
}

func TestValueIterationInvalid(t *testing.T) {
	if _, err := NewValueIteration(1.0, 1e-3, 10); err == nil {
		t.Error("discount 1 should be an error")
	}
	if _, err := NewValueIteration(-0.1, 1e-3, 10); err == nil {
		t.Error("negative discount should be an error")
	}
	if _, err := NewValueIteration(0.9, 0.0, 10); err == nil {
		t.Error("zero epsilon should be an error")
	}
	if _, err := NewValueIteration(0.9, 1e-3, 0); err == nil {
		t.Error("zero sweep limit should be an error")
	}
}

func TestPolicyIterationMatchesValueIteration(t *testing.T) {
	discount := 0.9
	kernel := testKernel(t, 10)

	vi, err := NewValueIteration(discount, 1e-3, DefaultMaxSweeps)
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}
	viPolicy, _, _, err := vi.Solve(kernel)
	if err != nil {
		t.Fatalf("could not solve with value iteration: %v", err)
	}

	pi, err := NewPolicyIteration(discount, DefaultMaxImprovements)
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}
	piPolicy, piValue, improvements, err := pi.Solve(kernel)
	if err != nil {
		t.Fatalf("could not solve with policy iteration: %v", err)
	}
	if improvements < 1 {
		t.Errorf("improvements should be at least 1, got %v", improvements)
	}

	// Policy iteration returns the exact values of its policy
	exact, err := Evaluate(kernel, piPolicy, discount)
	if err != nil {
		t.Fatalf("could not evaluate policy: %v", err)
	}
	for stock := 0; stock < kernel.States(); stock++ {
		if math.Abs(exact.AtVec(stock)-piValue.AtVec(stock)) > 1e-8 {
			t.Errorf("stock %v: returned value %v should be the exact "+
				"value %v of the returned policy", stock,
				piValue.AtVec(stock), exact.AtVec(stock))
		}
	}

	// Both solvers find near-optimal policies, so the exact values of
	// their policies agree closely
	viExact, err := Evaluate(kernel, viPolicy, discount)
	if err != nil {
		t.Fatalf("could not evaluate policy: %v", err)
	}
	for stock := 0; stock < kernel.States(); stock++ {
		if math.Abs(viExact.AtVec(stock)-exact.AtVec(stock)) > 0.5 {
			t.Errorf("stock %v: value iteration's policy is worth %v but "+
				"policy iteration's is worth %v", stock,
				viExact.AtVec(stock), exact.AtVec(stock))
		}
	}
}

func TestPolicyIterationImproves(t *testing.T) {
	discount := 0.9
	kernel := testKernel(t, 10)

	pi, err := NewPolicyIteration(discount, DefaultMaxImprovements)
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}
	_, value, _, err := pi.Solve(kernel)
	if err != nil {
		t.Fatalf("could not solve: %v", err)
	}

	// The solved policy is at least as good as the never-order policy
	// it starts from
	never := mat.NewVecDense(kernel.States(), nil)
	base, err := Evaluate(kernel, never, discount)
	if err != nil {
		t.Fatalf("could not evaluate policy: %v", err)
	}
	for stock := 0; stock < kernel.States(); stock++ {
		if value.AtVec(stock) < base.AtVec(stock)-1e-8 {
			t.Errorf("stock %v: solved policy is worth %v, less than the "+
				"never-order policy's %v", stock, value.AtVec(stock),
				base.AtVec(stock))
		}
	}
}

func TestPolicyIterationInvalid(t *testing.T) {
	if _, err := NewPolicyIteration(1.0, 10); err == nil {
		t.Error("discount 1 should be an error")
	}
	if _, err := NewPolicyIteration(0.9, 0); err == nil {
		t.Error("zero improvement limit should be an error")
	}
}

func TestSolveCapacityZero(t *testing.T) {
	config, err := mdp.NewConfig(0, 1, 2, 5, 6, []float64{1})
	if err != nil {
		t.Fatalf("could not create config: %v", err)
	}
	kernel, err := mdp.NewKernel(config)
	if err != nil {
		t.Fatalf("could not create kernel: %v", err)
	}

	vi, err := NewValueIteration(0.9, 1e-3, DefaultMaxSweeps)
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}
	policy, value, _, err := vi.Solve(kernel)
	if err != nil {
		t.Fatalf("could not solve: %v", err)
	}
	if policy.Len() != 1 || policy.AtVec(0) != 0.0 {
		t.Errorf("the only policy never orders, got %v", policy.AtVec(0))
	}
	if value.AtVec(0) != 0.0 {
		t.Errorf("a store with no capacity is worth 0, got %v",
			value.AtVec(0))
	}
}

func BenchmarkValueIteration(b *testing.B) {
	pmf, err := demand.TruncGeomPMF(20, 0.3)
	if err != nil {
		b.Fatalf("could not create demand pmf: %v", err)
	}
	config, err := mdp.NewConfig(20, 1.0, 2.0, 5.0, 6.0, pmf)
	if err != nil {
		b.Fatalf("could not create config: %v", err)
	}
	kernel, err := mdp.NewKernel(config)
	if err != nil {
		b.Fatalf("could not create kernel: %v", err)
	}
	vi, err := NewValueIteration(0.9, 1e-3, DefaultMaxSweeps)
	if err != nil {
		b.Fatalf("could not create solver: %v", err)
	}

	for i := 0; i < b.N; i++ {
		vi.Solve(kernel)
	}
}
