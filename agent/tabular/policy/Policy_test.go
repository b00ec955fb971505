package policy

import (
	"math"
	"testing"

	"github.com/samuelfneumann/goinventory/demand"
	env "github.com/samuelfneumann/goinventory/environment"
	"github.com/samuelfneumann/goinventory/environment/inventory"
	"github.com/samuelfneumann/goinventory/mdp"
	ts "github.com/samuelfneumann/goinventory/timestep"
	"gonum.org/v1/gonum/mat"
)

// newTestEnv returns an Inventory environment for a store with the
// argument capacity
func newTestEnv(t *testing.T, capacity int) *inventory.Inventory {
	pmf, err := demand.TruncGeomPMF(capacity, 0.3)
	if err != nil {
		t.Fatalf("could not create demand pmf: %v", err)
	}
	config, err := mdp.NewConfig(capacity, 1.0, 2.0, 5.0, 6.0, pmf)
	if err != nil {
		t.Fatalf("could not create config: %v", err)
	}

	starter := env.NewSingleStart(mat.NewVecDense(1, nil))
	task := inventory.NewStockControl(config, starter, 0)
	environment, _, err := inventory.New(config, task, 0.9, 123)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	return environment
}

// stepAt returns a timestep observing the argument state
func stepAt(state int) ts.TimeStep {
	obs := mat.NewVecDense(1, []float64{float64(state)})
	return ts.New(ts.Mid, 0.0, 0.9, obs, 1)
}

func TestGreedySelectsHighestValue(t *testing.T) {
	environment := newTestEnv(t, 3)
	greedy, err := NewGreedy(environment)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}

	// Action values for state 1: action 2 is best
	table := greedy.Weights()[WeightsKey]
	table.Set(0, 1, -1.0)
	table.Set(1, 1, 0.5)
	table.Set(2, 1, 2.0)
	table.Set(3, 1, 1.5)

	action := greedy.SelectAction(stepAt(1))
	if action.Len() != 1 || action.AtVec(0) != 2.0 {
		t.Errorf("should select action 2, got %v", action.AtVec(0))
	}
}

func TestGreedyTies(t *testing.T) {
	environment := newTestEnv(t, 3)
	greedy, err := NewGreedy(environment)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}

	// All action values are equal, so ties must resolve to action 0
	for i := 0; i < 30; i++ {
		action := greedy.SelectAction(stepAt(2))
		if action.AtVec(0) != 0.0 {
			t.Fatalf("tied actions should resolve to action 0, got %v",
				action.AtVec(0))
		}
	}

	// A tie among a subset resolves to the lowest tied action
	table := greedy.Weights()[WeightsKey]
	table.Set(1, 2, 3.0)
	table.Set(3, 2, 3.0)
	if action := greedy.SelectAction(stepAt(2)); action.AtVec(0) != 1.0 {
		t.Errorf("tied actions 1 and 3 should resolve to 1, got %v",
			action.AtVec(0))
	}
}

func TestEGreedyInvalidEpsilon(t *testing.T) {
	environment := newTestEnv(t, 3)

	if _, err := NewEGreedy(-0.1, 123, environment); err == nil {
		t.Error("negative epsilon should be an error")
	}
	if _, err := NewEGreedy(1.1, 123, environment); err == nil {
		t.Error("epsilon above 1 should be an error")
	}
}

func TestEGreedySharesTable(t *testing.T) {
	environment := newTestEnv(t, 3)
	egreedy, err := NewEGreedy(0.1, 123, environment)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}

	// Updating the ε-greedy policy's table changes the greedy policy
	// too
	egreedy.Weights()[WeightsKey].Set(3, 0, 10.0)
	action := egreedy.GreedyPolicy.SelectAction(stepAt(0))
	if action.AtVec(0) != 3.0 {
		t.Errorf("greedy policy should see the updated table, selected %v",
			action.AtVec(0))
	}
}

func TestEGreedyEvalMode(t *testing.T) {
	environment := newTestEnv(t, 3)
	egreedy, err := NewEGreedy(1.0, 123, environment)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}

	egreedy.Weights()[WeightsKey].Set(2, 1, 5.0)

	// Even with epsilon 1, evaluation mode always selects greedily
	egreedy.Eval()
	if !egreedy.IsEval() {
		t.Error("policy should report evaluation mode")
	}
	for i := 0; i < 50; i++ {
		if action := egreedy.SelectAction(stepAt(1)); action.AtVec(0) != 2.0 {
			t.Fatalf("evaluation mode should select action 2, got %v",
				action.AtVec(0))
		}
	}

	egreedy.Train()
	if egreedy.IsEval() {
		t.Error("policy should report training mode")
	}
}

func TestEGreedyActionDistribution(t *testing.T) {
	environment := newTestEnv(t, 3)
	epsilon := 0.2
	egreedy, err := NewEGreedy(epsilon, 123, environment)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}

	// Action 1 is greedy in state 0
	egreedy.Weights()[WeightsKey].Set(1, 0, 1.0)

	draws := 40_000
	counts := make([]float64, 4)
	for i := 0; i < draws; i++ {
		action := int(egreedy.SelectAction(stepAt(0)).AtVec(0))
		if action < 0 || action > 3 {
			t.Fatalf("selected action %v outside [0, 3]", action)
		}
		counts[action]++
	}

	// The greedy action is chosen with probability 1-ε+ε/4 and the
	// rest with probability ε/4 each
	for action, count := range counts {
		expected := epsilon / 4.0
		if action == 1 {
			expected += 1.0 - epsilon
		}
		frequency := count / float64(draws)
		if math.Abs(frequency-expected) > 0.02 {
			t.Errorf("action %v chosen with frequency %v but has "+
				"probability %v", action, frequency, expected)
		}
	}
}

func TestEGreedySeedDeterminism(t *testing.T) {
	environment := newTestEnv(t, 3)

	first, err := NewEGreedy(0.5, 42, environment)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}
	second, err := NewEGreedy(0.5, 42, environment)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}

	for i := 0; i < 100; i++ {
		a := first.SelectAction(stepAt(2)).AtVec(0)
		b := second.SelectAction(stepAt(2)).AtVec(0)
		if a != b {
			t.Fatal("policies with equal seeds should select equal actions")
		}
	}
}

func TestDeterministic(t *testing.T) {
	environment := newTestEnv(t, 3)

	table := mat.NewVecDense(4, []float64{3, 2, 1, 0})
	fixed, err := NewDeterministic(table, environment)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}

	for state := 0; state < 4; state++ {
		action := fixed.SelectAction(stepAt(state))
		if action.AtVec(0) != table.AtVec(state) {
			t.Errorf("state %v: should select action %v, got %v", state,
				table.AtVec(state), action.AtVec(0))
		}
	}

	// The policy copies its table
	table.SetVec(0, 0.0)
	if action := fixed.SelectAction(stepAt(0)); action.AtVec(0) != 3.0 {
		t.Error("policy should copy the action table")
	}
}

func TestDeterministicInvalid(t *testing.T) {
	environment := newTestEnv(t, 3)

	short := mat.NewVecDense(3, nil)
	if _, err := NewDeterministic(short, environment); err == nil {
		t.Error("table with missing states should be an error")
	}

	outOfRange := mat.NewVecDense(4, []float64{0, 0, 0, 4})
	if _, err := NewDeterministic(outOfRange, environment); err == nil {
		t.Error("table with orders beyond capacity should be an error")
	}

	negative := mat.NewVecDense(4, []float64{0, -1, 0, 0})
	if _, err := NewDeterministic(negative, environment); err == nil {
		t.Error("table with negative orders should be an error")
	}
}
