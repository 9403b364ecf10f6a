// Package qnet implements action-value function approximation with
// Gorgonia neural networks
package qnet

import (
	"fmt"

	"github.com/samuelfneumann/godqn/agent/dqn"
	"github.com/samuelfneumann/godqn/network"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// QNet implements an action-value function approximator using a
// multi-layered perceptron with one output per action.
//
// A QNet holds three copies of its network, each on its own
// computational graph:
//
//  1. policyNet predicts the action values of a single state
//  2. batchNet predicts the action values of a batch of states
//  3. trainNet holds the weights that are learned, together with the
//     loss and its gradient
//
// policyNet and batchNet are synchronized with trainNet after each
// weight change.
type QNet struct {
	features  int
	actions   int
	batchSize int

	policyNet network.NeuralNet
	policyVM  G.VM

	batchNet network.NeuralNet
	batchVM  G.VM

	trainNet network.NeuralNet
	trainVM  G.VM
	solver   G.Solver

	// selectedActions holds one-hot encodings of the actions taken in
	// each state of a batch. These pick out Q(s, a) from the
	// predictions of trainNet for the loss.
	selectedActions *G.Node

	// targets holds the update target of each transition in a batch.
	// Targets enter the graph as constants, so no gradient flows
	// through them.
	targets *G.Node

	loss    *G.Node
	lossVal G.Value
}

// New creates and returns a new QNet for states with features features
// and actions discrete actions.
func New(features, actions int, c Config) (*QNet, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	batchSize := c.BatchSize

	policyNet, err := network.NewMLP(features, 1, actions, G.NewGraph(),
		c.Layers, c.Biases, c.InitWFn.InitWFn(), c.Activations)
	if err != nil {
		return nil, fmt.Errorf("new: could not create policy network: %v",
			err)
	}

	batchNet, err := policyNet.CloneWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create batch network: %v", err)
	}

	trainNet, err := policyNet.CloneWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create training network: %v",
			err)
	}
	gTrain := trainNet.Graph()

	selectedActions := G.NewMatrix(
		gTrain,
		tensor.Float64,
		G.WithName("selectedActions"),
		G.WithShape(batchSize, actions),
		G.WithInit(G.Zeroes()),
	)
	targets := G.NewVector(
		gTrain,
		tensor.Float64,
		G.WithName("targets"),
		G.WithShape(batchSize),
		G.WithInit(G.Zeroes()),
	)

	// Mean squared TD error: mean[(Q(s, a) - y)²]
	selectedActionValues := G.Must(G.HadamardProd(trainNet.Prediction(),
		selectedActions))
	selectedActionValues = G.Must(G.Sum(selectedActionValues, 1))
	losses := G.Must(G.Sub(selectedActionValues, targets))
	losses = G.Must(G.Square(losses))
	loss := G.Must(G.Mean(losses))

	if _, err := G.Grad(loss, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %v", err)
	}

	q := &QNet{
		features:        features,
		actions:         actions,
		batchSize:       batchSize,
		policyNet:       policyNet,
		policyVM:        G.NewTapeMachine(policyNet.Graph()),
		batchNet:        batchNet,
		batchVM:         G.NewTapeMachine(batchNet.Graph()),
		trainNet:        trainNet,
		solver:          c.Solver.Create(),
		selectedActions: selectedActions,
		targets:         targets,
		loss:            loss,
	}
	G.Read(loss, &q.lossVal)

	q.trainVM = G.NewTapeMachine(
		gTrain,
		G.BindDualValues(trainNet.Learnables()...),
	)

	return q, nil
}

// Factory returns a dqn.NetworkFactory which creates QNets with
// configuration c
func Factory(c Config) dqn.NetworkFactory {
	return func(features, actions int) (dqn.QNetwork, error) {
		return New(features, actions, c)
	}
}

// Predict returns the action values of each state in states, which
// should be a row-major matrix with one state per row. The returned
// action values are a row-major matrix with one row per state.
func (q *QNet) Predict(states []float64) ([]float64, error) {
	if len(states) == 0 || len(states)%q.features != 0 {
		return nil, fmt.Errorf("predict: states must have a multiple of %v "+
			"features \n\thave(%v)", q.features, len(states))
	}
	rows := len(states) / q.features

	switch rows {
	case 1:
		return q.run(q.policyNet, q.policyVM, states)
	case q.batchSize:
		return q.run(q.batchNet, q.batchVM, states)
	}

	values := make([]float64, 0, rows*q.actions)
	for i := 0; i < rows; i++ {
		row, err := q.run(q.policyNet, q.policyVM,
			states[i*q.features:(i+1)*q.features])
		if err != nil {
			return nil, err
		}
		values = append(values, row...)
	}
	return values, nil
}

// run computes the forward pass of a network on input
func (q *QNet) run(net network.NeuralNet, vm G.VM,
	input []float64) ([]float64, error) {
	if err := net.SetInput(input); err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}
	defer vm.Reset()

	if err := vm.RunAll(); err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}

	output, ok := net.Output().Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("predict: network output is not []float64")
	}
	return append([]float64{}, output...), nil
}

// Optimize performs a single gradient step on the mean squared error
// between the values of the actions taken in each state and the
// update targets, returning the loss before the step.
func (q *QNet) Optimize(states []float64, actions []int,
	targets []float64) (float64, error) {
	if len(actions) != q.batchSize || len(targets) != q.batchSize {
		return 0, fmt.Errorf("optimize: batch should have %v actions and "+
			"targets \n\thave(%v, %v)", q.batchSize, len(actions),
			len(targets))
	}

	oneHot := make([]float64, q.batchSize*q.actions)
	for i, a := range actions {
		if a < 0 || a >= q.actions {
			return 0, fmt.Errorf("optimize: action %v ∉ [0, %v)", a,
				q.actions)
		}
		oneHot[i*q.actions+a] = 1.0
	}

	if err := q.trainNet.SetInput(states); err != nil {
		return 0, fmt.Errorf("optimize: %v", err)
	}
	err := G.Let(q.selectedActions, tensor.New(
		tensor.WithShape(q.batchSize, q.actions),
		tensor.WithBacking(oneHot),
	))
	if err != nil {
		return 0, fmt.Errorf("optimize: could not set actions: %v", err)
	}
	err = G.Let(q.targets, tensor.New(
		tensor.WithShape(q.batchSize),
		tensor.WithBacking(append([]float64{}, targets...)),
	))
	if err != nil {
		return 0, fmt.Errorf("optimize: could not set targets: %v", err)
	}

	if err := q.trainVM.RunAll(); err != nil {
		q.trainVM.Reset()
		return 0, fmt.Errorf("optimize: %v", err)
	}
	loss, err := scalar(q.lossVal)
	if err != nil {
		q.trainVM.Reset()
		return 0, fmt.Errorf("optimize: %v", err)
	}

	err = q.solver.Step(q.trainNet.Model())
	q.trainVM.Reset()
	if err != nil {
		return 0, fmt.Errorf("optimize: could not step solver: %v", err)
	}

	if err := q.sync(); err != nil {
		return 0, fmt.Errorf("optimize: %v", err)
	}
	return loss, nil
}

// Weights returns a copy of the weights of the QNet
func (q *QNet) Weights() map[string]*mat.Dense {
	return q.trainNet.Weights()
}

// SetWeights copies weights into the QNet
func (q *QNet) SetWeights(weights map[string]*mat.Dense) error {
	if err := q.trainNet.SetWeights(weights); err != nil {
		return fmt.Errorf("setWeights: %v", err)
	}
	if err := q.sync(); err != nil {
		return fmt.Errorf("setWeights: %v", err)
	}
	return nil
}

// BatchSize returns the number of transitions Optimize expects
func (q *QNet) BatchSize() int {
	return q.batchSize
}

// Close releases the Gorgonia VMs of the QNet
func (q *QNet) Close() error {
	for _, vm := range []G.VM{q.policyVM, q.batchVM, q.trainVM} {
		if err := vm.Close(); err != nil {
			return fmt.Errorf("close: %v", err)
		}
	}
	return nil
}

// sync copies the learned weights into the prediction networks
func (q *QNet) sync() error {
	if err := q.policyNet.Set(q.trainNet); err != nil {
		return err
	}
	return q.batchNet.Set(q.trainNet)
}

// scalar returns the float64 held by a scalar Gorgonia Value
func scalar(v G.Value) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("loss has not been computed")
	}

	switch data := v.Data().(type) {
	case float64:
		return data, nil
	case []float64:
		if len(data) == 1 {
			return data[0], nil
		}
	}
	return 0, fmt.Errorf("loss %v is not a scalar", v)
}
