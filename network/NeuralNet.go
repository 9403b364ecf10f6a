// Package network implements feed forward neural networks as Gorgonia
// computational graphs.
package network

import (
	G "gorgonia.org/gorgonia"
	"gonum.org/v1/gonum/mat"
)

// NeuralNet implements a neural network whose forward pass has been
// added to a Gorgonia computational graph. The input to the network is
// a matrix of BatchSize() rows and Features() columns. The output is a
// matrix of BatchSize() rows and Outputs() columns.
//
// The value of the output node is available through Output() once a
// machine running the graph has been run.
type NeuralNet interface {
	Graph() *G.ExprGraph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int
	SetInput([]float64) error

	// Set sets the weights of the NeuralNet to those of another
	// NeuralNet with the same architecture
	Set(NeuralNet) error

	// Polyak sets the weights of the NeuralNet to a Polyak average of
	// its weights and those of another NeuralNet
	Polyak(NeuralNet, float64) error

	// Weights returns a copy of the learnable weights, keyed by the
	// names of the learnable nodes
	Weights() map[string]*mat.Dense

	// SetWeights copies the argument weights into the learnable nodes
	// with the same names
	SetWeights(map[string]*mat.Dense) error

	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}
