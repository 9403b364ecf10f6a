package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// mlp implements a multi-layered perceptron with one output node per
// predicted value, for example one per action value.
type mlp struct {
	g          *G.ExprGraph
	layers     []Layer
	input      *G.Node
	numOutputs int
	numInputs  int
	batchSize  int

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// NewMLP creates and returns a new multi-layered perceptron that has
// outputs output nodes. The graph parameter g is populated with the
// MLP.
//
// The MLP has number of layers equal to len(hiddenSizes) + 1. A final
// linear layer with a bias unit is always added so that the network
// predicts outputs values for each input.
//
// The function works such that for index i, hiddenSizes[i] is the
// number of nodes in hidden layer i; biases[i] is true if the
// hidden layer will contain a bias unit and false otherwise; and
// activations[i] is the activation function for hidden layer i. The
// parameter init determines the weight initialization scheme.
func NewMLP(features, batch, outputs int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*Activation) (NeuralNet, error) {
	if len(hiddenSizes) != len(activations) {
		msg := "newMLP: invalid number of activations\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		msg := "newMLP: invalid number of biases\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(biases))
	}
	if features < 1 || batch < 1 || outputs < 1 {
		return nil, fmt.Errorf("newMLP: features, batch, and outputs must "+
			"be positive \n\thave(%v, %v, %v)", features, batch, outputs)
	}

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Copy so that appending the output layer never modifies the
	// caller's slices
	sizes := append(append([]int{}, hiddenSizes...), outputs)
	b := append(append([]bool{}, biases...), true)
	acts := append(append([]*Activation{}, activations...), Identity())

	network := &mlp{
		g:          g,
		layers:     addfcLayers(g, sizes, b, acts, init, features),
		input:      input,
		numOutputs: outputs,
		numInputs:  features,
		batchSize:  batch,
	}

	if _, err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("newMLP: could not compute forward pass: %v",
			err)
	}
	return network, nil
}

// Graph returns the computational graph of the mlp.
func (m *mlp) Graph() *G.ExprGraph {
	return m.g
}

// Clone clones an mlp
func (m *mlp) Clone() (NeuralNet, error) {
	return m.CloneWithBatch(m.batchSize)
}

// CloneWithBatch clones an mlp, including its weights, to a new
// computational graph with a new input batch size.
func (m *mlp) CloneWithBatch(batchSize int) (NeuralNet, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("cloneWithBatch: batch size must be "+
			"positive \n\thave(%v)", batchSize)
	}

	graph := G.NewGraph()
	input := G.NewMatrix(
		graph,
		tensor.Float64,
		G.WithShape(batchSize, m.numInputs),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	layers := make([]Layer, len(m.layers))
	for i := range m.layers {
		layers[i] = m.layers[i].CloneTo(graph)
	}

	network := &mlp{
		g:          graph,
		layers:     layers,
		input:      input,
		numOutputs: m.numOutputs,
		numInputs:  m.numInputs,
		batchSize:  batchSize,
	}
	if _, err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("cloneWithBatch: could not clone: %v", err)
	}

	// Values are copied explicitly in case cloning did not bind them
	if err := network.Set(m); err != nil {
		return nil, fmt.Errorf("cloneWithBatch: %v", err)
	}
	return network, nil
}

// BatchSize returns the batch size of inputs to the network
func (m *mlp) BatchSize() int {
	return m.batchSize
}

// Features returns the number of features in a single input vector
func (m *mlp) Features() int {
	return m.numInputs
}

// Outputs returns the number of outputs from the network per input
func (m *mlp) Outputs() int {
	return m.numOutputs
}

// SetInput sets the value of the input node before running the forward
// pass. The input should be a row-major matrix of BatchSize() rows and
// Features() columns.
func (m *mlp) SetInput(input []float64) error {
	if len(input) != m.numInputs*m.batchSize {
		return fmt.Errorf("setInput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", m.numInputs*m.batchSize, len(input))
	}

	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(m.input.Shape()...),
	)
	return G.Let(m.input, inputTensor)
}

// Set sets the weights of the mlp to be equal to the weights of
// another NeuralNet. Weights are copied into the existing weight
// tensors of the mlp.
func (m *mlp) Set(source NeuralNet) error {
	return m.Polyak(source, 1.0)
}

// Polyak sets the weights of the mlp to be a polyak average between
// its existing weights and the weights of another NeuralNet:
//
//	w ← (1 - tau) * w + tau * source
func (m *mlp) Polyak(source NeuralNet, tau float64) error {
	sourceNodes := source.Learnables()
	nodes := m.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("polyak: incompatible number of learnables "+
			"\n\twant(%v) \n\thave(%v)", len(nodes), len(sourceNodes))
	}

	for i := range nodes {
		weights, err := data(nodes[i])
		if err != nil {
			return fmt.Errorf("polyak: %v", err)
		}
		sourceWeights, err := data(sourceNodes[i])
		if err != nil {
			return fmt.Errorf("polyak: %v", err)
		}
		if len(weights) != len(sourceWeights) {
			return fmt.Errorf("polyak: incompatible shapes for %v "+
				"\n\twant(%v) \n\thave(%v)", nodes[i].Name(), nodes[i].Shape(),
				sourceNodes[i].Shape())
		}

		if tau == 1.0 {
			copy(weights, sourceWeights)
		} else {
			floats.Scale(1-tau, weights)
			floats.AddScaled(weights, tau, sourceWeights)
		}
	}
	return nil
}

// Weights returns a copy of the weights of the mlp, keyed by the name
// of each learnable node
func (m *mlp) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense, len(m.Learnables()))
	for _, node := range m.Learnables() {
		values, err := data(node)
		if err != nil {
			panic(fmt.Sprintf("weights: %v", err))
		}

		shape := node.Shape()
		weights[node.Name()] = mat.NewDense(shape[0], shape[1],
			append([]float64{}, values...))
	}
	return weights
}

// SetWeights copies the argument weights into the mlp. Every learnable
// node of the mlp must have weights of matching shape.
func (m *mlp) SetWeights(weights map[string]*mat.Dense) error {
	for _, node := range m.Learnables() {
		w, ok := weights[node.Name()]
		if !ok {
			return fmt.Errorf("setWeights: missing weights %v", node.Name())
		}

		shape := node.Shape()
		if r, c := w.Dims(); r != shape[0] || c != shape[1] {
			return fmt.Errorf("setWeights: incompatible shape for %v "+
				"\n\twant(%v) \n\thave(%v)", node.Name(), shape,
				[]int{r, c})
		}
	}

	for _, node := range m.Learnables() {
		values, err := data(node)
		if err != nil {
			return fmt.Errorf("setWeights: %v", err)
		}

		w := weights[node.Name()]
		cols := node.Shape()[1]
		for i := range values {
			values[i] = w.At(i/cols, i%cols)
		}
	}
	return nil
}

// Learnables returns the learnable nodes in the mlp
func (m *mlp) Learnables() G.Nodes {
	if m.learnables == nil {
		learnables := make([]*G.Node, 0, 2*len(m.layers))
		for i := range m.layers {
			learnables = append(learnables, m.layers[i].Weights())
			if bias := m.layers[i].Bias(); bias != nil {
				learnables = append(learnables, bias)
			}
		}
		m.learnables = G.Nodes(learnables)
	}
	return m.learnables
}

// Model returns the learnables nodes with their gradients.
func (m *mlp) Model() []G.ValueGrad {
	if m.model == nil {
		m.model = make([]G.ValueGrad, 0, len(m.Learnables()))
		for _, node := range m.Learnables() {
			m.model = append(m.model, node)
		}
	}
	return m.model
}

// fwd performs the forward pass of the mlp on the input node
func (m *mlp) fwd(input *G.Node) (*G.Node, error) {
	if features := input.Shape()[1]; features != m.numInputs {
		return nil, fmt.Errorf("fwd: invalid shape for input to neural net:"+
			" \n\twant(%v) \n\thave(%v)", m.numInputs, features)
	}

	pred := input
	var err error
	for i, l := range m.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	m.prediction = pred
	G.Read(m.prediction, &m.predVal)

	return pred, nil
}

// Output returns the output of the mlp after its graph has been run
func (m *mlp) Output() G.Value {
	return m.predVal
}

// Prediction returns the node of the computational graph the stores
// the output of the mlp
func (m *mlp) Prediction() *G.Node {
	return m.prediction
}

// data returns the backing data of a node's value
func data(node *G.Node) ([]float64, error) {
	dense, ok := node.Value().(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("node %v has no dense value", node.Name())
	}

	values, ok := dense.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("node %v does not hold float64s", node.Name())
	}
	return values, nil
}
