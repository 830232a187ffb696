// Package nn provides neural network building blocks as plain structs
// composed by hand. There is no base-class machinery: a module is
// anything that can report its trainable parameters, and composites
// concatenate the parameter lists of their children.
package nn

import "github.com/percept-ml/percept/internal/tensor"

// Module is the minimal contract shared by all layers.
type Module[B tensor.Backend] interface {
	Parameters() []*Parameter[B]
}

// collectParameters concatenates the parameters of child modules.
func collectParameters[B tensor.Backend](modules ...Module[B]) []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range modules {
		params = append(params, m.Parameters()...)
	}
	return params
}
