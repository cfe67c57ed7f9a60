package ml

import (
	"errors"
	"fmt"
)

// DecisionTree is a flattened binary tree. Node 0 is the root; a sample
// goes left when features[FeatureIdx] <= Threshold.
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
}

func (dt *DecisionTree) leaf(features []float64) (TreeNode, error) {
	if len(dt.Nodes) == 0 {
		return TreeNode{}, errors.New("empty tree")
	}
	idx := 0
	// A validated tree reaches a leaf in at most len(Nodes) steps.
	for steps := 0; steps <= len(dt.Nodes); steps++ {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return TreeNode{}, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.Nodes) {
			return TreeNode{}, errors.New("invalid tree state")
		}
	}
	return TreeNode{}, errors.New("tree contains a cycle")
}

func (dt *DecisionTree) validate() error {
	if len(dt.Nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	for i, node := range dt.Nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= NumFeatures {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		// Children always follow their parent in the flattened layout.
		if node.LeftChild <= i || node.LeftChild >= len(dt.Nodes) {
			return fmt.Errorf("node %d: left child %d out of range", i, node.LeftChild)
		}
		if node.RightChild <= i || node.RightChild >= len(dt.Nodes) {
			return fmt.Errorf("node %d: right child %d out of range", i, node.RightChild)
		}
	}
	return nil
}

// DecisionTreeRegressor returns the value of the leaf a sample lands in.
type DecisionTreeRegressor struct {
	DecisionTree
}

func (r *DecisionTreeRegressor) Predict(features []float64) (float64, error) {
	node, err := r.leaf(features)
	if err != nil {
		return 0, err
	}
	return node.Value, nil
}

// DecisionTreeClassifier returns the class label of the leaf a sample
// lands in.
type DecisionTreeClassifier struct {
	DecisionTree
}

func (c *DecisionTreeClassifier) Predict(features []float64) (int, error) {
	node, err := c.leaf(features)
	if err != nil {
		return 0, err
	}
	return node.ClassLabel, nil
}
