package btrees

import (
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
)

// btreeTraverser implements the BTreeTraverser interface atop a
// BTreeNavigator, walking the tree purely through GetRootNode/GetChildNode
// so it works for both physical and resolver-backed virtual trees.
type btreeTraverser struct {
	navigator interfaces.BTreeNavigator
}

// NewBTreeTraverser creates a new BTreeTraverser implementation.
func NewBTreeTraverser(navigator interfaces.BTreeNavigator) interfaces.BTreeTraverser {
	return &btreeTraverser{navigator: navigator}
}

// childCount returns the number of children of a nonleaf node: each of its
// table-of-contents entries names exactly one child, by that child's
// minimum key.
func (t *btreeTraverser) childCount(node interfaces.BTreeNodeReader) int {
	return int(node.KeyCount())
}

// PreOrderTraversal visits each node before its children.
func (t *btreeTraverser) PreOrderTraversal(visitor interfaces.NodeVisitor) error {
	root, err := t.navigator.GetRootNode()
	if err != nil {
		return fmt.Errorf("failed to get root node: %w", err)
	}
	return t.preOrder(root, 0, visitor)
}

func (t *btreeTraverser) preOrder(node interfaces.BTreeNodeReader, depth int, visitor interfaces.NodeVisitor) error {
	if depth > maxDescentDepth {
		return fmt.Errorf("descent depth exceeded %d levels, tree is malformed or cyclic", maxDescentDepth)
	}

	cont, err := visitor(node, depth)
	if err != nil || !cont {
		return err
	}

	if node.IsLeaf() {
		return nil
	}

	for i := 0; i < t.childCount(node); i++ {
		child, err := t.navigator.GetChildNode(node, i)
		if err != nil {
			return fmt.Errorf("failed to get child %d at depth %d: %w", i, depth, err)
		}
		if err := t.preOrder(child, depth+1, visitor); err != nil {
			return err
		}
	}

	return nil
}

// InOrderTraversal visits a nonleaf node's children interleaved with the
// node itself, as is natural for a sorted key-value structure: child 0,
// then the node, then child 1, then the node again, and so on.
func (t *btreeTraverser) InOrderTraversal(visitor interfaces.NodeVisitor) error {
	root, err := t.navigator.GetRootNode()
	if err != nil {
		return fmt.Errorf("failed to get root node: %w", err)
	}
	return t.inOrder(root, 0, visitor)
}

func (t *btreeTraverser) inOrder(node interfaces.BTreeNodeReader, depth int, visitor interfaces.NodeVisitor) error {
	if depth > maxDescentDepth {
		return fmt.Errorf("descent depth exceeded %d levels, tree is malformed or cyclic", maxDescentDepth)
	}

	if node.IsLeaf() {
		_, err := visitor(node, depth)
		return err
	}

	childCount := t.childCount(node)
	for i := 0; i < childCount; i++ {
		child, err := t.navigator.GetChildNode(node, i)
		if err != nil {
			return fmt.Errorf("failed to get child %d at depth %d: %w", i, depth, err)
		}
		if err := t.inOrder(child, depth+1, visitor); err != nil {
			return err
		}

		if i < childCount-1 {
			cont, err := visitor(node, depth)
			if err != nil || !cont {
				return err
			}
		}
	}

	return nil
}

// PostOrderTraversal visits each node after its children.
func (t *btreeTraverser) PostOrderTraversal(visitor interfaces.NodeVisitor) error {
	root, err := t.navigator.GetRootNode()
	if err != nil {
		return fmt.Errorf("failed to get root node: %w", err)
	}
	return t.postOrder(root, 0, visitor)
}

func (t *btreeTraverser) postOrder(node interfaces.BTreeNodeReader, depth int, visitor interfaces.NodeVisitor) error {
	if depth > maxDescentDepth {
		return fmt.Errorf("descent depth exceeded %d levels, tree is malformed or cyclic", maxDescentDepth)
	}

	if !node.IsLeaf() {
		for i := 0; i < t.childCount(node); i++ {
			child, err := t.navigator.GetChildNode(node, i)
			if err != nil {
				return fmt.Errorf("failed to get child %d at depth %d: %w", i, depth, err)
			}
			if err := t.postOrder(child, depth+1, visitor); err != nil {
				return err
			}
		}
	}

	_, err := visitor(node, depth)
	return err
}

// LevelOrderTraversal visits nodes breadth-first, level by level.
func (t *btreeTraverser) LevelOrderTraversal(visitor interfaces.NodeVisitor) error {
	root, err := t.navigator.GetRootNode()
	if err != nil {
		return fmt.Errorf("failed to get root node: %w", err)
	}

	type queued struct {
		node  interfaces.BTreeNodeReader
		depth int
	}

	queue := []queued{{root, 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth > maxDescentDepth {
			return fmt.Errorf("descent depth exceeded %d levels, tree is malformed or cyclic", maxDescentDepth)
		}

		cont, err := visitor(current.node, current.depth)
		if err != nil {
			return err
		}
		if !cont || current.node.IsLeaf() {
			continue
		}

		for i := 0; i < t.childCount(current.node); i++ {
			child, err := t.navigator.GetChildNode(current.node, i)
			if err != nil {
				return fmt.Errorf("failed to get child %d at depth %d: %w", i, current.depth, err)
			}
			queue = append(queue, queued{child, current.depth + 1})
		}
	}

	return nil
}
