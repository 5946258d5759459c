// Package rbtree provides a generic red-black tree whose nodes live in a
// slice-backed allocator and are addressed by uint32 indexes.
package rbtree

import (
	"math"
	"slices"
)

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth factor for storage.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
)

const (
	red               = false
	black             = true
	negativeLimitNode = math.MaxUint32
)

type node[K, V any] struct {
	key                 K
	value               V
	parent, left, right uint32
	color               bool // Black or red.
}

// Tree is a red-black tree with an API similar to C++ STL's map.
//
// The implementation is inspired (read: stolen) from:
// http://en.literateprograms.org/Red-black_tree_(C)#chunk use:private function prototypes.
//
// Nodes are never freed: the tree only grows. Node 0 is the nil sentinel and
// math.MaxUint32 marks the position before the minimum.
// Credits: Yaz Saito.
type Tree[K, V any] struct {
	compare func(a, b K) int

	// Nodes storage, index 0 is reserved.
	nodes []node[K, V]

	// Root of the tree.
	root uint32

	// The minimum and maximum nodes under the tree.
	minNode, maxNode uint32

	// Number of nodes under root, including the root.
	count int
}

// New creates an empty tree ordered by compare, which must define a strict
// total order: negative when a < b, zero when equal, positive when a > b.
func New[K, V any](compare func(a, b K) int) *Tree[K, V] {
	if compare == nil {
		panic("rbtree: nil compare function")
	}

	return &Tree[K, V]{compare: compare}
}

// Grow ensures that at least n more nodes fit without reallocating.
func (tree *Tree[K, V]) Grow(n int) {
	if n <= 0 {
		return
	}

	if len(tree.nodes) == 0 {
		n++
	}

	tree.nodes = slices.Grow(tree.nodes, n)
}

// Len returns the number of elements in the tree.
func (tree *Tree[K, V]) Len() int {
	return tree.count
}

// Clone returns an independent copy of the tree. Keys and values are copied
// by assignment.
func (tree *Tree[K, V]) Clone() *Tree[K, V] {
	clone := *tree

	if tree.nodes != nil {
		capSize := (len(tree.nodes) * growCapacityNumerator) / growCapacityDenominator
		clone.nodes = make([]node[K, V], len(tree.nodes), capSize)
		copy(clone.nodes, tree.nodes)
	}

	return &clone
}

// Get returns the value stored under key.
func (tree *Tree[K, V]) Get(key K) (V, bool) {
	nodeIdx, exact := tree.findGE(key)
	if exact {
		return tree.nodes[nodeIdx].value, true
	}

	var zero V

	return zero, false
}

// Min creates an iterator that points to the minimum item in the tree.
// If the tree is empty, returns Limit().
func (tree *Tree[K, V]) Min() Iterator[K, V] {
	return Iterator[K, V]{tree, tree.minNode}
}

// Max creates an iterator that points at the maximum item in the tree.
//
// If the tree is empty, returns NegativeLimit().
func (tree *Tree[K, V]) Max() Iterator[K, V] {
	if tree.maxNode == 0 {
		return Iterator[K, V]{tree, negativeLimitNode}
	}

	return Iterator[K, V]{tree, tree.maxNode}
}

// Limit creates an iterator that points beyond the maximum item in the tree.
func (tree *Tree[K, V]) Limit() Iterator[K, V] {
	return Iterator[K, V]{tree, 0}
}

// NegativeLimit creates an iterator that points before the minimum item in the tree.
func (tree *Tree[K, V]) NegativeLimit() Iterator[K, V] {
	return Iterator[K, V]{tree, negativeLimitNode}
}

// FindGE finds the smallest element N such that N >= key, and returns the
// iterator pointing to the element. If no such element is found,
// returns tree.Limit().
func (tree *Tree[K, V]) FindGE(key K) Iterator[K, V] {
	nodeIdx, _ := tree.findGE(key)

	return Iterator[K, V]{tree, nodeIdx}
}

// Insert stores value under key unless key is already present. It returns
// the value now associated with key and whether a new node was created.
//
// The compare function is only called while searching for the insertion
// point, so a panicking compare leaves the tree unchanged.
//
//nolint:gocognit // RB-tree insertion with rebalancing is inherently complex.
func (tree *Tree[K, V]) Insert(key K, value V) (V, bool) {
	nodeIdx, exact := tree.doInsert(key, value)
	if exact {
		return tree.nodes[nodeIdx].value, false
	}

	alloc := tree.nodes
	alloc[nodeIdx].color = red

	for {
		// Case 1: N is at the root.
		if alloc[nodeIdx].parent == 0 {
			alloc[nodeIdx].color = black

			break
		}

		// Case 2: The parent is black, so the tree already
		// satisfies the RB properties.
		if alloc[alloc[nodeIdx].parent].color {
			break
		}

		// Case 3: parent and uncle are both red.
		// Then paint both black and make grandparent red.
		grandparent := alloc[alloc[nodeIdx].parent].parent

		var uncle uint32
		if isLeftChild(alloc[nodeIdx].parent, alloc) {
			uncle = alloc[grandparent].right
		} else {
			uncle = alloc[grandparent].left
		}

		if uncle != 0 && !alloc[uncle].color {
			alloc[alloc[nodeIdx].parent].color = black
			alloc[uncle].color = black
			alloc[grandparent].color = red
			nodeIdx = grandparent

			continue
		}

		// Case 4: parent is red, uncle is black (1).
		if isRightChild(nodeIdx, alloc) && isLeftChild(alloc[nodeIdx].parent, alloc) {
			tree.rotateLeft(alloc[nodeIdx].parent)
			nodeIdx = alloc[nodeIdx].left

			continue
		}

		if isLeftChild(nodeIdx, alloc) && isRightChild(alloc[nodeIdx].parent, alloc) {
			tree.rotateRight(alloc[nodeIdx].parent)
			nodeIdx = alloc[nodeIdx].right

			continue
		}

		// Case 5: parent is red, uncle is black (2).
		alloc[alloc[nodeIdx].parent].color = black
		alloc[grandparent].color = red

		if isLeftChild(nodeIdx, alloc) {
			tree.rotateRight(grandparent)
		} else {
			tree.rotateLeft(grandparent)
		}

		break
	}

	return value, true
}

// Iterator allows scanning tree elements in sort order.
// Iterators stay valid across inserts.
type Iterator[K, V any] struct {
	tree *Tree[K, V]
	node uint32
}

// Equal checks for the underlying nodes equality.
func (iter Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return iter.node == other.node
}

// Limit checks if the iterator points beyond the max element in the tree.
func (iter Iterator[K, V]) Limit() bool {
	return iter.node == 0
}

// Min checks if the iterator points to the minimum element in the tree.
func (iter Iterator[K, V]) Min() bool {
	return iter.node == iter.tree.minNode
}

// Max checks if the iterator points to the maximum element in the tree.
func (iter Iterator[K, V]) Max() bool {
	return iter.node == iter.tree.maxNode
}

// NegativeLimit checks if the iterator points before the minimum element in the tree.
func (iter Iterator[K, V]) NegativeLimit() bool {
	return iter.node == negativeLimitNode
}

// Key returns the current key.
//
// REQUIRES: !iter.Limit() && !iter.NegativeLimit().
func (iter Iterator[K, V]) Key() K {
	doAssert(!iter.Limit() && !iter.NegativeLimit())

	return iter.tree.nodes[iter.node].key
}

// Value returns the current value.
//
// REQUIRES: !iter.Limit() && !iter.NegativeLimit().
func (iter Iterator[K, V]) Value() V {
	doAssert(!iter.Limit() && !iter.NegativeLimit())

	return iter.tree.nodes[iter.node].value
}

// Next creates a new iterator that points to the successor of the current element.
//
// REQUIRES: !iter.Limit().
func (iter Iterator[K, V]) Next() Iterator[K, V] {
	doAssert(!iter.Limit())

	if iter.NegativeLimit() {
		return Iterator[K, V]{iter.tree, iter.tree.minNode}
	}

	return Iterator[K, V]{iter.tree, doNext(iter.node, iter.tree.nodes)}
}

// Prev creates a new iterator that points to the predecessor of the current
// node.
//
// REQUIRES: !iter.NegativeLimit().
func (iter Iterator[K, V]) Prev() Iterator[K, V] {
	doAssert(!iter.NegativeLimit())

	if !iter.Limit() {
		return Iterator[K, V]{iter.tree, doPrev(iter.node, iter.tree.nodes)}
	}

	if iter.tree.maxNode == 0 {
		return Iterator[K, V]{iter.tree, negativeLimitNode}
	}

	return Iterator[K, V]{iter.tree, iter.tree.maxNode}
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}

// Internal node attribute accessors.
func getColor[K, V any](nodeIdx uint32, alloc []node[K, V]) bool {
	if nodeIdx == 0 {
		return black
	}

	return alloc[nodeIdx].color
}

func isLeftChild[K, V any](nodeIdx uint32, alloc []node[K, V]) bool {
	return nodeIdx == alloc[alloc[nodeIdx].parent].left
}

func isRightChild[K, V any](nodeIdx uint32, alloc []node[K, V]) bool {
	return nodeIdx == alloc[alloc[nodeIdx].parent].right
}

// Return the minimum node that's larger than N. Return 0 if no such
// node is found.
func doNext[K, V any](nodeIdx uint32, alloc []node[K, V]) uint32 {
	if alloc[nodeIdx].right != 0 {
		cursor := alloc[nodeIdx].right

		for alloc[cursor].left != 0 {
			cursor = alloc[cursor].left
		}

		return cursor
	}

	for nodeIdx != 0 {
		parentIdx := alloc[nodeIdx].parent
		if parentIdx == 0 {
			return 0
		}

		if isLeftChild(nodeIdx, alloc) {
			return parentIdx
		}

		nodeIdx = parentIdx
	}

	return 0
}

// Return the maximum node that's smaller than N. Return negativeLimitNode
// if no such node is found.
func doPrev[K, V any](nodeIdx uint32, alloc []node[K, V]) uint32 {
	if alloc[nodeIdx].left != 0 {
		cursor := alloc[nodeIdx].left

		for alloc[cursor].right != 0 {
			cursor = alloc[cursor].right
		}

		return cursor
	}

	for nodeIdx != 0 {
		parentIdx := alloc[nodeIdx].parent
		if parentIdx == 0 {
			break
		}

		if isRightChild(nodeIdx, alloc) {
			return parentIdx
		}

		nodeIdx = parentIdx
	}

	return negativeLimitNode
}

// Private methods.

func (tree *Tree[K, V]) malloc(key K, value V, parent uint32) uint32 {
	if len(tree.nodes) == 0 {
		// Zero is reserved.
		tree.nodes = append(tree.nodes, node[K, V]{})
	}

	nodeLen := len(tree.nodes)
	if uint64(nodeLen) >= negativeLimitNode-1 {
		// [math.MaxUint32] is reserved.
		panic("rbtree: node storage has reached the maximum value for uint32")
	}

	tree.nodes = append(tree.nodes, node[K, V]{key: key, value: value, parent: parent})

	return uint32(nodeLen)
}

// Try inserting the key into the tree. When the key is already present,
// return its node and true. Otherwise link a new leaf and return it.
// All compare calls happen before the first write.
func (tree *Tree[K, V]) doInsert(key K, value V) (uint32, bool) {
	if tree.root == 0 {
		nodeIdx := tree.malloc(key, value, 0)
		tree.root = nodeIdx
		tree.minNode = nodeIdx
		tree.maxNode = nodeIdx
		tree.count++

		return nodeIdx, false
	}

	parent := tree.root
	leftmost, rightmost := true, true

	var comp int

	for {
		comp = tree.compare(key, tree.nodes[parent].key)

		var next uint32

		switch {
		case comp == 0:
			return parent, true
		case comp < 0:
			rightmost = false
			next = tree.nodes[parent].left
		default:
			leftmost = false
			next = tree.nodes[parent].right
		}

		if next == 0 {
			break
		}

		parent = next
	}

	nodeIdx := tree.malloc(key, value, parent)

	if comp < 0 {
		tree.nodes[parent].left = nodeIdx
	} else {
		tree.nodes[parent].right = nodeIdx
	}

	if leftmost {
		tree.minNode = nodeIdx
	}

	if rightmost {
		tree.maxNode = nodeIdx
	}

	tree.count++

	return nodeIdx, false
}

// Find a node whose key >= key. The 2nd return value is true iff the
// node's key equals key. Returns (0, false) if all nodes in the tree are <
// key.
func (tree *Tree[K, V]) findGE(key K) (uint32, bool) {
	alloc := tree.nodes
	nodeIdx := tree.root

	for {
		if nodeIdx == 0 {
			return 0, false
		}

		comp := tree.compare(key, alloc[nodeIdx].key)

		switch {
		case comp == 0:
			return nodeIdx, true
		case comp < 0:
			if alloc[nodeIdx].left == 0 {
				return nodeIdx, false
			}

			nodeIdx = alloc[nodeIdx].left
		default:
			if alloc[nodeIdx].right == 0 {
				return doNext(nodeIdx, alloc), false
			}

			nodeIdx = alloc[nodeIdx].right
		}
	}
}

// rotateDirection performs a tree rotation in the specified direction.
// IsLeft=true performs left rotation, isLeft=false performs right rotation.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func (tree *Tree[K, V]) rotateDirection(pivot uint32, isLeft bool) {
	alloc := tree.nodes

	// Get the child in the opposite direction of rotation.
	var child uint32
	if isLeft {
		child = alloc[pivot].right
	} else {
		child = alloc[pivot].left
	}

	// Move the inner subtree.
	var innerSubtree uint32
	if isLeft {
		innerSubtree = alloc[child].left
		alloc[pivot].right = innerSubtree
	} else {
		innerSubtree = alloc[child].right
		alloc[pivot].left = innerSubtree
	}

	if innerSubtree != 0 {
		alloc[innerSubtree].parent = pivot
	}

	// Update parent links.
	alloc[child].parent = alloc[pivot].parent

	if alloc[pivot].parent == 0 {
		tree.root = child
	} else {
		if isLeftChild(pivot, alloc) {
			alloc[alloc[pivot].parent].left = child
		} else {
			alloc[alloc[pivot].parent].right = child
		}
	}

	// Complete the rotation.
	if isLeft {
		alloc[child].left = pivot
	} else {
		alloc[child].right = pivot
	}

	alloc[pivot].parent = child
}

func (tree *Tree[K, V]) rotateLeft(nodeIdx uint32) {
	tree.rotateDirection(nodeIdx, true)
}

func (tree *Tree[K, V]) rotateRight(nodeIdx uint32) {
	tree.rotateDirection(nodeIdx, false)
}
