package huffword

import (
	"container/heap"
	"fmt"

	"github.com/npillmayer/huffword/symtab"
)

// TreeNode is a node of the Huffman merge tree. A leaf carries a token and
// its frequency; an inner node carries only the combined frequency of its
// two children.
type TreeNode struct {
	Token string
	Count int
	Left  *TreeNode
	Right *TreeNode
	seq   int // arrival number, breaks frequency ties first-in-first-out
}

// Leaf reports whether n has no children.
func (n *TreeNode) Leaf() bool {
	return n.Left == nil && n.Right == nil
}

// nodeQueue is a min-heap of tree nodes ordered by frequency, then by
// arrival, so that equal frequencies dequeue in insertion order and a given
// census always builds the same tree.
type nodeQueue struct {
	nodes []*TreeNode
	seq   int
}

func (q *nodeQueue) Len() int { return len(q.nodes) }

func (q *nodeQueue) Less(i, j int) bool {
	if q.nodes[i].Count != q.nodes[j].Count {
		return q.nodes[i].Count < q.nodes[j].Count
	}
	return q.nodes[i].seq < q.nodes[j].seq
}

func (q *nodeQueue) Swap(i, j int) {
	q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i]
}

func (q *nodeQueue) Push(x any) {
	n := x.(*TreeNode)
	n.seq = q.seq
	q.seq++
	q.nodes = append(q.nodes, n)
}

func (q *nodeQueue) Pop() any {
	old := q.nodes
	n := old[len(old)-1]
	old[len(old)-1] = nil
	q.nodes = old[:len(old)-1]
	return n
}

// BuildTree composes the Huffman tree for a token census.
//
// Leaves are seeded in the census table's slot order. The merge loop pops
// the two lowest-frequency nodes, attaches the first as the left child and
// the second as the right child of a fresh inner node, and pushes that node
// back, until one root remains. The root is nil for an empty census.
func BuildTree(freq *symtab.Table[int]) *TreeNode {
	queue := &nodeQueue{nodes: make([]*TreeNode, 0, freq.Len())}
	keys := freq.Keys()
	values := freq.Values()
	for i, token := range keys {
		heap.Push(queue, &TreeNode{Token: token, Count: values[i]})
	}
	for queue.Len() > 1 {
		left := heap.Pop(queue).(*TreeNode)
		right := heap.Pop(queue).(*TreeNode)
		heap.Push(queue, &TreeNode{
			Count: left.Count + right.Count,
			Left:  left,
			Right: right,
		})
	}
	if queue.Len() == 0 {
		return nil
	}
	root := queue.nodes[0]
	tracer().Debugf("huffman tree built, root weight %d", root.Count)
	return root
}

// DeriveCodes walks the tree and collects the token→code table.
//
// Descending left appends a 0 bit, descending right a 1 bit; codes are
// recorded at leaves only, which makes the table prefix-free. A tree that is
// a single leaf gets the one-bit code "0", so that a one-token text still
// encodes to a non-empty bit stream. A nil root yields an empty table.
func DeriveCodes(root *TreeNode, capacity int) (*symtab.Table[Code], error) {
	codes, err := symtab.New[Code](capacity)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return codes, nil
	}
	if root.Leaf() {
		if err := codes.Put(root.Token, Code{Bits: 0, Len: 1}); err != nil {
			return nil, err
		}
		return codes, nil
	}
	if err := deriveCodes(root, Code{}, codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func deriveCodes(n *TreeNode, prefix Code, codes *symtab.Table[Code]) error {
	if n.Leaf() {
		return codes.Put(n.Token, prefix)
	}
	assert(n.Left != nil && n.Right != nil, "inner node with a single child")
	if prefix.Len >= maxCodeLen {
		return fmt.Errorf("huffman tree deeper than %d levels", maxCodeLen)
	}
	if err := deriveCodes(n.Left, prefix.push(0), codes); err != nil {
		return err
	}
	return deriveCodes(n.Right, prefix.push(1), codes)
}
