/*
 * memsim - Arena-backed doubly-linked LRU queue.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package lrulist is a doubly-linked queue of uint32 slot indices used
// as the fully-associative TLB's LRU policy: front is the
// least-recently-used slot, back is the most-recently-used. It is
// grounded on the teacher's pointer-linked event queue
// (emu/event/event.go), but nodes are held in a flat arena and
// addressed by index rather than by pointer, per the spec's design
// note to avoid raw-pointer ownership cycles.
package lrulist

// node is one arena slot. prev/next are node indices into List.nodes,
// or noNode when absent.
type node struct {
	value      uint32
	prev, next int32
}

const noNode int32 = -1

// List is an index-based doubly-linked list. The zero value is not
// ready to use; call New.
type List struct {
	nodes       []node
	front, back int32
}

// New builds a list already containing values[0..n) in order, front to
// back — the construction the fully-associative TLB uses to seed its
// replacement queue with every slot index once at start-up.
func New(values []uint32) *List {
	l := &List{front: noNode, back: noNode}
	l.nodes = make([]node, 0, len(values))
	for _, v := range values {
		l.PushBack(v)
	}
	return l
}

// IsEmpty reports whether the list holds no nodes.
func (l *List) IsEmpty() bool {
	return l.front == noNode && l.back == noNode
}

// Node is an opaque handle into the list's arena.
type Node int32

// Front returns the least-recently-used node, or false if the list is
// empty.
func (l *List) Front() (Node, bool) {
	if l.front == noNode {
		return 0, false
	}
	return Node(l.front), true
}

// Back returns the most-recently-used node, or false if the list is
// empty.
func (l *List) Back() (Node, bool) {
	if l.back == noNode {
		return 0, false
	}
	return Node(l.back), true
}

// Value returns the slot index stored at n.
func (l *List) Value(n Node) uint32 {
	return l.nodes[n].value
}

// Prev returns the node before n (toward the front), or false at the
// front.
func (l *List) Prev(n Node) (Node, bool) {
	p := l.nodes[n].prev
	if p == noNode {
		return 0, false
	}
	return Node(p), true
}

// Next returns the node after n (toward the back), or false at the
// back.
func (l *List) Next(n Node) (Node, bool) {
	nx := l.nodes[n].next
	if nx == noNode {
		return 0, false
	}
	return Node(nx), true
}

// PushBack appends a new node holding value and returns it.
func (l *List) PushBack(value uint32) Node {
	idx := int32(len(l.nodes))
	l.nodes = append(l.nodes, node{value: value, prev: l.back, next: noNode})
	if l.back != noNode {
		l.nodes[l.back].next = idx
	} else {
		l.front = idx
	}
	l.back = idx
	return Node(idx)
}

// PushFront prepends a new node holding value and returns it.
func (l *List) PushFront(value uint32) Node {
	idx := int32(len(l.nodes))
	l.nodes = append(l.nodes, node{value: value, prev: noNode, next: l.front})
	if l.front != noNode {
		l.nodes[l.front].prev = idx
	} else {
		l.back = idx
	}
	l.front = idx
	return Node(idx)
}

// unlink detaches n from the chain without touching its own prev/next
// fields (callers relink or discard them).
func (l *List) unlink(idx int32) {
	cur := l.nodes[idx]
	if cur.prev != noNode {
		l.nodes[cur.prev].next = cur.next
	} else {
		l.front = cur.next
	}
	if cur.next != noNode {
		l.nodes[cur.next].prev = cur.prev
	} else {
		l.back = cur.prev
	}
}

// PopFront removes and returns the front node's value. Ok is false if
// the list was empty.
func (l *List) PopFront() (value uint32, ok bool) {
	if l.front == noNode {
		return 0, false
	}
	idx := l.front
	value = l.nodes[idx].value
	l.unlink(idx)
	return value, true
}

// PopBack removes and returns the back node's value. Ok is false if the
// list was empty.
func (l *List) PopBack() (value uint32, ok bool) {
	if l.back == noNode {
		return 0, false
	}
	idx := l.back
	value = l.nodes[idx].value
	l.unlink(idx)
	return value, true
}

// MoveBack relocates n to the back of the list (marking it
// most-recently-used). A no-op if n is already the back node.
func (l *List) MoveBack(n Node) {
	idx := int32(n)
	if idx == l.back {
		return
	}
	l.unlink(idx)

	cur := &l.nodes[idx]
	cur.prev = l.back
	cur.next = noNode
	if l.back != noNode {
		l.nodes[l.back].next = idx
	}
	l.back = idx
}
