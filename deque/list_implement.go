package deque

import (
	"rjet/model"
)

// ListDeque 是链表实现，留作与 ArrDeque 的对照基准
type ListDeque struct {
	head *node
	tail *node

	size     int
	capacity int
}

type node struct {
	val  model.Particle
	pre  *node
	next *node
}

// 工厂方法
func NewListDeque(capacity int) *ListDeque {
	head := &node{}
	tail := &node{}
	head.next = tail
	tail.pre = head

	return &ListDeque{
		head:     head,
		tail:     tail,
		size:     0,
		capacity: capacity,
	}
}

func (ld *ListDeque) Size() int {
	return ld.size
}

func (ld *ListDeque) at(i int) *node {
	if i < 0 || i >= ld.size {
		panic("index out of length")
	}
	iter := ld.head.next
	for ; i > 0; i-- {
		iter = iter.next
	}
	return iter
}

func (ld *ListDeque) Get(i int) model.Particle {
	return ld.at(i).val
}

func (ld *ListDeque) Set(i int, p model.Particle) {
	ld.at(i).val = p
}

func (ld *ListDeque) Traverse(f func(i int, p *model.Particle)) {
	i := 0
	for iter := ld.head.next; iter != ld.tail; iter = iter.next {
		f(i, &iter.val)
		i++
	}
}

func (ld *ListDeque) TraverseRange(start, end int, f func(i int, p *model.Particle)) {
	if start < 0 || start > end || end > ld.size {
		panic("index out of length")
	}
	if start == end {
		return
	}
	iter := ld.at(start)
	for i := start; i < end; i++ {
		f(i, &iter.val)
		iter = iter.next
	}
}

func (ld *ListDeque) AddLast(p model.Particle) {
	if ld.IsFull() {
		return
	}
	newNode := &node{val: p}
	tmp := ld.tail.pre
	ld.tail.pre = newNode
	newNode.next = ld.tail
	newNode.pre = tmp
	tmp.next = newNode
	ld.size++
}

func (ld *ListDeque) RemoveLast() {
	if ld.size > 0 {
		ld.tail.pre = ld.tail.pre.pre
		ld.tail.pre.next = ld.tail
		ld.size--
	}
}

func (ld *ListDeque) AddFirst(p model.Particle) {
	if ld.IsFull() {
		return
	}
	newNode := &node{val: p}
	tmp := ld.head.next
	ld.head.next = newNode
	newNode.pre = ld.head
	newNode.next = tmp
	tmp.pre = newNode
	ld.size++
}

func (ld *ListDeque) RemoveFirst() {
	if ld.size > 0 {
		ld.head.next = ld.head.next.next
		ld.head.next.pre = ld.head
		ld.size--
	}
}

func (ld *ListDeque) IsFull() bool {
	return ld.size == ld.capacity
}

func (ld *ListDeque) IsEmpty() bool {
	return ld.size == 0
}
