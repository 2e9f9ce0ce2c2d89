package deque

import (
	"rjet/model"
)

// 数组大小基数
const base = 8

// ArrDeque 由两个定长数组拼成：front 承接头部操作，从数组高位向低位生长；
// back 承接尾部操作，从低位向高位生长。逻辑顺序为 front 段接 back 段。
// 不变式：back 非空时 front.end 钉在 capacity，front 非空时 back.start 钉在 0，
// 队列清空时两个窗口复位，因此任一数组顶到边界时另一个数组必为空，直接交换引用即可。
type ArrDeque struct {
	front container
	back  container

	// 容量
	capacity int
}

type container struct {
	arr   []model.Particle
	start int
	end   int
}

func (c *container) len() int {
	return c.end - c.start
}

// 工厂方法
func NewArrDeque(capacity int) *ArrDeque {
	remainder := capacity % base
	if remainder != 0 {
		capacity = capacity - remainder + base
	}
	return &ArrDeque{
		front: container{
			arr:   make([]model.Particle, capacity),
			start: capacity,
			end:   capacity,
		},
		back: container{
			arr:   make([]model.Particle, capacity),
			start: 0,
			end:   0,
		},
		capacity: capacity,
	}
}

func (ad *ArrDeque) Size() int {
	return ad.front.len() + ad.back.len()
}

func (ad *ArrDeque) Get(i int) model.Particle {
	if i < 0 || i >= ad.Size() {
		panic("index out of length")
	}
	if l := ad.front.len(); i < l {
		return ad.front.arr[ad.front.start+i]
	} else {
		return ad.back.arr[ad.back.start+i-l]
	}
}

func (ad *ArrDeque) Set(i int, p model.Particle) {
	if i < 0 || i >= ad.Size() {
		panic("index out of length")
	}
	if l := ad.front.len(); i < l {
		ad.front.arr[ad.front.start+i] = p
	} else {
		ad.back.arr[ad.back.start+i-l] = p
	}
}

func (ad *ArrDeque) Traverse(f func(i int, p *model.Particle)) {
	k := 0
	for z := ad.front.start; z < ad.front.end; z++ {
		f(k, &ad.front.arr[z])
		k++
	}
	for z := ad.back.start; z < ad.back.end; z++ {
		f(k, &ad.back.arr[z])
		k++
	}
}

func (ad *ArrDeque) TraverseRange(start, end int, f func(i int, p *model.Particle)) {
	if start < 0 || start > end || end > ad.Size() {
		panic("index out of length")
	}
	l := ad.front.len()
	if end <= l { // 区间完全落在 front 段
		k := start
		for z := ad.front.start + start; z < ad.front.start+end; z++ {
			f(k, &ad.front.arr[z])
			k++
		}
		return
	}
	if start >= l { // 区间完全落在 back 段
		k := start
		for z := ad.back.start + start - l; z < ad.back.start+end-l; z++ {
			f(k, &ad.back.arr[z])
			k++
		}
		return
	}
	// 区间跨越两个数组
	k := start
	for z := ad.front.start + start; z < ad.front.end; z++ {
		f(k, &ad.front.arr[z])
		k++
	}
	for z := ad.back.start; z < ad.back.start+end-l; z++ {
		f(k, &ad.back.arr[z])
		k++
	}
}

func (ad *ArrDeque) AddLast(p model.Particle) {
	if ad.IsFull() {
		// todo 扩容
		return
	}
	if ad.back.end != ad.capacity { // 可能性最大的选项放在最前面
		if ad.front.end == ad.capacity {
			ad.back.arr[ad.back.end] = p
			ad.back.end++
		} else {
			// RemoveLast 消耗完了 back 中的元素并减到了 front 中，尾部接着 front 生长
			ad.front.arr[ad.front.end] = p
			ad.front.end++
		}
	} else {
		// back 顶到数组末端且队列未满，此时 front 必为空，交换引用接着写
		ad.front, ad.back = ad.back, ad.front
		ad.back.start, ad.back.end = 0, 0
		ad.back.arr[0] = p
		ad.back.end = 1
	}
}

func (ad *ArrDeque) RemoveLast() {
	if ad.IsEmpty() {
		return
	}
	if ad.back.len() > 0 {
		ad.back.end--
	} else {
		ad.front.end--
	}
	if ad.Size() == 0 {
		ad.reset()
	}
}

func (ad *ArrDeque) AddFirst(p model.Particle) {
	if ad.IsFull() {
		// todo 扩容
		return
	}
	if ad.front.start != 0 { // 可能性最大的选项放在最前面
		if ad.back.start == 0 {
			ad.front.start--
			ad.front.arr[ad.front.start] = p
		} else {
			// RemoveFirst 消耗完了 front 中的元素并减到了 back 中，头部接着 back 生长
			ad.back.start--
			ad.back.arr[ad.back.start] = p
		}
	} else {
		// front 顶到数组开端且队列未满，此时 back 必为空，交换引用接着写
		ad.front, ad.back = ad.back, ad.front
		ad.front.start, ad.front.end = ad.capacity, ad.capacity
		ad.front.start--
		ad.front.arr[ad.front.start] = p
	}
}

func (ad *ArrDeque) RemoveFirst() {
	if ad.IsEmpty() {
		return
	}
	if ad.front.len() > 0 {
		ad.front.start++
	} else {
		ad.back.start++
	}
	if ad.Size() == 0 {
		ad.reset()
	}
}

func (ad *ArrDeque) IsFull() bool {
	return ad.Size() == ad.capacity
}

func (ad *ArrDeque) IsEmpty() bool {
	return ad.Size() == 0
}

// 清空后把两个窗口复位到初始位置
func (ad *ArrDeque) reset() {
	ad.front.start, ad.front.end = ad.capacity, ad.capacity
	ad.back.start, ad.back.end = 0, 0
}
