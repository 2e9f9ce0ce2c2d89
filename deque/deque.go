/**
 *
 * author ky
 * 利用数组实现双端队列，主要原因为：动画层每个时间步都要遍历全部示踪粒子做平流，
 * 数组具有更好的局部性，有利于遍历速度的提升
 * 元素类型为 model.Particle，入口端生成新粒子，飞出喷管后从另一端回收
 *
 */

package deque

import "rjet/model"

type Deque interface {
	// 队列的长度
	Size() int

	// 获取队列中对应下标的粒子
	Get(i int) model.Particle

	// 覆写队列中对应下标的粒子
	Set(i int, p model.Particle)

	// 正向遍历
	Traverse(f func(i int, p *model.Particle))

	// 区间遍历，区间为 [start, end)
	TraverseRange(start, end int, f func(i int, p *model.Particle))

	// 在队列结尾增加一个元素
	AddLast(p model.Particle)

	// 在队列结尾删除一个元素
	RemoveLast()

	// 在队列头部增加一个元素
	AddFirst(p model.Particle)

	// 在队列头部删除一个元素
	RemoveFirst()

	IsFull() bool

	IsEmpty() bool
}
