package solver

// CalcHub 在求解服务与推送端之间传递信号
type CalcHub struct {
	Stop       chan struct{}
	FieldReady chan struct{} // 有新场可取
}

func NewCalcHub() *CalcHub {
	return &CalcHub{
		Stop:       make(chan struct{}),
		FieldReady: make(chan struct{}, 1),
	}
}

// 新场就绪。推送端没在听时信号合并，不阻塞求解
func (ch *CalcHub) PushSignal() {
	select {
	case ch.FieldReady <- struct{}{}:
	default:
	}
}

// 重建停止通道。停止后再次 Run 之前由发起方调用，
// 与 StopSignal 必须在同一协程内先后执行
func (ch *CalcHub) StartSignal() {
	ch.Stop = make(chan struct{})
}

func (ch *CalcHub) StopSignal() {
	close(ch.Stop)
}
