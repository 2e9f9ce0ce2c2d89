package server

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"rjet/kinematics"
	"rjet/model"
	"rjet/solver"
)

// Hub 串联一个连接、一套求解器和一个动画引擎。
// 连接只在 handleResponse 一个 goroutine 里写
type Hub struct {
	s    solver.Solver
	eng  *kinematics.Engine
	conn *websocket.Conn

	compact bool

	// request
	msg chan model.Msg
	// response
	reply  chan model.Msg
	frames chan kinematics.Frame

	done chan struct{}

	// 以下状态只在 handleRequest 一个 goroutine 里动
	solving   bool
	animating bool
	animStop  chan struct{}
}

func NewHub(conn *websocket.Conn, s solver.Solver) *Hub {
	return &Hub{
		s:       s,
		eng:     kinematics.NewEngine(),
		conn:    conn,
		compact: serverCfg.CompactPush,
		msg:     make(chan model.Msg, 10),
		reply:   make(chan model.Msg, 10),
		frames:  make(chan kinematics.Frame, 1),
		done:    make(chan struct{}),
	}
}

func (h *Hub) close() {
	close(h.done)
}

func (h *Hub) handleRequest() {
	for {
		select {
		case <-h.done:
			if h.solving {
				h.s.GetCalcHub().StopSignal()
			}
			if h.animating {
				close(h.animStop)
			}
			return
		case msg := <-h.msg:
			h.dispatch(msg)
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (h *Hub) dispatch(msg model.Msg) {
	switch msg.Type {
	case "env":
		var env model.Env
		if err := json.Unmarshal([]byte(msg.Content), &env); err != nil {
			log.WithFields(log.Fields{"err": err}).Warn("环境参数解析失败")
			return
		}
		h.s.SetEnv(env)
		h.sendReply(model.Msg{Type: "envSet", Content: "env is set"})
	case "geometry":
		var g model.GeometryConfig
		if err := json.Unmarshal([]byte(msg.Content), &g); err != nil {
			log.WithFields(log.Fields{"err": err}).Warn("几何参数解析失败")
			return
		}
		h.s.SetGeometry(g)
	case "start":
		if !h.solving {
			h.solving = true
			// 上一轮 stop 关掉的停止通道要先重建
			h.s.GetCalcHub().StartSignal()
			go h.s.Run()
		}
		h.sendReply(model.Msg{Type: "started"})
	case "stop":
		if h.solving {
			h.solving = false
			h.s.GetCalcHub().StopSignal()
		}
		h.sendReply(model.Msg{Type: "stopped", Content: "stopped"})
	case "mass_flow_rate":
		if v, ok := h.number(msg); ok {
			h.s.SetMassFlowRate(v)
		}
	case "chamber_pressure":
		if v, ok := h.number(msg); ok {
			h.s.SetChamberPressure(v)
		}
	case "heater_power":
		if v, ok := h.number(msg); ok {
			h.s.SetHeaterPower(v)
		}
	case "coolant_inlet_temp":
		if v, ok := h.number(msg); ok {
			h.s.SetCoolantInletTemp(v)
		}
	case "coolant_mass_flow":
		if v, ok := h.number(msg); ok {
			h.s.SetCoolantMassFlow(v)
		}
	case "flow_dir":
		h.s.SetFlowDirection(parseFlowDir(msg.Content))
	case "anim_start":
		if h.animating {
			h.sendReply(model.Msg{Type: "anim_started"})
			break
		}
		f := h.s.Latest()
		if f == nil {
			h.sendReply(model.Msg{Type: "error", Content: "尚无解场，先发送 start"})
			break
		}
		if err := h.eng.SetField(f); err != nil {
			log.WithFields(log.Fields{"err": err}).Warn("动画层初始化失败")
			break
		}
		h.animating = true
		h.animStop = make(chan struct{})
		go h.eng.Run(h.animStop)
		go h.pumpFrames(h.animStop)
		h.sendReply(model.Msg{Type: "anim_started"})
	case "anim_stop":
		if h.animating {
			h.animating = false
			close(h.animStop)
		}
		h.sendReply(model.Msg{Type: "anim_stopped"})
	default:
		log.WithFields(log.Fields{"type": msg.Type}).Warn("未知消息类型")
	}
}

func (h *Hub) number(msg model.Msg) (float64, bool) {
	v, err := strconv.ParseFloat(msg.Content, 64)
	if err != nil {
		log.WithFields(log.Fields{
			"type":    msg.Type,
			"content": msg.Content,
			"err":     err,
		}).Warn("数值参数解析失败")
		return 0, false
	}
	return v, true
}

func parseFlowDir(s string) model.FlowDirection {
	if s == "co" {
		return model.CoFlow
	}
	return model.CounterFlow
}

// 回执满了就丢，避免连接收尾时卡住请求循环
func (h *Hub) sendReply(m model.Msg) {
	select {
	case h.reply <- m:
	default:
	}
}

// 帧泵按帧间隔取快照，响应循环没跟上时换掉积压的旧帧
func (h *Hub) pumpFrames(stop chan struct{}) {
LOOP:
	for {
		select {
		case <-stop:
			break LOOP
		default:
			fr := h.eng.Frame()
			select {
			case h.frames <- fr:
			default:
				select {
				case <-h.frames:
				default:
				}
				select {
				case h.frames <- fr:
				default:
				}
			}
			time.Sleep(kinematics.DefaultConfig().FrameInterval)
		}
	}
}

func (h *Hub) handleResponse() {
	fieldReady := h.s.GetCalcHub().FieldReady
	for {
		select {
		case <-h.done:
			return
		case reply := <-h.reply:
			h.write(&reply)
		case <-fieldReady:
			h.pushField()
		case fr := <-h.frames:
			h.pushFrame(fr)
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (h *Hub) pushField() {
	f := h.s.Latest()
	if f == nil {
		return
	}
	var (
		data []byte
		err  error
		typ  = "field"
	)
	if h.compact {
		typ = "field_compact"
		data, err = json.Marshal(solver.BuildCompactPushData(f))
	} else {
		data, err = json.Marshal(solver.BuildPushData(f))
	}
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Error("推送数据编码失败")
		return
	}
	h.write(&model.Msg{Type: typ, Content: string(data)})
	// 动画层跟随最新解场
	if err := h.eng.SetField(f); err != nil {
		log.WithFields(log.Fields{"err": err}).Warn("动画层速度场更新失败")
	}
}

func (h *Hub) pushFrame(fr kinematics.Frame) {
	data, err := json.Marshal(fr)
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Error("帧编码失败")
		return
	}
	h.write(&model.Msg{Type: "frame", Content: string(data)})
}

func (h *Hub) write(msg *model.Msg) {
	if err := h.conn.WriteJSON(msg); err != nil {
		log.WithFields(log.Fields{"err": err}).Warn("写连接失败")
	}
}
