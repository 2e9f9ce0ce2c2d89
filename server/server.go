package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"rjet/model"
	"rjet/solver"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
}

func NewServer(addr string, upgrader websocket.Upgrader) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
	}
}

// serveWs 处理一个前端连接，每个连接配一套求解器和动画引擎
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Error("websocket 升级失败")
		return
	}
	defer conn.Close()

	hub := NewHub(conn, solver.NewStationSolver(solver.DefaultGeometry(), solver.DefaultOperating()))
	defer hub.close()
	go hub.handleRequest()
	go hub.handleResponse()

	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			log.WithFields(log.Fields{"err": err}).Info("连接断开")
			return
		}
		hub.msg <- msg
	}
}

func (s *Server) Serve() error {
	http.HandleFunc("/ws", s.serveWs)
	log.WithFields(log.Fields{"addr": s.addr}).Info("websocket 服务启动")
	return http.ListenAndServe(s.addr, nil)
}
