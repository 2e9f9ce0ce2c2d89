package commands

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"rjet/server"
)

func serveCmd() *cobra.Command {
	addr := server.DefaultConfig().Addr
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 websocket 服务，交互式求解并推送结果",
		RunE: func(cmd *cobra.Command, args []string) error {
			upgrader := websocket.Upgrader{
				ReadBufferSize:  1024,
				WriteBufferSize: 1024,
			}
			// 前端与服务不同源，放行跨域握手
			upgrader.CheckOrigin = func(r *http.Request) bool {
				return true
			}
			return server.NewServer(addr, upgrader).Serve()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "监听地址")
	return cmd
}
