package server

import (
	"fmt"

	"gopkg.in/ini.v1"
)

var serverCfg Config

type Config struct {
	Addr        string
	CompactPush bool // 温度数组走增量编码推送
}

func init() {
	file, err := ini.Load("../conf/config.ini")
	if err != nil {
		file, err = ini.Load("conf/config.ini")
	}
	if err != nil {
		fmt.Println("配置文件读取错误，使用内置默认值: ", err)
		file = ini.Empty()
	}

	loadCfg(file)
}

func loadCfg(file *ini.File) {
	serverCfg = Config{
		Addr:        file.Section("server").Key("addr").MustString(":9000"),
		CompactPush: file.Section("server").Key("compact_push").MustBool(false),
	}
}

func DefaultConfig() Config {
	return serverCfg
}
