package kinematics

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

var kinCfg Config

type Config struct {
	Dt             float64       // 单步推进的物理时长 s
	StepsPerFrame  int           // 每帧推进的步数
	FrameInterval  time.Duration // 两帧之间的真实时间间隔
	Particles      int           // 同时存活的粒子上限
	FrameParticles int           // 单帧推送的粒子上限
	SpawnEvery     int           // 每隔多少步在入口生成一个新粒子
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
	sec := file.Section("kinematics")
	kinCfg = Config{
		Dt:             sec.Key("dt").MustFloat64(1e-4),
		StepsPerFrame:  sec.Key("steps_per_frame").MustInt(4),
		FrameInterval:  time.Duration(sec.Key("frame_interval").MustInt(40)) * time.Millisecond,
		Particles:      sec.Key("particles").MustInt(256),
		FrameParticles: sec.Key("frame_particles").MustInt(256),
		SpawnEvery:     sec.Key("spawn_every").MustInt(1),
	}
}

func DefaultConfig() Config {
	return kinCfg
}
