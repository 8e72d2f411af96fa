package utils

import "go.uber.org/zap"

// Log 全局日志器，main 启动时初始化
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

func InitLogger() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	Log = logger.Sugar()
}
