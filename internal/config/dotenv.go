package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv 按 .env.local > .env 的优先级加载环境文件
// 已存在的系统环境变量不会被覆盖，返回实际加载的文件列表
func LoadDotEnv() []string {
	candidates := []string{".env.local", ".env"}
	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
