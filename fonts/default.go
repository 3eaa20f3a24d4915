// Package fonts 负责在启动时解析平台默认字体。
// 布局引擎只接受显式的字体文件路径，平台探测集中在这里做一次。
package fonts

import (
	"fmt"
	"os"
	"runtime"
)

const (
	windowsDefault = `C:\Windows\Fonts\constan.ttf`
	darwinDefault  = `/Library/Fonts/GeorgiaPro-CondLight.ttf`
)

// 常见 Linux 发行版的候选字体，按优先级排列。
var linuxCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
}

// Default 返回当前平台的默认字体文件路径。
// 找不到可用字体时返回错误，由调用方决定是否要求显式指定。
func Default() (string, error) {
	return defaultFor(runtime.GOOS)
}

func defaultFor(goos string) (string, error) {
	switch goos {
	case "windows":
		return checkExists(windowsDefault)
	case "darwin":
		return checkExists(darwinDefault)
	default:
		for _, path := range linuxCandidates {
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		return "", fmt.Errorf("fonts: 平台 %s 上找不到默认字体，请用 -font 显式指定", goos)
	}
}

func checkExists(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("fonts: 默认字体 %s 不可用: %w", path, err)
	}
	return path, nil
}

// Resolve 在 explicit 非空时优先使用之，否则回退到平台默认字体。
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("fonts: 字体 %s 不可用: %w", explicit, err)
		}
		return explicit, nil
	}
	return Default()
}
