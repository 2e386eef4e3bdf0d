// choropleth 命令行：离线渲染地图、查询县数据、模拟悬停与输出图例
package main

import (
	"os"

	"edu-choropleth/cmd/choropleth/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
