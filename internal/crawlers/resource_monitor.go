package crawlers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceUsage 一次运行中的资源使用峰值
type ResourceUsage struct {
	PeakMemoryPercent float64 // 系统内存使用率峰值(%)
	PeakCPUPercent    float64 // 系统CPU使用率峰值(%)
	Samples           int     // 采样次数
}

// ResourceMonitor 系统资源监控器
// 职责: 爬取期间周期采样内存和CPU,记录峰值写入运行报告
type ResourceMonitor struct {
	usage ResourceUsage
	mu    sync.Mutex

	cancelFunc context.CancelFunc
	done       chan struct{}
}

// NewResourceMonitor 创建资源监控器实例
func NewResourceMonitor() *ResourceMonitor {
	return &ResourceMonitor{}
}

// StartMonitoring 启动后台采样goroutine
// 重复调用是幂等的
func (rm *ResourceMonitor) StartMonitoring(ctx context.Context, interval time.Duration) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.cancelFunc != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	rm.cancelFunc = cancel
	rm.done = make(chan struct{})

	go rm.monitoringLoop(ctx, interval, rm.done)
}

// monitoringLoop 后台监控循环
func (rm *ResourceMonitor) monitoringLoop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rm.sample()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rm.sample()
		}
	}
}

// sample 采样一次并更新峰值
func (rm *ResourceMonitor) sample() {
	var memPercent, cpuPercent float64

	if vm, err := mem.VirtualMemory(); err != nil {
		log.Warn().Err(err).Msg("获取系统内存失败")
	} else {
		memPercent = vm.UsedPercent
	}

	// interval=0: 与上一次调用比较,不阻塞
	if percentages, err := cpu.Percent(0, false); err != nil {
		log.Warn().Err(err).Msg("获取CPU使用率失败")
	} else if len(percentages) > 0 {
		cpuPercent = percentages[0]
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.usage.Samples++
	if memPercent > rm.usage.PeakMemoryPercent {
		rm.usage.PeakMemoryPercent = memPercent
	}
	if cpuPercent > rm.usage.PeakCPUPercent {
		rm.usage.PeakCPUPercent = cpuPercent
	}
}

// StopMonitoring 停止采样并返回峰值
func (rm *ResourceMonitor) StopMonitoring() ResourceUsage {
	rm.mu.Lock()
	cancel, done := rm.cancelFunc, rm.done
	rm.cancelFunc, rm.done = nil, nil
	rm.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return rm.Usage()
}

// Usage 当前记录的峰值
func (rm *ResourceMonitor) Usage() ResourceUsage {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.usage
}
