package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watcher 配置文件监听器
// 配置文件变更时重新加载并回调订阅者
type Watcher struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	viper      *viper.Viper
	callbacks  []func(*Config)
	stopped    bool
}

// NewWatcher 创建配置监听器
func NewWatcher(cfg *Config, configPath string) *Watcher {
	v := viper.New()
	v.SetConfigFile(configPath)

	return &Watcher{
		config:     cfg,
		configPath: configPath,
		viper:      v,
	}
}

// OnChange 注册配置变更回调
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start 启动配置监听
func (w *Watcher) Start() error {
	if err := w.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	w.viper.WatchConfig()
	w.viper.OnConfigChange(func(e fsnotify.Event) {
		w.mu.RLock()
		stopped := w.stopped
		w.mu.RUnlock()
		if stopped {
			return
		}

		var newCfg Config
		if err := w.viper.Unmarshal(&newCfg); err != nil {
			return
		}

		// 回调列表复制后在锁外执行,避免回调内再取锁导致死锁
		w.mu.Lock()
		w.config = &newCfg
		callbacks := make([]func(*Config), len(w.callbacks))
		copy(callbacks, w.callbacks)
		w.mu.Unlock()

		for _, callback := range callbacks {
			callback(&newCfg)
		}
	})

	return nil
}

// Stop 停止配置监听
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
}

// Current 获取当前配置
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}
