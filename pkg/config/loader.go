package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：当前目录 -> ./.dsedit -> ~/.dsedit
		viper.AddConfigPath(".")
		viper.AddConfigPath(DirName)
		viper.AddConfigPath(filepath.Join(home, DirName))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config") // 找 config.yaml
	}

	// 3. 读取环境变量 (DSEDIT_SOLR_URL 等)
	viper.SetEnvPrefix("DSEDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 没找到配置文件不算错：URL 可以来自环境变量或命令行参数
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	}

	return nil
}

// DirName 是工作目录下的本地状态目录 (配置、快照、运行日志、排除规则)
const DirName = ".dsedit"

func setDefaults() {
	// Solr
	viper.SetDefault("solr.rows", 100000)

	// HTTP: 0 表示不限
	viper.SetDefault("http.timeout", "0s")
	viper.SetDefault("http.rate", 0.0)
	viper.SetDefault("http.burst", 1)
	viper.SetDefault("http.user_agent", "dsedit/1.0")

	// 快照
	viper.SetDefault("backup.type", "none")
	viper.SetDefault("backup.path", filepath.Join(DirName, "snapshots"))
	viper.SetDefault("backup.s3.region", "us-east-1")
	viper.SetDefault("backup.cache_ttl", "24h")

	// 运行日志
	viper.SetDefault("journal.driver", "none")
	viper.SetDefault("journal.path", filepath.Join(DirName, "journal.db"))

	// 数据库默认值 (postgres)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("ignore.file", filepath.Join(DirName, "ignore"))
}
