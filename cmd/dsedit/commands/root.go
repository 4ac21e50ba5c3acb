package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"fedorabatch/pkg/app"
	"fedorabatch/pkg/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// 全局应用实例，供子命令使用
	DS *app.App
)

var rootCmd = &cobra.Command{
	Use:   "dsedit",
	Short: "Batch-edit Fedora datastreams selected by a Solr query",
	Long: `dsedit resolves a Solr query to a list of Fedora object ids and, one object at a time,
fetches a datastream, transforms it and writes it back.`,
	SilenceUsage: true,
	// PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init 就是去创建配置的，help 不需要任何依赖
		if cmd.Name() == "init" || cmd.Name() == "help" {
			return nil
		}

		settings := config.Current()
		if err := settings.Require(requiredEndpoints(cmd)...); err != nil {
			return fmt.Errorf("failed to initialize dsedit: %w\n(Did you set solr.url and fedora.url, or run 'dsedit init'?)", err)
		}

		var err error
		DS, err = app.NewApp(cmd.Context(), settings)
		if err != nil {
			return fmt.Errorf("failed to initialize dsedit: %w\n(Did you set solr.url and fedora.url, or run 'dsedit init'?)", err)
		}
		return nil
	},
}

// requiresAnnotation 记录命令依赖哪些远端服务，逗号分隔
const requiresAnnotation = "dsedit/requires"

func requires(endpoints ...config.Endpoint) map[string]string {
	names := make([]string, len(endpoints))
	for i, e := range endpoints {
		names[i] = string(e)
	}
	return map[string]string{requiresAnnotation: strings.Join(names, ",")}
}

func requiredEndpoints(cmd *cobra.Command) []config.Endpoint {
	raw := cmd.Annotations[requiresAnnotation]
	if raw == "" {
		return nil
	}
	var out []config.Endpoint
	for _, name := range strings.Split(raw, ",") {
		out = append(out, config.Endpoint(name))
	}
	return out
}

// Execute 是入口，结束时释放 App 持有的连接
func Execute(ctx context.Context) error {
	defer func() {
		if DS != nil {
			DS.Close()
			DS = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.dsedit/config.yaml or $HOME/.dsedit/config.yaml)")
	rootCmd.PersistentFlags().String("solr-url", "", "Solr select endpoint")
	rootCmd.PersistentFlags().String("fedora-url", "", "Fedora base URL")
	rootCmd.PersistentFlags().Int("rows", 0, "maximum ids fetched from Solr per request (default 100000)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	if err := bindFlags(); err != nil {
		fmt.Println("Failed to bind flag:", err)
		os.Exit(1)
	}
}

// bindFlags 把全局参数绑定到 Viper，用户既可以在 yaml 里写，也可以用参数覆盖
func bindFlags() error {
	bindings := map[string]string{
		"solr.url":   "solr-url",
		"fedora.url": "fedora-url",
		"solr.rows":  "rows",
		"log.level":  "log-level",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// initConfig 读取配置文件和环境变量
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Println("Config error:", err)
		os.Exit(1)
	}
}
