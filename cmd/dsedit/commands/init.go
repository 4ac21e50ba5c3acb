package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"fedorabatch/pkg/config"

	"github.com/spf13/cobra"
)

const starterConfig = `# dsedit configuration
solr:
  url: http://localhost:8080/solr/biblio/select
  rows: 100000
fedora:
  url: http://localhost:8089/fedora

http:
  timeout: 0s   # 0 = no timeout
  rate: 0       # requests per second, 0 = unlimited
  burst: 1

# snapshot originals before every write (needed for 'dsedit revert')
backup:
  type: disk    # none | disk | s3
  path: .dsedit/snapshots
  # redis_url: redis://localhost:6379/0
  # s3:
  #   endpoint: http://localhost:9000
  #   region: us-east-1
  #   bucket: dsedit
  #   access_key: minioadmin
  #   secret_key: minioadmin

journal:
  driver: sqlite  # none | sqlite | postgres
  path: .dsedit/journal.db

log:
  level: info
`

const starterIgnore = `# ids listed here are never edited (gitignore syntax)
# vudl:1
# archive:*
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .dsedit directory with a starter configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir := filepath.Join(wd, config.DirName)

		// 已存在就不覆盖用户的配置
		if _, err := os.Stat(dir); err == nil {
			fmt.Fprintf(out, "⚠️  dsedit is already initialized in %s\n", dir)
			return nil
		}

		if err := os.MkdirAll(filepath.Join(dir, "snapshots"), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(starterConfig), 0644); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, "ignore"), []byte(starterIgnore), 0644); err != nil {
			return err
		}

		fmt.Fprintf(out, "✅ Initialized dsedit in %s (edit config.yaml to point at your Solr and Fedora)\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
