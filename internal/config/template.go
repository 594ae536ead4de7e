package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const yamlTemplate = `# droidsh configuration
log_level: info
# log_file: .droidsh/droidsh.log

agent:
  url: http://127.0.0.1:4444/rpc
  # secret: ${DROIDSH_SECRET}
  timeout: 60

loot:
  backend: file        # none, file, bolt or gist
  dir: .droidsh/loot
  db_path: .droidsh/loot.db
  # gist_token: ${GITHUB_TOKEN}
  public: false

geo:
  endpoint: https://www.googleapis.com/geolocation/v1/geolocate
  # api_key: ${GOOGLE_API_KEY}

sandbox:
  denied_paths: [/etc, /usr, /bin, /sbin]
  max_report_size: 64MB

console:
  prompt: droidsh
  color: auto
  history_size: 1000
`

const tomlTemplate = `# droidsh configuration
log_level = "info"

[agent]
url = "http://127.0.0.1:4444/rpc"
# secret = "${DROIDSH_SECRET}"
timeout = 60

[loot]
backend = "file"
dir = ".droidsh/loot"
db_path = ".droidsh/loot.db"
# gist_token = "${GITHUB_TOKEN}"
public = false

[geo]
endpoint = "https://www.googleapis.com/geolocation/v1/geolocate"
# api_key = "${GOOGLE_API_KEY}"

[sandbox]
denied_paths = ["/etc", "/usr", "/bin", "/sbin"]
max_report_size = "64MB"

[console]
prompt = "droidsh"
color = "auto"
history_size = 1000
`

// Template returns a starter config for the format implied by path.
func Template(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return tomlTemplate
	}
	return yamlTemplate
}

// WriteTemplate writes a starter config to path. It refuses to overwrite an
// existing file unless force is set.
func WriteTemplate(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("file %q already exists (use --force to overwrite)", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Template(path)), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
