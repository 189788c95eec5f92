package config

import (
	"fmt"
	"os"
)

// starterConfig is the template written by `huronsync init`.
const starterConfig = `# Huronalytics sync pipeline configuration
source:
  # Published spreadsheet export URL (query parameter selects the format).
  url: "https://docs.google.com/spreadsheets/d/EXAMPLE/export?format=xlsx"
  destination: "data/2025_26_MLB_Offseason.xlsx"

build:
  # External site generator; reads the snapshot, regenerates the output set.
  command: "python3"
  args: ["build.py"]
  # timeout: 10m

git:
  repo_path: "."
  remote: "origin"
  branch: "main"
  commit_label: "Auto-sync:"
  # author_name: "huronsync"
  # author_email: "huronsync@localhost"
  # auth:
  #   type: token
  #   token: "${HURONSYNC_GIT_TOKEN}"

daemon:
  interval: 30m
  http_addr: ":8080"
  # history_db: "huronsync.db"
  # nats:
  #   url: "nats://localhost:4222"
  #   subject: "huronsync.runs"
`

// Init writes the starter configuration file. Refuses to overwrite an
// existing file unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", path)
	}
	return os.WriteFile(path, []byte(starterConfig), 0o644)
}
