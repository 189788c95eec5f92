package gitsync

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/wjhuron/Huronalytics/internal/config"
)

// buildAuth returns a go-git AuthMethod for the given AuthConfig.
// A nil/none config returns nil, meaning whatever ambient credentials the
// transport finds (credential helpers, ssh-agent) apply.
func buildAuth(authCfg *config.AuthConfig) (transport.AuthMethod, error) {
	if authCfg.IsZero() {
		return nil, nil
	}
	switch authCfg.Type {
	case config.AuthTypeToken:
		if authCfg.Token == "" {
			return nil, fmt.Errorf("token auth requires a token")
		}
		// Forges accept tokens as the password of a basic auth pair.
		username := authCfg.Username
		if username == "" {
			username = "git"
		}
		return &githttp.BasicAuth{Username: username, Password: authCfg.Token}, nil
	case config.AuthTypeBasic:
		if authCfg.Username == "" || authCfg.Password == "" {
			return nil, fmt.Errorf("basic auth requires username and password")
		}
		return &githttp.BasicAuth{Username: authCfg.Username, Password: authCfg.Password}, nil
	case config.AuthTypeSSH:
		if authCfg.KeyPath == "" {
			return nil, fmt.Errorf("ssh auth requires key_path")
		}
		keys, err := gitssh.NewPublicKeysFromFile("git", authCfg.KeyPath, "")
		if err != nil {
			return nil, fmt.Errorf("load ssh key %s: %w", authCfg.KeyPath, err)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", authCfg.Type)
	}
}
