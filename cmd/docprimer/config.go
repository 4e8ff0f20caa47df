package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/fwojciec/docprimer"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML configuration file over docprimer.DefaultConfig().
// A missing file yields the defaults.
func LoadConfig(path string) (docprimer.Config, error) {
	cfg := docprimer.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, docprimer.Errorf(docprimer.EINVALID, "invalid config %s: %v", path, err)
	}
	return cfg, nil
}

// ReadEnv returns the variables in an env file with values from getenv
// taking precedence. A missing file is ignored. The process environment
// is never modified.
func ReadEnv(path string, getenv func(string) string) (map[string]string, error) {
	env := map[string]string{}
	if path != "" {
		vars, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for k, v := range vars {
			env[k] = v
		}
	}
	if getenv != nil {
		for _, key := range []string{"GEMINI_API_KEY"} {
			if v := getenv(key); v != "" {
				env[key] = v
			}
		}
	}
	return env, nil
}

// crawlScope returns the configured scope, or one derived from the first
// seed's directory when no pattern is set.
func crawlScope(cfg docprimer.Config) (*docprimer.Scope, error) {
	if len(cfg.Seeds) == 0 {
		return nil, docprimer.Errorf(docprimer.EINVALID, "at least one seed URL required")
	}
	if cfg.ScopePattern != "" {
		return docprimer.NewScope(cfg.ScopePattern)
	}

	u, err := url.Parse(cfg.Seeds[0])
	if err != nil || u.Host == "" {
		return nil, docprimer.Errorf(docprimer.EINVALID, "invalid seed URL %q", cfg.Seeds[0])
	}
	dir := u.Path
	switch {
	case dir == "":
		dir = "/"
	case !strings.HasSuffix(dir, "/"):
		dir = path.Dir(dir)
		if dir != "/" {
			dir += "/"
		}
	}
	return docprimer.NewScope(regexp.QuoteMeta(u.Scheme + "://" + u.Host + dir))
}
