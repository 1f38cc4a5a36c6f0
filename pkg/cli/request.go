package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRequest reads a YAML or JSON request file into v. The format follows
// the file extension.
func LoadRequest(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return parseRequest(data, strings.ToLower(filepath.Ext(path)), v)
}

func parseRequest(data []byte, ext string, v any) error {
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
		return nil
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		return nil
	}

	// 扩展名未知：YAML 是 JSON 的超集，先按 YAML 解析
	yerr := yaml.Unmarshal(data, v)
	if yerr == nil {
		return nil
	}
	if jerr := json.Unmarshal(data, v); jerr == nil {
		return nil
	}
	return fmt.Errorf("failed to parse request as YAML or JSON: %w", yerr)
}
