package validator

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// SecurityPattern is one denylisted construct to scan for in raw source.
type SecurityPattern struct {
	// Pattern is the substring to match against the source text.
	Pattern string `yaml:"pattern"`
	// Message describes why the pattern is flagged.
	Message string `yaml:"message"`
}

// DefaultDenylist returns the built-in security denylist. Matching is plain
// substring matching against the raw source, so the scan works even on
// unparsable artifacts.
func DefaultDenylist() []SecurityPattern {
	return []SecurityPattern{
		{Pattern: "eval(", Message: "eval() detected - dynamic evaluation of strings"},
		{Pattern: "exec(", Message: "exec() detected - dynamic execution of strings"},
		{Pattern: "os.system(", Message: "os.system() detected - use subprocess with a list argument"},
		{Pattern: "shell=True", Message: "subprocess with shell=True detected - unsandboxed shell invocation"},
		{Pattern: "__import__", Message: "__import__ detected - use explicit import statements"},
		{Pattern: "pickle.load", Message: "pickle.load detected - deserializing untrusted data executes code"},
		{Pattern: "input(", Message: "input() without validation detected"},
		{Pattern: "execute(\"", Message: "string-built SQL detected - use parameterized queries"},
		{Pattern: "execute(f\"", Message: "f-string SQL detected - use parameterized queries"},
		{Pattern: "execute('", Message: "string-built SQL detected - use parameterized queries"},
	}
}

// denylistFile is the on-disk schema for a custom denylist.
type denylistFile struct {
	SecurityPatterns []SecurityPattern `yaml:"security_patterns"`
}

// LoadDenylist loads security patterns from a YAML file. Entries with an
// empty pattern are rejected.
func LoadDenylist(path string) ([]SecurityPattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read denylist: %w", err)
	}

	var file denylistFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse denylist: %w", err)
	}

	for i, p := range file.SecurityPatterns {
		if strings.TrimSpace(p.Pattern) == "" {
			return nil, fmt.Errorf("denylist entry %d has an empty pattern", i+1)
		}
	}

	return file.SecurityPatterns, nil
}
