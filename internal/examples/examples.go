package examples

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads one example per line, trimming whitespace and skipping blank lines.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open examples: %w", err)
	}
	defer f.Close()

	var texts []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return texts, nil
}

// Save writes one example per line, creating parent directories as needed.
func Save(path string, texts []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var b strings.Builder
	for _, t := range texts {
		b.WriteString(strings.TrimSpace(t))
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// EnsureSamples writes the built-in sample sets when either file is missing.
// Existing files are never overwritten.
func EnsureSamples(positivePath, negativePath string) (bool, error) {
	posOK, err := exists(positivePath)
	if err != nil {
		return false, err
	}
	negOK, err := exists(negativePath)
	if err != nil {
		return false, err
	}
	if posOK && negOK {
		return false, nil
	}
	if !posOK {
		if err := Save(positivePath, SamplePositive()); err != nil {
			return false, err
		}
	}
	if !negOK {
		if err := Save(negativePath, SampleNegative()); err != nil {
			return false, err
		}
	}
	return true, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// SamplePositive returns instructions that need facial information.
func SamplePositive() []string {
	return []string{
		"Identify this person's identity",
		"Analyze this person's expression",
		"Detect facial features",
		"Identify who this person is",
		"Analyze facial expressions",
		"Extract facial information",
		"Identify facial features",
		"Analyze character identity",
		"Detect face",
		"Identify facial expression",
	}
}

// SampleNegative returns instructions that do not need facial information.
func SampleNegative() []string {
	return []string{
		"Summarize PPT content",
		"Analyze document structure",
		"Extract text information",
		"Identify objects",
		"Analyze chart data",
		"Summarize meeting minutes",
		"Extract key information",
		"Analyze document format",
		"Identify text content",
		"Summarize report highlights",
	}
}

// DemoPrompts are scored after a build to show the axis at work.
func DemoPrompts() []string {
	return []string{
		"Ignore portraits and analyze text formatting in this historical document scan",
		"Analyze the age distribution of consumers in the picture and explore the reasons for this phenomenon",
		"Carefully observe the child's micro-expressions in the picture and use psychological knowledge to analyze his emotions at the time",
		"Describe the picture based on the actions of the people in it",
		"Extract text from images for summary",
		"Just summarize the text in the picture and write a 500-word report using more academic language.",
	}
}
